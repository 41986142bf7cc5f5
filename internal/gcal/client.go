package gcal

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/lunarfrog/booking-link-backend/internal/timeslot"
)

// CalendarInfo describes one calendar visible to a connected account.
type CalendarInfo struct {
	ID         string `json:"id"`
	Summary    string `json:"summary"`
	Primary    bool   `json:"primary"`
	AccessRole string `json:"access_role"`
}

// EventInput holds everything needed to create a booking invite event.
type EventInput struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	Timezone    string
	GuestEmail  string
	GuestName   string
}

// Client wraps the Google Calendar API for a single authorized token source.
// All methods are safe for concurrent use.
type Client struct{}

// NewClient creates a Google Calendar API client.
func NewClient() *Client {
	return &Client{}
}

func calendarService(ctx context.Context, ts oauth2.TokenSource) (*calendar.Service, error) {
	srv, err := calendar.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return srv, nil
}

// FreeBusy returns the merged busy intervals of the given calendars inside
// the query window. A calendar that the API reports an error for (deleted,
// unshared) fails the whole call so availability is never silently wrong.
func (c *Client) FreeBusy(ctx context.Context, ts oauth2.TokenSource, calendarIDs []string, window timeslot.Interval) ([]timeslot.Interval, error) {
	srv, err := calendarService(ctx, ts)
	if err != nil {
		return nil, err
	}

	req := &calendar.FreeBusyRequest{
		TimeMin: window.Start.Format(time.RFC3339),
		TimeMax: window.End.Format(time.RFC3339),
	}
	for _, id := range calendarIDs {
		req.Items = append(req.Items, &calendar.FreeBusyRequestItem{Id: id})
	}

	resp, err := srv.Freebusy.Query(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("freebusy query failed: %w", err)
	}

	return busyIntervals(resp)
}

// busyIntervals flattens a freebusy response into intervals. Split out so the
// parsing can be tested without the network.
func busyIntervals(resp *calendar.FreeBusyResponse) ([]timeslot.Interval, error) {
	var busy []timeslot.Interval
	for id, cal := range resp.Calendars {
		for _, e := range cal.Errors {
			return nil, fmt.Errorf("calendar %s: %s", id, e.Reason)
		}
		for _, p := range cal.Busy {
			start, err := time.Parse(time.RFC3339, p.Start)
			if err != nil {
				return nil, fmt.Errorf("calendar %s: invalid busy start %q: %w", id, p.Start, err)
			}
			end, err := time.Parse(time.RFC3339, p.End)
			if err != nil {
				return nil, fmt.Errorf("calendar %s: invalid busy end %q: %w", id, p.End, err)
			}
			busy = append(busy, timeslot.Interval{Start: start, End: end})
		}
	}
	return busy, nil
}

// CreateEvent inserts a booking invite into the given calendar, attending the
// guest and emailing them the invite. Returns the created event ID.
func (c *Client) CreateEvent(ctx context.Context, ts oauth2.TokenSource, calendarID string, in EventInput) (string, error) {
	srv, err := calendarService(ctx, ts)
	if err != nil {
		return "", err
	}

	event := buildEvent(in)
	created, err := srv.Events.Insert(calendarID, event).SendUpdates("all").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create event: %w", err)
	}
	return created.Id, nil
}

func buildEvent(in EventInput) *calendar.Event {
	return &calendar.Event{
		Summary:     in.Summary,
		Description: in.Description,
		Start: &calendar.EventDateTime{
			DateTime: in.Start.Format(time.RFC3339),
			TimeZone: in.Timezone,
		},
		End: &calendar.EventDateTime{
			DateTime: in.End.Format(time.RFC3339),
			TimeZone: in.Timezone,
		},
		Attendees: []*calendar.EventAttendee{
			{Email: in.GuestEmail, DisplayName: in.GuestName},
		},
	}
}

// ListCalendars returns the calendars visible to the connected account.
func (c *Client) ListCalendars(ctx context.Context, ts oauth2.TokenSource) ([]CalendarInfo, error) {
	srv, err := calendarService(ctx, ts)
	if err != nil {
		return nil, err
	}

	resp, err := srv.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}

	calendars := make([]CalendarInfo, 0, len(resp.Items))
	for _, item := range resp.Items {
		calendars = append(calendars, CalendarInfo{
			ID:         item.Id,
			Summary:    item.Summary,
			Primary:    item.Primary,
			AccessRole: item.AccessRole,
		})
	}
	return calendars, nil
}

// UserEmail returns the email address of the account behind the token.
// Used once during the OAuth callback to label the connected account.
func (c *Client) UserEmail(ctx context.Context, ts oauth2.TokenSource) (string, error) {
	srv, err := oauth2api.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return "", fmt.Errorf("failed to create userinfo service: %w", err)
	}

	info, err := srv.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to fetch userinfo: %w", err)
	}
	if info.Email == "" {
		return "", fmt.Errorf("userinfo response contained no email")
	}
	return info.Email, nil
}
