// Package gcal wraps the Google Calendar API behind the four calls
// the synchronizer needs, keyed by external event id.
package gcal

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/homeboardhq/homeboard-backend/internal/pkg/ctxutil"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/logger"
)

// Event is the neutral shape exchanged with the remote calendar.
type Event struct {
	ID       string
	Title    string
	Start    time.Time
	End      time.Time
	Location string
}

type Client interface {
	Create(ctx context.Context, ev Event) (string, error)
	Update(ctx context.Context, externalID string, ev Event) error
	Get(ctx context.Context, externalID string) (*Event, error)
	List(ctx context.Context, from, to time.Time) ([]Event, error)
}

func clientOptionsFromEnv() []option.ClientOption {
	creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"))
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}

type client struct {
	log        *logger.Logger
	svc        *calendar.Service
	calendarID string
}

func NewFromEnv(ctx context.Context, log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	calendarID := strings.TrimSpace(os.Getenv("FAMILY_CALENDAR_ID"))
	if calendarID == "" {
		calendarID = "primary"
	}
	opts := append(clientOptionsFromEnv(), option.WithScopes(calendar.CalendarEventsScope))
	svc, err := calendar.NewService(ctxutil.Default(ctx), opts...)
	if err != nil {
		return nil, fmt.Errorf("calendar service init: %w", err)
	}
	return &client{
		log:        log.With("client", "CalendarClient"),
		svc:        svc,
		calendarID: calendarID,
	}, nil
}

func (c *client) Create(ctx context.Context, ev Event) (string, error) {
	created, err := c.svc.Events.Insert(c.calendarID, toGoogle(ev)).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("calendar insert: %w", err)
	}
	return created.Id, nil
}

func (c *client) Update(ctx context.Context, externalID string, ev Event) error {
	if _, err := c.svc.Events.Update(c.calendarID, externalID, toGoogle(ev)).Context(ctx).Do(); err != nil {
		return fmt.Errorf("calendar update %s: %w", externalID, err)
	}
	return nil
}

func (c *client) Get(ctx context.Context, externalID string) (*Event, error) {
	remote, err := c.svc.Events.Get(c.calendarID, externalID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("calendar get %s: %w", externalID, err)
	}
	ev, convErr := fromGoogle(remote)
	if convErr != nil {
		return nil, convErr
	}
	return &ev, nil
}

func (c *client) List(ctx context.Context, from, to time.Time) ([]Event, error) {
	call := c.svc.Events.List(c.calendarID).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx)
	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("calendar list: %w", err)
	}
	out := make([]Event, 0, len(resp.Items))
	for _, item := range resp.Items {
		ev, convErr := fromGoogle(item)
		if convErr != nil {
			c.log.Warn("skipping unparsable calendar event", "event_id", item.Id, "error", convErr)
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func toGoogle(ev Event) *calendar.Event {
	return &calendar.Event{
		Summary:  ev.Title,
		Location: ev.Location,
		Start:    &calendar.EventDateTime{DateTime: ev.Start.Format(time.RFC3339)},
		End:      &calendar.EventDateTime{DateTime: ev.End.Format(time.RFC3339)},
	}
}

func fromGoogle(item *calendar.Event) (Event, error) {
	if item.Start == nil || item.End == nil {
		return Event{}, fmt.Errorf("calendar event %s missing times", item.Id)
	}
	start, err := time.Parse(time.RFC3339, item.Start.DateTime)
	if err != nil {
		return Event{}, fmt.Errorf("calendar event %s start: %w", item.Id, err)
	}
	end, err := time.Parse(time.RFC3339, item.End.DateTime)
	if err != nil {
		return Event{}, fmt.Errorf("calendar event %s end: %w", item.Id, err)
	}
	return Event{
		ID:       item.Id,
		Title:    item.Summary,
		Start:    start,
		End:      end,
		Location: item.Location,
	}, nil
}
