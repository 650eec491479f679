package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/spec-kit/ticket-assignment/internal/config"
	"github.com/spec-kit/ticket-assignment/internal/domain"
)

// ErrNotConfigured means no credentials were supplied.
var ErrNotConfigured = errors.New("calendar credentials not configured")

// GoogleClient answers free/busy queries against Google Calendar.
type GoogleClient struct {
	svc *gcal.Service
}

// NewGoogleClient builds a read-only client from a service account file.
func NewGoogleClient(ctx context.Context, cfg config.CalendarConfig) (*GoogleClient, error) {
	if cfg.CredentialsFile == "" {
		return nil, ErrNotConfigured
	}
	opts := []option.ClientOption{
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(gcal.CalendarReadonlyScope),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	return NewGoogleClientWithOptions(ctx, opts...)
}

// NewGoogleClientWithOptions builds a client from raw API options.
func NewGoogleClientWithOptions(ctx context.Context, opts ...option.ClientOption) (*GoogleClient, error) {
	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return &GoogleClient{svc: svc}, nil
}

// BusyPeriods lists busy intervals on the calendar owned by email in [from, to).
func (c *GoogleClient) BusyPeriods(ctx context.Context, email string, from, to time.Time) ([]domain.BusyPeriod, error) {
	req := &gcal.FreeBusyRequest{
		TimeMin: from.UTC().Format(time.RFC3339),
		TimeMax: to.UTC().Format(time.RFC3339),
		Items:   []*gcal.FreeBusyRequestItem{{Id: email}},
	}
	resp, err := c.svc.Freebusy.Query(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("freebusy query for %s: %w", email, err)
	}

	cal, ok := resp.Calendars[email]
	if !ok {
		return nil, fmt.Errorf("freebusy response missing calendar %s", email)
	}
	if len(cal.Errors) > 0 {
		return nil, fmt.Errorf("freebusy calendar %s: %s", email, cal.Errors[0].Reason)
	}

	periods := make([]domain.BusyPeriod, 0, len(cal.Busy))
	for _, b := range cal.Busy {
		if b == nil {
			continue
		}
		start, err := time.Parse(time.RFC3339, b.Start)
		if err != nil {
			return nil, fmt.Errorf("parse busy start %q: %w", b.Start, err)
		}
		end, err := time.Parse(time.RFC3339, b.End)
		if err != nil {
			return nil, fmt.Errorf("parse busy end %q: %w", b.End, err)
		}
		periods = append(periods, domain.BusyPeriod{Start: start, End: end})
	}
	return periods, nil
}
