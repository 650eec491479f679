package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-assignment/internal/domain"
	"github.com/spec-kit/ticket-assignment/internal/observability"
)

// CalendarClient reports busy intervals for a calendar owner in [from, to).
type CalendarClient interface {
	BusyPeriods(ctx context.Context, email string, from, to time.Time) ([]domain.BusyPeriod, error)
}

var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDueDate accepts ISO-8601 timestamps and plain dates. Values without a
// zone are read as UTC.
func ParseDueDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty due date")
	}
	for _, layout := range dueDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized due date %q", raw)
}

// AvailabilityChecker answers whether a technician is free until a due date.
// Every failure path answers true.
type AvailabilityChecker struct {
	calendar CalendarClient
	timeout  time.Duration
	logger   *zap.Logger
	metrics  *observability.Metrics
	now      func() time.Time
}

// NewAvailabilityChecker builds a checker. A nil calendar disables checks.
func NewAvailabilityChecker(calendar CalendarClient, timeout time.Duration, logger *zap.Logger, metrics *observability.Metrics) *AvailabilityChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityChecker{
		calendar: calendar,
		timeout:  timeout,
		logger:   logger,
		metrics:  metrics,
		now:      time.Now,
	}
}

type busyResult struct {
	periods []domain.BusyPeriod
	err     error
}

// IsAvailable reports false only when the calendar confirms a busy interval
// between now and the due date.
func (c *AvailabilityChecker) IsAvailable(ctx context.Context, email, dueDate string) bool {
	if c == nil || c.calendar == nil {
		c.record(observability.AvailabilityNotConfigured)
		return true
	}

	due, err := ParseDueDate(dueDate)
	if err != nil {
		c.logger.Debug("due date not parseable, assuming available",
			zap.String("technician_email", email),
			zap.String("due_date", dueDate),
			zap.Error(err))
		c.record(observability.AvailabilityBadDueDate)
		return true
	}

	now := c.now()
	if !due.After(now) {
		c.record(observability.AvailabilityPastDue)
		return true
	}

	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	done := make(chan busyResult, 1)
	go func() {
		periods, err := c.calendar.BusyPeriods(callCtx, email, now, due)
		done <- busyResult{periods: periods, err: err}
	}()

	var res busyResult
	select {
	case res = <-done:
	case <-callCtx.Done():
		res.err = callCtx.Err()
	}
	c.metrics.ObserveDependency("calendar", res.err, time.Since(start))

	if res.err != nil {
		c.logger.Warn("calendar check failed, assuming available",
			zap.String("technician_email", email),
			zap.Error(res.err))
		c.record(observability.AvailabilityFailOpen)
		return true
	}

	if len(res.periods) > 0 {
		c.logger.Debug("technician busy before due date",
			zap.String("technician_email", email),
			zap.Int("busy_periods", len(res.periods)))
		c.record(observability.AvailabilityBusy)
		return false
	}

	c.record(observability.AvailabilityFree)
	return true
}

func (c *AvailabilityChecker) record(outcome string) {
	if c == nil {
		return
	}
	c.metrics.RecordAvailability(outcome)
}
