package reminder

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"certtrack/internal/eligibility"
	"certtrack/internal/reminder/metrics"
	"certtrack/internal/requirement"
)

// Scanner periodically re-classifies requirements whose reminder, due, or
// expiry date has been reached, refreshes their stored status, and publishes
// an event for every transition into a notifiable status.
//
// Publishing happens before the status write: a crash between the two repeats
// the event on the next scan rather than losing it.
type Scanner struct {
	store     requirement.Store
	publisher Publisher
	interval  time.Duration
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// NewScanner constructs the reminder scanner.
func NewScanner(store requirement.Store, publisher Publisher, interval time.Duration, logger *slog.Logger, m *metrics.Metrics) (*Scanner, error) {
	if store == nil {
		return nil, errors.New("requirement store is required")
	}
	if publisher == nil {
		return nil, errors.New("publisher is required")
	}
	if interval <= 0 {
		return nil, errors.New("scan interval must be positive")
	}
	return &Scanner{
		store:     store,
		publisher: publisher,
		interval:  interval,
		logger:    logger,
		metrics:   m,
	}, nil
}

// Run scans on every tick until ctx is cancelled.
func (s *Scanner) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.Scan(ctx, time.Now()); err != nil {
				s.logger.ErrorContext(ctx, "reminder scan failed", "error", err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Scan runs one cycle at the given evaluation time.
func (s *Scanner) Scan(ctx context.Context, now time.Time) error {
	candidates, err := s.store.Candidates(ctx, now)
	if err != nil {
		return err
	}

	transitions := 0
	for _, record := range candidates {
		classification, err := eligibility.Classify(record.Eligibility(), now)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping unclassifiable requirement",
				"requirement_id", record.ID,
				"error", err,
			)
			continue
		}
		if classification.Status == record.Status {
			continue
		}

		if notifiable(classification.Status) {
			event := Event{
				RequirementID: record.ID,
				EmployeeID:    record.EmployeeID,
				EmployeeName:  record.EmployeeName,
				RuleCode:      classification.RuleCode,
				FromStatus:    record.Status,
				ToStatus:      classification.Status,
				Deadline:      classification.Deadline,
				OccurredAt:    now,
			}
			if err := s.publisher.Publish(ctx, event); err != nil {
				s.metrics.IncrementPublishFailures()
				s.logger.ErrorContext(ctx, "reminder event publish failed",
					"requirement_id", record.ID,
					"to_status", classification.Status,
					"error", err,
				)
				continue
			}
			s.metrics.IncrementEventsPublished()
		}

		if err := s.store.UpdateStatus(ctx, record.ID, classification.Status); err != nil {
			s.logger.ErrorContext(ctx, "status refresh failed",
				"requirement_id", record.ID,
				"error", err,
			)
			continue
		}
		s.metrics.IncrementTransitions(string(classification.Status))
		transitions++
	}

	s.metrics.IncrementScans()
	s.logger.InfoContext(ctx, "reminder scan complete",
		"candidates", len(candidates),
		"transitions", transitions,
	)
	return nil
}
