package reminder

import (
	"context"
	"log/slog"
	"sync"
)

// Publisher delivers reminder events to whatever carries notifications
// downstream.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// LogPublisher writes events to the log. Used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event Event) error {
	p.logger.InfoContext(ctx, "reminder event",
		"requirement_id", event.RequirementID,
		"employee_id", event.EmployeeID,
		"rule_code", event.RuleCode,
		"from_status", event.FromStatus,
		"to_status", event.ToStatus,
	)
	return nil
}

// CapturePublisher records events in memory. Test double.
type CapturePublisher struct {
	mu     sync.Mutex
	events []Event
}

func NewCapturePublisher() *CapturePublisher {
	return &CapturePublisher{}
}

func (p *CapturePublisher) Publish(_ context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// Events returns a copy of everything published so far.
func (p *CapturePublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}
