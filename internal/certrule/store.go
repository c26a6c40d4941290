package certrule

import (
	"context"

	id "certtrack/pkg/domain"
)

// Store persists the certification rule registry. Rule sets are small, so
// listings return everything, ordered by composed rule code then id.
type Store interface {
	Create(ctx context.Context, rule Rule) error
	Update(ctx context.Context, rule Rule) error
	Get(ctx context.Context, ruleID id.RuleID) (Rule, error)
	List(ctx context.Context) ([]Rule, error)
	Delete(ctx context.Context, ruleID id.RuleID) error
}
