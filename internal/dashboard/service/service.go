// Package service orchestrates the compliance dashboards: paged store
// queries, eligibility classification, priority ranking, and cached summary
// counts.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"certtrack/internal/dashboard/metrics"
	"certtrack/internal/eligibility"
	"certtrack/internal/platform/redis"
	"certtrack/internal/requirement"
	dErrors "certtrack/pkg/domain-errors"
	"certtrack/pkg/requestcontext"
)

// allStatuses keeps summary responses shape-stable: every status appears even
// when its count is zero.
var allStatuses = []eligibility.Status{
	eligibility.StatusNotYetCertified,
	eligibility.StatusActive,
	eligibility.StatusDue,
	eligibility.StatusExpired,
	eligibility.StatusPending,
	eligibility.StatusInvalid,
}

// Service serves the priority and summary dashboard views. It keeps
// orchestration out of handlers and pure logic in the eligibility core.
type Service struct {
	store    requirement.Store
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

// New constructs the dashboard service. The cache client may be nil, which
// disables summary caching.
func New(store requirement.Store, cache *redis.Client, cacheTTL time.Duration, logger *slog.Logger, m *metrics.Metrics) (*Service, error) {
	if store == nil {
		return nil, errors.New("requirement store is required")
	}
	return &Service{
		store:    store,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
		metrics:  m,
		tracer:   otel.Tracer("certtrack/dashboard"),
	}, nil
}

// Priority returns one ordered page of requirements for the given status
// view. The store applies scope and status filtering plus pagination; this
// method re-derives status/deadline per entry and orders the returned page
// for consistent presentation. Page totals come from the store since it sees
// the full dataset.
func (s *Service) Priority(ctx context.Context, filter requirement.ScopeFilter, status eligibility.Status, page, size int) (eligibility.RankedPage, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.Priority",
		trace.WithAttributes(attribute.String("status", string(status))))
	defer span.End()

	start := time.Now()

	if !status.Valid() {
		return eligibility.RankedPage{}, dErrors.New(dErrors.CodeBadRequest, "unknown status: "+string(status))
	}
	if page < 1 || size < 1 {
		return eligibility.RankedPage{}, dErrors.New(dErrors.CodeBadRequest, "page and size must be positive")
	}

	filter.Statuses = []eligibility.Status{status}
	storePage, err := s.store.Query(ctx, filter, page, size)
	if err != nil {
		return eligibility.RankedPage{}, dErrors.Wrap(dErrors.CodeInternal, "failed to query requirements", err)
	}

	entries := make([]eligibility.Requirement, 0, len(storePage.Content))
	for _, record := range storePage.Content {
		entries = append(entries, record.Eligibility())
	}

	ranked, err := eligibility.Rank(entries, status, 1, size, requestcontext.Now(ctx))
	if err != nil {
		return eligibility.RankedPage{}, err
	}

	// The store saw the full dataset; its totals win over the page-local ones.
	ranked.TotalPages = storePage.TotalPages
	ranked.TotalElements = storePage.TotalElements

	for _, item := range ranked.Items {
		s.metrics.IncrementStatusServed(string(item.Status))
	}
	s.metrics.ObserveQueryLatency("priority", time.Since(start))

	return ranked, nil
}

// Summary returns requirement counts per status within the given scope,
// cached in Redis when configured.
func (s *Service) Summary(ctx context.Context, filter requirement.ScopeFilter) (map[eligibility.Status]int, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.Summary")
	defer span.End()

	start := time.Now()
	defer func() { s.metrics.ObserveQueryLatency("summary", time.Since(start)) }()

	key, err := summaryCacheKey(filter)
	if err == nil && s.cache != nil {
		if cached, found := s.cacheLookup(ctx, key); found {
			s.metrics.RecordCacheHit()
			return cached, nil
		}
		s.metrics.RecordCacheMiss()
	}

	counts, err := s.store.CountByStatus(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to count requirements", err)
	}
	for _, status := range allStatuses {
		if _, ok := counts[status]; !ok {
			counts[status] = 0
		}
	}

	if s.cache != nil {
		s.cacheStore(ctx, key, counts)
	}
	return counts, nil
}

func (s *Service) cacheLookup(ctx context.Context, key string) (map[eligibility.Status]int, bool) {
	raw, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			s.logger.WarnContext(ctx, "summary cache lookup failed", "error", err)
		}
		return nil, false
	}
	var counts map[eligibility.Status]int
	if err := json.Unmarshal([]byte(raw), &counts); err != nil {
		s.logger.WarnContext(ctx, "summary cache entry corrupt, ignoring", "error", err)
		return nil, false
	}
	return counts, true
}

func (s *Service) cacheStore(ctx context.Context, key string, counts map[eligibility.Status]int) {
	raw, err := json.Marshal(counts)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
		s.logger.WarnContext(ctx, "summary cache store failed", "error", err)
	}
}

// summaryCacheKey derives a stable key from the scope filter.
func summaryCacheKey(filter requirement.ScopeFilter) (string, error) {
	raw, err := json.Marshal(filter)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("certtrack:summary:%s", raw), nil
}
