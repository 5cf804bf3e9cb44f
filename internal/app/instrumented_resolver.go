package app

import (
	"context"
	"errors"
	"time"

	"github.com/pscheid92/subredirect/internal/adapter/metrics"
	"github.com/pscheid92/subredirect/internal/domain"
)

// InstrumentedResolver records lookup counts and latency for a CommitResolver.
type InstrumentedResolver struct {
	next    domain.CommitResolver
	source  string
	metrics *metrics.CommitMetrics
}

func NewInstrumentedResolver(next domain.CommitResolver, source string, m *metrics.CommitMetrics) *InstrumentedResolver {
	return &InstrumentedResolver{next: next, source: source, metrics: m}
}

func (r *InstrumentedResolver) ResolveCommit(ctx context.Context) (string, error) {
	start := time.Now()
	commit, err := r.next.ResolveCommit(ctx)
	r.metrics.LookupDuration.WithLabelValues(r.source).Observe(time.Since(start).Seconds())

	result := "ok"
	switch {
	case errors.Is(err, domain.ErrCommitNotFound):
		result = "not_found"
	case err != nil:
		result = "error"
	}
	r.metrics.Lookups.WithLabelValues(r.source, result).Inc()

	return commit, err
}
