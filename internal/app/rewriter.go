package app

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/pscheid92/subredirect/internal/domain"
	apperrors "github.com/pscheid92/subredirect/internal/platform/errors"
)

var errStoreNotConfigured = errors.New("config store not configured")

// Rewriter turns encoded target paths into subscription URLs and manages the published
// commit identifier.
type Rewriter struct {
	resolver domain.CommitResolver
	store    domain.ConfigStore
	token    string
	locator  ArtifactLocator
}

// NewRewriter creates the request rewriter.
// store may be nil when the API-backed resolver runs without Redis; publishing then fails.
func NewRewriter(resolver domain.CommitResolver, store domain.ConfigStore, token string, locator ArtifactLocator) *Rewriter {
	return &Rewriter{
		resolver: resolver,
		store:    store,
		token:    token,
		locator:  locator,
	}
}

// ConfigURL resolves the current commit and returns the artifact URL for host.
func (r *Rewriter) ConfigURL(ctx context.Context, host string) (string, error) {
	commit, err := r.resolver.ResolveCommit(ctx)
	if err != nil {
		return "", apperrors.ExternalError("commit lookup failed", err)
	}
	return r.locator.URL(commit, host), nil
}

// Publish stores value as the commit identifier if token matches the configured secret.
func (r *Rewriter) Publish(ctx context.Context, token, value string) error {
	if r.token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(r.token)) != 1 {
		return apperrors.UnauthorizedError("Unauthorized")
	}
	if r.store == nil {
		return apperrors.InternalError("publish unavailable", errStoreNotConfigured)
	}

	if err := r.store.Set(ctx, domain.CommitKey, value); err != nil {
		return apperrors.ExternalError("failed to store commit", err)
	}

	slog.InfoContext(ctx, "Commit published", "commit", value)
	return nil
}

// Rewrite parses the target encoded in escapedPath, points it at the subscription
// endpoint and fills in the defaults the caller did not supply.
func (r *Rewriter) Rewrite(ctx context.Context, escapedPath, rawQuery, host string) (*url.URL, error) {
	target, err := ParseTarget(escapedPath, rawQuery)
	if err != nil {
		return nil, apperrors.ValidationError(err.Error())
	}

	target.Path = domain.SubscriptionPath
	target.RawPath = ""

	query := newOrderedQuery(target.RawQuery)
	for _, d := range domain.StaticDefaults {
		query.SetDefault(d.Name, d.Value)
	}
	if !query.Has(domain.ParamConfig) {
		configURL, err := r.ConfigURL(ctx, host)
		if err != nil {
			return nil, fmt.Errorf("resolve %s default: %w", domain.ParamConfig, err)
		}
		query.SetDefault(domain.ParamConfig, configURL)
	}
	target.RawQuery = query.Encode()
	target.ForceQuery = false

	return target, nil
}
