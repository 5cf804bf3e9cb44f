package domain

import "context"

// CommitKey is the config store key holding the published commit identifier.
const CommitKey = "sha"

// CommitResolver yields the commit identifier that config artifact URLs are pinned to.
// Implementations are chosen once at startup (store-backed or API-backed).
type CommitResolver interface {
	ResolveCommit(ctx context.Context) (string, error)
}

// CommitResolverFunc adapts a function to CommitResolver.
type CommitResolverFunc func(ctx context.Context) (string, error)

func (f CommitResolverFunc) ResolveCommit(ctx context.Context) (string, error) {
	return f(ctx)
}
