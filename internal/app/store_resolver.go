package app

import (
	"context"
	"fmt"

	"github.com/pscheid92/subredirect/internal/domain"
)

// StoreCommitResolver reads the published commit identifier from the config store.
// There is no fallback fetch: an unpublished identifier is an error.
type StoreCommitResolver struct {
	store domain.ConfigStore
}

func NewStoreCommitResolver(store domain.ConfigStore) *StoreCommitResolver {
	return &StoreCommitResolver{store: store}
}

func (r *StoreCommitResolver) ResolveCommit(ctx context.Context) (string, error) {
	commit, found, err := r.store.Get(ctx, domain.CommitKey)
	if err != nil {
		return "", fmt.Errorf("failed to read %q from config store: %w", domain.CommitKey, err)
	}
	if !found {
		return "", domain.ErrCommitNotFound
	}
	return commit, nil
}
