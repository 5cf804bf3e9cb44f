// Package app provides the application service layer.
//
// Rewriter parses encoded target paths, normalizes their scheme, points them at the
// subscription endpoint and injects query defaults, resolving the config artifact URL
// through a domain.CommitResolver. StoreCommitResolver is the store-backed resolver.
package app
