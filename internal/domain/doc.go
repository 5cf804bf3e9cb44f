// Package domain defines the core domain types and interfaces.
//
// Contracts only: the commit resolver capability, the key-value config store, and the
// query parameter defaults injected into rewritten subscription URLs.
package domain
