// Package github resolves commit identifiers through the GitHub REST API.
package github
