package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pscheid92/subredirect/internal/domain"
	"golang.org/x/sync/singleflight"
)

const (
	shaMediaType    = "application/vnd.github.sha"
	apiVersion      = "2022-11-28"
	maxResponseBody = 64 << 10
)

// CommitResolver looks up the latest commit of a repository ref through the GitHub
// REST API. Every call hits the API; concurrent calls share one in-flight request.
type CommitResolver struct {
	client   *http.Client
	endpoint string
	token    string
	group    singleflight.Group
}

var _ domain.CommitResolver = (*CommitResolver)(nil)

// NewCommitResolver creates a resolver for owner/repo at ref.
func NewCommitResolver(apiURL, token, owner, repo, ref string, timeout time.Duration) *CommitResolver {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/commits/%s",
		strings.TrimRight(apiURL, "/"), url.PathEscape(owner), url.PathEscape(repo), url.PathEscape(ref))

	return &CommitResolver{
		client:   &http.Client{Timeout: timeout},
		endpoint: endpoint,
		token:    token,
	}
}

// ResolveCommit returns the response body verbatim on 200. Any other status is an
// error carrying the status code, status text and body.
func (r *CommitResolver) ResolveCommit(ctx context.Context) (string, error) {
	v, err, _ := r.group.Do(r.endpoint, func() (any, error) {
		return r.fetch(context.WithoutCancel(ctx))
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (r *CommitResolver) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create commit request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.token)
	req.Header.Set("Accept", shaMediaType)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute commit request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return "", fmt.Errorf("failed to read commit response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{
			StatusCode: resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
			Body:       string(body),
		}
	}

	return string(body), nil
}

// StatusError is returned when the commits API answers with a non-200 status.
type StatusError struct {
	StatusCode int
	StatusText string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("commit lookup failed: %d %s: %s", e.StatusCode, e.StatusText, e.Body)
}
