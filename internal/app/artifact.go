package app

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	liteMarker       = "min"
	noDNSLeakMarker  = "ndl"
	artifactBaseName = "ACL4SSR_Online"
)

// ArtifactName picks the rule-set file for the host the request arrived on. The first
// DNS label selects the variant: a "min" prefix drops the "_Full" rule set and an "ndl"
// suffix adds the no-DNS-leak variant.
func ArtifactName(host string) string {
	label, _, _ := strings.Cut(hostname(host), ".")

	var b strings.Builder
	b.WriteString(artifactBaseName)
	if !strings.HasPrefix(label, liteMarker) {
		b.WriteString("_Full")
	}
	b.WriteString("_Mannix")
	if strings.HasSuffix(label, noDNSLeakMarker) {
		b.WriteString("_No_DNS_Leak")
	}
	b.WriteString(".ini")
	return b.String()
}

// hostname strips any port from a Host header value and lower-cases it.
func hostname(host string) string {
	u := url.URL{Host: host}
	return strings.ToLower(u.Hostname())
}

// ArtifactLocator builds raw-content URLs for artifacts of one repository.
type ArtifactLocator struct {
	RawBaseURL string
	Owner      string
	Repo       string
}

// URL returns the raw-content URL of the host's artifact pinned to commit.
func (l ArtifactLocator) URL(commit, host string) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s", strings.TrimRight(l.RawBaseURL, "/"), l.Owner, l.Repo, commit, ArtifactName(host))
}
