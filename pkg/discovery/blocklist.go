package discovery

import (
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strings"
)

// DefaultBlockedHosts are forge and mirror hosts that never count as an
// official download site. Entries are regular expressions matched against
// the host.
var DefaultBlockedHosts = []string{
	`github\.com`,
	`gitlab\.(\w+\.)?com`,
	`bitbucket\.org`,
	`sourceforge\.net`,
	`codeberg\.org`,
}

// Blocklist rejects URLs whose host matches any of its patterns.
type Blocklist struct {
	patterns []*regexp.Regexp
}

// NewBlocklist compiles DefaultBlockedHosts plus extra patterns.
func NewBlocklist(extra ...string) (*Blocklist, error) {
	b := &Blocklist{}
	for _, p := range slices.Concat(DefaultBlockedHosts, extra) {
		if strings.TrimSpace(p) == "" {
			continue
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("blocked host pattern %q: %w", p, err)
		}
		b.patterns = append(b.patterns, re)
	}
	return b, nil
}

// BlocksHost reports whether host matches a pattern.
func (b *Blocklist) BlocksHost(host string) bool {
	for _, re := range b.patterns {
		if re.MatchString(host) {
			return true
		}
	}
	return false
}

// IsOfficial reports whether rawURL has a host and that host is not
// blocked.
func (b *Blocklist) IsOfficial(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return false
	}
	return !b.BlocksHost(u.Hostname())
}
