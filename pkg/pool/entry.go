package pool

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Policy selects how a canonical name is derived from a file name.
type Policy string

const (
	// PolicyVersion yields "<component>-<version>" from the first
	// version-like token of the file name.
	PolicyVersion Policy = "version"
	// PolicyNameVersion yields the lower-cased "<component><sep><version>"
	// substring of the file name.
	PolicyNameVersion Policy = "name-version"
)

var versionToken = regexp.MustCompile(`\d+(\.\d+([[:alnum:]])?)`)

// ParsePolicy converts a configuration string to a Policy. The empty string
// selects PolicyVersion.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyVersion:
		return PolicyVersion, nil
	case PolicyNameVersion:
		return PolicyNameVersion, nil
	}
	return "", fmt.Errorf("unknown canonical policy %q", s)
}

// Entry is a candidate source archive. Entries are values and never change
// after creation.
type Entry struct {
	URL           string `json:"url"`
	CanonicalName string `json:"canonical_name"`
	FileName      string `json:"file_name"`
	ComponentName string `json:"component_name"`
}

// Equal reports whether e and o name the same artifact.
func (e Entry) Equal(o Entry) bool {
	return e.CanonicalName == o.CanonicalName
}

// NewEntry derives an entry from rawURL. It returns false when the URL has
// no last path segment or the policy finds no version in it.
func NewEntry(rawURL, component string, policy Policy) (Entry, bool) {
	fileName, ok := lastSegment(rawURL)
	if !ok {
		return Entry{}, false
	}
	canonical, ok := canonicalName(fileName, component, policy)
	if !ok {
		return Entry{}, false
	}
	return Entry{
		URL:           rawURL,
		CanonicalName: canonical,
		FileName:      fileName,
		ComponentName: component,
	}, true
}

func canonicalName(fileName, component string, policy Policy) (string, bool) {
	switch policy {
	case PolicyNameVersion:
		re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(component) + `[-_.]?v?\d+(\.\d+)*[[:alnum:]]*`)
		if err != nil {
			return "", false
		}
		m := re.FindString(fileName)
		if m == "" {
			return "", false
		}
		return strings.ToLower(m), true
	default:
		v := versionToken.FindString(fileName)
		if v == "" {
			return "", false
		}
		return component + "-" + v, true
	}
}

// lastSegment returns the final path segment of rawURL as written.
func lastSegment(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	p := u.EscapedPath()
	if p == "" {
		return "", false
	}
	return p[strings.LastIndex(p, "/")+1:], true
}
