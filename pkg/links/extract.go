package links

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Extract parses an HTML document and returns the resolved href of every
// anchor, in document order. Hrefs that are not valid URL references, or that
// do not resolve to an absolute URL, are skipped.
func Extract(content io.Reader, pageURL string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(content)
	if err != nil {
		return nil, fmt.Errorf("parse page %s: %w", pageURL, err)
	}

	var out []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if _, err := url.Parse(href); err != nil {
			return
		}
		if link, ok := resolve(href, pageURL); ok {
			out = append(out, link)
		}
	})
	return out, nil
}

// Resolve turns href into an absolute URL relative to pageURL:
//
//   - an href with a scheme is returned unchanged
//   - an href starting with "/" replaces the path of pageURL, dropping the
//     page's query and fragment and keeping the href's
//   - any other href is appended to pageURL verbatim
//
// A pageURL with a host and an empty path is treated as ending in "/".
// Resolve panics if the result is not an absolute URL; use Extract for
// untrusted hrefs.
func Resolve(href, pageURL string) string {
	link, ok := resolve(href, pageURL)
	if !ok {
		panic(fmt.Sprintf("links: resolved %q against %q to non-absolute %q", href, pageURL, link))
	}
	return link
}

func resolve(href, pageURL string) (string, bool) {
	if isAbsolute(href) {
		return href, true
	}
	pageURL = NormalizePageURL(pageURL)
	var link string
	if strings.HasPrefix(href, "/") {
		link = replacePath(href, pageURL)
	} else {
		link = pageURL + href
	}
	return link, isAbsolute(link)
}

// NormalizePageURL gives a URL that has a host but no path the root path
// "/", so "https://example.org" becomes "https://example.org/". Any other
// input is returned unchanged.
func NormalizePageURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || u.Path != "" || u.RawPath != "" || u.Opaque != "" {
		return raw
	}
	u.Path = "/"
	return u.String()
}

func replacePath(href, pageURL string) string {
	page, err := url.Parse(pageURL)
	if err != nil {
		return pageURL + href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return pageURL + href
	}
	// Protocol-relative: keep the page scheme, take everything else from href.
	if ref.Host != "" {
		ref.Scheme = page.Scheme
		return ref.String()
	}
	page.Path = ref.Path
	page.RawPath = ref.RawPath
	page.RawQuery = ref.RawQuery
	page.Fragment = ref.Fragment
	page.RawFragment = ref.RawFragment
	return page.String()
}

func isAbsolute(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != ""
}
