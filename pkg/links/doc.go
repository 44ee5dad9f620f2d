// Package links fetches download pages and extracts the candidate links on
// them.
//
// [Extract] returns every a[href] of an HTML document, resolved against the
// page URL, in document order and with duplicates preserved. [Fetcher]
// downloads page bodies through the retrying transport and keeps them in a
// [cache.Cache] between runs.
package links
