// Package pool turns the links of a download page into a ranked, capped set
// of source-archive download entries for one component.
//
// # Entries
//
// An [Entry] is identified by its canonical name, derived from the last path
// segment of its URL by a [Policy]. Two entries with the same canonical name
// are the same artifact, whatever their URLs.
//
// # Building
//
// [Builder.Build] fetches a page, classifies every link concurrently, keeps
// the accepted links that yield an entry (first seen wins on duplicates),
// sorts them best-first and truncates to the requested cap. A page whose
// pool is empty before truncation is abnormal.
//
// # Ordering
//
// [Lexical] is the default comparator. It is plain string order, so
// "foo-10.0" ranks below "foo-9.9". [Semantic] compares digit runs
// numerically and is available as an opt-in.
package pool
