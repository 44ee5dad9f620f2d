// Package discovery locates the official download page of each component.
//
// The [PageFinder] (normally the oracle) proposes a site URL. The proposal
// is accepted only when the URL answers a HEAD request after following
// redirects and the resolved host is not a code forge or mirror listed in
// the [Blocklist]. Accepted pages are returned as [PageDescriptor] values,
// which are also the records written to the available and abnormal lists.
package discovery
