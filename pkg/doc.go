// Package pkg provides the core libraries for sourcescout.
//
// # Overview
//
// sourcescout locates the official download page of each software component,
// picks the source archives linked from it, and downloads the newest ones.
// A chat-completion model acts as the oracle for every judgment call: it
// proposes the page and decides whether each link is a source archive of the
// component. The pkg directory is organized into three areas:
//
//  1. Domain: [oracle], [discovery], [links], [pool], [download], [layout]
//  2. Infrastructure: [cache], [httputil], [parallel], [config], [errors], [observability]
//  3. Orchestration: [pipeline]
//
// # Architecture
//
//	<base_dir>/<username>/GitHub/<component>/
//	         ↓
//	    [discovery] (oracle proposes a page, probe verifies it)
//	         ↓
//	    [links] (fetch page, extract absolute hrefs)
//	         ↓
//	    [pool] (classify, canonicalize, dedup, rank, cap)
//	         ↓
//	    [download] (fetch archives, write downloadlinks.txt)
//	         ↓
//	<base_dir>/<username>/Official/<component>/repos/
//
// # Quick Start
//
//	cfg, err := config.Load("config/config.toml")
//	if err != nil {
//	    return err
//	}
//	runner, err := pipeline.NewFromConfig(cfg, cache.NewNullCache(), logger)
//	if err != nil {
//	    return err
//	}
//	report, err := runner.Execute(ctx, pipeline.Options{})
//
// [oracle]: https://pkg.go.dev/github.com/matzehuels/sourcescout/pkg/oracle
// [discovery]: https://pkg.go.dev/github.com/matzehuels/sourcescout/pkg/discovery
// [links]: https://pkg.go.dev/github.com/matzehuels/sourcescout/pkg/links
// [pool]: https://pkg.go.dev/github.com/matzehuels/sourcescout/pkg/pool
// [download]: https://pkg.go.dev/github.com/matzehuels/sourcescout/pkg/download
// [layout]: https://pkg.go.dev/github.com/matzehuels/sourcescout/pkg/layout
// [cache]: https://pkg.go.dev/github.com/matzehuels/sourcescout/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/sourcescout/pkg/httputil
// [parallel]: https://pkg.go.dev/github.com/matzehuels/sourcescout/pkg/parallel
// [config]: https://pkg.go.dev/github.com/matzehuels/sourcescout/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/sourcescout/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/sourcescout/pkg/observability
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/sourcescout/pkg/pipeline
package pkg
