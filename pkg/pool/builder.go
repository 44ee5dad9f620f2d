package pool

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sourcescout/pkg/observability"
	"github.com/matzehuels/sourcescout/pkg/parallel"
)

// Classifier decides whether a link is an official source archive of a
// component. [oracle.Oracle] implements it.
type Classifier interface {
	Classify(ctx context.Context, url, component string) (bool, error)
}

// LinkSource returns the resolved links of a page. [links.Fetcher]
// implements it.
type LinkSource interface {
	Links(ctx context.Context, pageURL string) ([]string, error)
}

// Options configures a Builder.
type Options struct {
	Parallel int        // classification permits; <= 0 means 1
	Policy   Policy     // canonical name policy; empty means PolicyVersion
	Compare  Comparator // ranking; nil means Lexical
	Logger   *log.Logger
}

// Builder builds pools from download pages.
type Builder struct {
	links      LinkSource
	classifier Classifier
	parallel   int
	policy     Policy
	compare    Comparator
	logger     *log.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(links LinkSource, classifier Classifier, opts Options) *Builder {
	b := &Builder{
		links:      links,
		classifier: classifier,
		parallel:   max(opts.Parallel, 1),
		policy:     opts.Policy,
		compare:    opts.Compare,
		logger:     opts.Logger,
	}
	if b.policy == "" {
		b.policy = PolicyVersion
	}
	if b.compare == nil {
		b.compare = Lexical
	}
	if b.logger == nil {
		b.logger = log.Default()
	}
	return b
}

// Build classifies every link on pageURL and returns the ranked pool capped
// to capCount entries (capCount <= 0 means no cap). abnormal is true when no
// link was accepted. A page that cannot be fetched fails the whole build; a
// link whose classification fails is dropped with a warning.
func (b *Builder) Build(ctx context.Context, pageURL, component string, capCount int) (p *Pool, abnormal bool, err error) {
	urls, err := b.links.Links(ctx, pageURL)
	if err != nil {
		return nil, false, err
	}

	results := parallel.Map(ctx, urls, b.parallel, func(ctx context.Context, url string) (*Entry, error) {
		return b.classify(ctx, url, component)
	})
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	p = New(component)
	for i, r := range results {
		if r.Err != nil {
			b.logger.Warn("classification failed", "url", urls[i], "component", component, "err", r.Err)
			continue
		}
		if r.Value == nil {
			continue
		}
		if !p.Add(*r.Value) {
			b.logger.Debug("duplicate entry dropped", "url", urls[i], "canonical", r.Value.CanonicalName)
		}
	}

	p.SortDescending(b.compare)
	abnormal = p.IsEmpty()
	p.Truncate(capCount)

	observability.Pipeline().OnPoolBuilt(ctx, component, len(urls), p.Len(), abnormal)
	b.logger.Info("download entries collected",
		"component", component,
		"links", len(urls),
		"entries", p.Len(),
		"failed", parallel.Errors(results))
	return p, abnormal, nil
}

func (b *Builder) classify(ctx context.Context, url, component string) (*Entry, error) {
	ok, err := b.classifier.Classify(ctx, url, component)
	observability.Pipeline().OnClassify(ctx, component, url, ok, err)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	e, ok := NewEntry(url, component, b.policy)
	if !ok {
		b.logger.Debug("accepted link has no version", "url", url)
		return nil, nil
	}
	return &e, nil
}
