package oracle

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"text/template"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sourcescout/pkg/errors"
)

// DefaultRejectedExtensions are URL fragments that mark a link as something
// other than a source archive (signatures, checksums, installers).
var DefaultRejectedExtensions = []string{".sig", ".exe", ".asc", ".sha256", ".msi"}

var fencedJSON = regexp.MustCompile("```json([^`]+)```")

// Prober checks that a URL is reachable. [httputil.Transport] implements it.
type Prober interface {
	Probe(ctx context.Context, url string) (finalURL string, ok bool)
}

// Options configures an Oracle.
type Options struct {
	// RejectedExtensions replaces DefaultRejectedExtensions when non-nil.
	RejectedExtensions []string
	Logger             *log.Logger
}

// Oracle answers classification and page-location questions.
// It is safe for concurrent use when its Completer and Prober are.
type Oracle struct {
	completer Completer
	prober    Prober
	rejected  []string
	logger    *log.Logger
}

// New creates an Oracle. The prober is used for liveness checks before a URL
// is shown to the completer; pass a transport configured with the probe
// attempt count.
func New(completer Completer, prober Prober, opts Options) *Oracle {
	rejected := opts.RejectedExtensions
	if rejected == nil {
		rejected = DefaultRejectedExtensions
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Oracle{
		completer: completer,
		prober:    prober,
		rejected:  rejected,
		logger:    logger,
	}
}

// HasRejectedExtension reports whether url contains any of exts.
func HasRejectedExtension(url string, exts []string) bool {
	for _, ext := range exts {
		if ext != "" && strings.Contains(url, ext) {
			return true
		}
	}
	return false
}

// IsSourcePackage reports whether url is a source-code download of
// component. Rejected extensions and unreachable URLs are answered "no"
// without consulting the completer.
func (o *Oracle) IsSourcePackage(ctx context.Context, url, component string) (bool, error) {
	if HasRejectedExtension(url, o.rejected) {
		o.logger.Debug("rejected by extension", "url", url)
		return false, nil
	}
	if o.prober != nil {
		if _, ok := o.prober.Probe(ctx, url); !ok {
			if err := ctx.Err(); err != nil {
				return false, err
			}
			o.logger.Debug("link not reachable", "url", url)
			return false, nil
		}
	}
	return o.ask(ctx, sourcePrompt, promptData{Component: component, URL: url})
}

// IsRelatedToComponent reports whether url is related to component.
func (o *Oracle) IsRelatedToComponent(ctx context.Context, url, component string) (bool, error) {
	return o.ask(ctx, relatedPrompt, promptData{Component: component, URL: url})
}

// Classify reports whether url is both a source package and related to
// component. The relatedness question is skipped when the first answer is no.
func (o *Oracle) Classify(ctx context.Context, url, component string) (bool, error) {
	ok, err := o.IsSourcePackage(ctx, url, component)
	if err != nil || !ok {
		return false, err
	}
	return o.IsRelatedToComponent(ctx, url, component)
}

// FindPage asks for the official download page of component.
func (o *Oracle) FindPage(ctx context.Context, component string) (PageCandidate, error) {
	prompt, err := render(pagePrompt, promptData{Component: component})
	if err != nil {
		return PageCandidate{}, errors.Wrap(errors.ErrCodeInternal, err, "render page prompt")
	}
	reply, err := o.completer.Complete(ctx, prompt)
	if err != nil {
		return PageCandidate{}, err
	}
	o.logger.Debug("page reply", "component", component, "reply", reply)

	body, err := ExtractFencedJSON(reply)
	if err != nil {
		return PageCandidate{}, err
	}
	var cand PageCandidate
	if err := json.Unmarshal([]byte(body), &cand); err != nil {
		return PageCandidate{}, errors.Wrap(errors.ErrCodeOracleContract, err, "decode page reply for %s", component)
	}
	return cand, nil
}

// Ping sends a trivial prompt and requires a non-empty reply.
func (o *Oracle) Ping(ctx context.Context) (string, error) {
	prompt, err := render(pingPrompt, promptData{})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "render ping prompt")
	}
	reply, err := o.completer.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

// ExtractFencedJSON returns the body of the single ```json fenced block in
// reply. Zero or several blocks are a contract violation.
func ExtractFencedJSON(reply string) (string, error) {
	matches := fencedJSON.FindAllStringSubmatch(reply, -1)
	switch len(matches) {
	case 0:
		return "", errors.New(errors.ErrCodeOracleContract, "no fenced json block in reply: %s", snippet([]byte(reply)))
	case 1:
		return matches[0][1], nil
	default:
		return "", errors.New(errors.ErrCodeOracleContract, "%d fenced json blocks in reply, want 1", len(matches))
	}
}

func (o *Oracle) ask(ctx context.Context, t *template.Template, data promptData) (bool, error) {
	prompt, err := render(t, data)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeInternal, err, "render prompt")
	}
	reply, err := o.completer.Complete(ctx, prompt)
	if err != nil {
		return false, err
	}
	return isAffirmative(reply), nil
}

// isAffirmative reports whether reply contains "yes" in any letter case.
func isAffirmative(reply string) bool {
	return strings.Contains(strings.ToLower(reply), "yes")
}
