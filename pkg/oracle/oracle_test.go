package oracle

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/matzehuels/sourcescout/pkg/errors"
)

// scriptedCompleter answers with the first reply whose key is contained in
// the prompt and records every prompt it sees.
type scriptedCompleter struct {
	mu      sync.Mutex
	replies map[string]string
	err     error
	prompts []string
}

func (s *scriptedCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	for key, r := range s.replies {
		if strings.Contains(prompt, key) {
			return r, nil
		}
	}
	return "no", nil
}

func (s *scriptedCompleter) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

type stubProber struct {
	ok    bool
	calls int
}

func (p *stubProber) Probe(ctx context.Context, url string) (string, bool) {
	p.calls++
	return url, p.ok
}

func TestIsAffirmative(t *testing.T) {
	tests := []struct {
		reply string
		want  bool
	}{
		{"yes", true},
		{"Yes.", true},
		{"YES, it is", true},
		{"The answer is yes", true},
		{"no", false},
		{"No, it is not", false},
		{"", false},
		{"eyes", true},
	}
	for _, tt := range tests {
		if got := isAffirmative(tt.reply); got != tt.want {
			t.Errorf("isAffirmative(%q) = %v, want %v", tt.reply, got, tt.want)
		}
	}
}

func TestHasRejectedExtension(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://ftp.gnu.org/gnu/make/make-4.4.tar.gz", false},
		{"https://ftp.gnu.org/gnu/make/make-4.4.tar.gz.sig", true},
		{"https://example.org/setup-1.0.exe", true},
		{"https://example.org/foo-1.0.tar.gz.asc", true},
		{"https://example.org/foo-1.0.tar.gz.sha256", true},
		{"https://example.org/foo-1.0.msi", true},
	}
	for _, tt := range tests {
		if got := HasRejectedExtension(tt.url, DefaultRejectedExtensions); got != tt.want {
			t.Errorf("HasRejectedExtension(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestIsSourcePackage_ShortCircuits(t *testing.T) {
	ctx := context.Background()

	t.Run("rejected extension", func(t *testing.T) {
		c := &scriptedCompleter{replies: map[string]string{"": "yes"}}
		p := &stubProber{ok: true}
		o := New(c, p, Options{})

		ok, err := o.IsSourcePackage(ctx, "https://example.org/foo-1.0.tar.gz.sig", "foo")
		if err != nil || ok {
			t.Errorf("IsSourcePackage = %v, %v; want false, nil", ok, err)
		}
		if c.calls() != 0 || p.calls != 0 {
			t.Errorf("completer calls = %d, probe calls = %d; want 0, 0", c.calls(), p.calls)
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		c := &scriptedCompleter{replies: map[string]string{"": "yes"}}
		o := New(c, &stubProber{ok: false}, Options{})

		ok, err := o.IsSourcePackage(ctx, "https://example.org/foo-1.0.tar.gz", "foo")
		if err != nil || ok {
			t.Errorf("IsSourcePackage = %v, %v; want false, nil", ok, err)
		}
		if c.calls() != 0 {
			t.Errorf("completer should not be asked about unreachable links")
		}
	})

	t.Run("custom extensions", func(t *testing.T) {
		c := &scriptedCompleter{replies: map[string]string{"": "yes"}}
		o := New(c, &stubProber{ok: true}, Options{RejectedExtensions: []string{".zip"}})

		ok, _ := o.IsSourcePackage(ctx, "https://example.org/foo-1.0.zip", "foo")
		if ok {
			t.Error(".zip should be rejected by custom list")
		}
		ok, _ = o.IsSourcePackage(ctx, "https://example.org/foo-1.0.tar.gz.sig", "foo")
		if !ok {
			t.Error("custom list should replace the default list")
		}
	})
}

func TestClassify(t *testing.T) {
	ctx := context.Background()
	url := "https://example.org/foo-1.0.tar.gz"

	t.Run("both yes", func(t *testing.T) {
		c := &scriptedCompleter{replies: map[string]string{"source code": "Yes", "related": "yes"}}
		ok, err := New(c, &stubProber{ok: true}, Options{}).Classify(ctx, url, "foo")
		if err != nil || !ok {
			t.Errorf("Classify = %v, %v; want true", ok, err)
		}
		if c.calls() != 2 {
			t.Errorf("calls = %d, want 2", c.calls())
		}
	})

	t.Run("first no skips second", func(t *testing.T) {
		c := &scriptedCompleter{replies: map[string]string{"source code": "No", "related": "yes"}}
		ok, err := New(c, &stubProber{ok: true}, Options{}).Classify(ctx, url, "foo")
		if err != nil || ok {
			t.Errorf("Classify = %v, %v; want false", ok, err)
		}
		if c.calls() != 1 {
			t.Errorf("calls = %d, want 1", c.calls())
		}
	})

	t.Run("second no", func(t *testing.T) {
		c := &scriptedCompleter{replies: map[string]string{"source code": "yes", "related": "no"}}
		ok, _ := New(c, &stubProber{ok: true}, Options{}).Classify(ctx, url, "foo")
		if ok {
			t.Error("Classify should be false when relatedness is denied")
		}
	})

	t.Run("completer error", func(t *testing.T) {
		c := &scriptedCompleter{err: errors.New(errors.ErrCodeTransportExhausted, "down")}
		_, err := New(c, &stubProber{ok: true}, Options{}).Classify(ctx, url, "foo")
		if !errors.Is(err, errors.ErrCodeTransportExhausted) {
			t.Errorf("expected transport error, got %v", err)
		}
	})
}

func TestPromptsMentionInputs(t *testing.T) {
	c := &scriptedCompleter{}
	o := New(c, &stubProber{ok: true}, Options{})
	_, _ = o.IsRelatedToComponent(context.Background(), "https://example.org/x.tar.gz", "libx")

	if len(c.prompts) != 1 {
		t.Fatalf("prompts = %d", len(c.prompts))
	}
	p := c.prompts[0]
	if !strings.Contains(p, "https://example.org/x.tar.gz") || !strings.Contains(p, "libx") {
		t.Errorf("prompt missing inputs: %q", p)
	}
}

func TestFindPage(t *testing.T) {
	ctx := context.Background()

	t.Run("single block", func(t *testing.T) {
		c := &scriptedCompleter{replies: map[string]string{"": "Sure!\n```json\n" +
			`{"component_name":"make","available":true,"site_url":"https://ftp.gnu.org/gnu/make/"}` +
			"\n```\n"}}
		cand, err := New(c, nil, Options{}).FindPage(ctx, "make")
		if err != nil {
			t.Fatalf("FindPage: %v", err)
		}
		want := PageCandidate{ComponentName: "make", Available: true, SiteURL: "https://ftp.gnu.org/gnu/make/"}
		if cand != want {
			t.Errorf("FindPage = %+v, want %+v", cand, want)
		}
	})

	t.Run("unavailable", func(t *testing.T) {
		c := &scriptedCompleter{replies: map[string]string{"": "```json\n{\"component_name\":\"x\",\"available\":false}\n```"}}
		cand, err := New(c, nil, Options{}).FindPage(ctx, "x")
		if err != nil {
			t.Fatalf("FindPage: %v", err)
		}
		if cand.Available || cand.SiteURL != "" {
			t.Errorf("FindPage = %+v", cand)
		}
	})

	contract := []struct {
		name  string
		reply string
	}{
		{"no block", `{"component_name":"make","available":true}`},
		{"two blocks", "```json\n{}\n```\nor\n```json\n{}\n```"},
		{"bad json", "```json\n{not json}\n```"},
	}
	for _, tt := range contract {
		t.Run(tt.name, func(t *testing.T) {
			c := &scriptedCompleter{replies: map[string]string{"": tt.reply}}
			_, err := New(c, nil, Options{}).FindPage(ctx, "make")
			if !errors.Is(err, errors.ErrCodeOracleContract) {
				t.Errorf("expected ORACLE_CONTRACT, got %v", err)
			}
		})
	}
}

func TestPing(t *testing.T) {
	c := &scriptedCompleter{replies: map[string]string{"": "  yes \n"}}
	got, err := New(c, nil, Options{}).Ping(context.Background())
	if err != nil || got != "yes" {
		t.Errorf("Ping = %q, %v", got, err)
	}
}
