// Package pipeline runs the complete sourcescout batch.
//
// # Stages
//
//  1. Discover: ask the oracle for each component's download page and verify it
//  2. Build: classify the links on each verified page into a ranked, capped pool
//  3. Download: fetch each pool into Official/<component>/repos and write its manifest
//  4. Report: write available_url_list.json and abnormal_url_list.json
//
// Each stage fans out with its own permit count. Components are processed one
// page at a time after discovery so the classification and download fan-outs
// never stack.
//
// # Usage
//
//	runner, err := pipeline.NewFromConfig(cfg, pageCache, logger)
//	if err != nil {
//	    return err
//	}
//	report, err := runner.Execute(ctx, pipeline.Options{})
package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/sourcescout/pkg/discovery"
	"github.com/matzehuels/sourcescout/pkg/download"
)

// Options selects what a run covers.
type Options struct {
	// Components overrides the component list read from the GitHub
	// directory when non-empty.
	Components []string
	// Cap is the maximum number of entries kept per component. Zero uses the
	// runner's configured cap; a negative value keeps every entry.
	Cap int
}

// ComponentReport is the outcome for one component with a verified page.
type ComponentReport struct {
	Component  string `json:"component"`
	SiteURL    string `json:"site_url"`
	Abnormal   bool   `json:"abnormal"`
	Entries    int    `json:"entries"`
	Downloaded int    `json:"downloaded"`
	Failed     int    `json:"failed"`
	Error      string `json:"error,omitempty"`
}

// Report summarizes a run.
type Report struct {
	RunID      string                     `json:"run_id"`
	StartedAt  time.Time                  `json:"started_at"`
	FinishedAt time.Time                  `json:"finished_at"`
	Scanned    int                        `json:"scanned"`
	Available  []discovery.PageDescriptor `json:"available"`
	Abnormal   []discovery.PageDescriptor `json:"abnormal"`
	Components []ComponentReport          `json:"components"`
	Downloads  []download.Result          `json:"downloads,omitempty"`
}

func newReport() *Report {
	return &Report{
		RunID:      uuid.NewString(),
		StartedAt:  time.Now(),
		Available:  []discovery.PageDescriptor{},
		Abnormal:   []discovery.PageDescriptor{},
		Components: []ComponentReport{},
	}
}

// Duration returns the wall-clock time of the run.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Totals returns the number of downloaded and failed files across all
// components.
func (r *Report) Totals() (downloaded, failed int) {
	for _, c := range r.Components {
		downloaded += c.Downloaded
		failed += c.Failed
	}
	return downloaded, failed
}
