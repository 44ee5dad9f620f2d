package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sourcescout/pkg/layout"
	"github.com/matzehuels/sourcescout/pkg/pipeline"
)

// runOptions holds the flags for the run command.
type runOptions struct {
	components []string
	cap        int
	report     string
}

// runCommand creates the run command that executes the full batch.
func (c *CLI) runCommand() *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Discover, classify and download source archives for every component",
		Long: `Run the complete batch.

Components are read from the GitHub directory of the download tree unless
--component is given. For each component the model proposes a download page,
the page is verified, its links are classified, and the newest archives are
downloaded into Official/<component>/repos.`,
		Example: `  # Every component under <base_dir>/<username>/GitHub
  sourcescout run

  # Two components, keeping five versions each
  sourcescout run --component zlib --component libpng --cap 5

  # Save the run report
  sourcescout run --report run.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBatch(cmd, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.components, "component", nil, "component to process (repeatable)")
	cmd.Flags().IntVar(&opts.cap, "cap", 0, "entries kept per component (0 = download.max_version_count, -1 = all)")
	cmd.Flags().StringVar(&opts.report, "report", "", "write the run report as JSON to this file")

	return cmd
}

func (c *CLI) runBatch(cmd *cobra.Command, opts runOptions) error {
	ctx := cmd.Context()

	comps, closeCache, err := c.assemble(ctx)
	if err != nil {
		return err
	}
	defer closeCache()

	prog := newProgress(c.Logger)
	report, err := comps.Runner().Execute(ctx, pipeline.Options{
		Components: opts.components,
		Cap:        opts.cap,
	})
	if err != nil {
		return err
	}

	printRunSummary(report)
	if opts.report != "" {
		if err := layout.WriteJSON(opts.report, report); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		printFile(opts.report)
	}

	downloaded, _ := report.Totals()
	prog.done(fmt.Sprintf("Downloaded %d archives", downloaded))
	return nil
}
