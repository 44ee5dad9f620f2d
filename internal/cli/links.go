package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sourcescout/pkg/errors"
)

// linksCommand creates the links command that builds a pool for one page.
func (c *CLI) linksCommand() *cobra.Command {
	var (
		capCount int
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "links URL COMPONENT",
		Short: "Classify the links on a page and print the ranked pool",
		Long: `Fetch URL, classify every link on it as a source archive of COMPONENT or
not, and print the ranked pool. Nothing is downloaded.`,
		Example: `  sourcescout links https://zlib.net/ zlib
  sourcescout links https://www.openssl.org/source/ openssl --cap -1 --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pageURL, component := args[0], args[1]
			if err := errors.ValidateURL(pageURL); err != nil {
				return err
			}
			if err := errors.ValidateComponentName(component); err != nil {
				return err
			}

			comps, closeCache, err := c.assemble(ctx)
			if err != nil {
				return err
			}
			defer closeCache()

			if capCount == 0 {
				capCount = comps.Config.Download.MaxVersionCount
			}

			spinner := newSpinnerWithContext(ctx, "Classifying links on "+pageURL+"...")
			spinner.Start()
			p, abnormal, err := comps.Builder.Build(ctx, pageURL, component, capCount)
			spinner.Stop()
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(p)
			}
			printPool(p, abnormal)
			return nil
		},
	}

	cmd.Flags().IntVar(&capCount, "cap", 0, "entries kept (0 = download.max_version_count, -1 = all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the pool as JSON")

	return cmd
}
