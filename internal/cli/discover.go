package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sourcescout/pkg/discovery"
)

// discoverCommand creates the discover command.
func (c *CLI) discoverCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "discover NAME...",
		Short: "Find and verify the official download page of components",
		Long: `Ask the model for the official download page of each component and verify
it. Pages on code-hosting sites are flagged as unofficial. Nothing is
downloaded and no files are written.`,
		Example: `  sourcescout discover zlib libpng
  sourcescout discover openssl --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			comps, closeCache, err := c.assemble(ctx)
			if err != nil {
				return err
			}
			defer closeCache()

			spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Discovering %d components...", len(args)))
			spinner.Start()
			pages, err := comps.Discoverer.DiscoverAll(ctx, args)
			spinner.Stop()
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(pages)
			}
			printPages(args, pages)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the page descriptors as JSON")

	return cmd
}

// printPages prints one line per requested component.
func printPages(requested []string, pages []discovery.PageDescriptor) {
	found := make(map[string]discovery.PageDescriptor, len(pages))
	for _, p := range pages {
		found[p.ComponentName] = p
	}
	for _, name := range requested {
		p, ok := found[name]
		if !ok {
			printWarning("%s: no download page", name)
			continue
		}
		printSuccess("%s %s %s", StyleHighlight.Render(name), StyleDim.Render(iconArrow), StyleLink.Render(p.SiteURL))
	}
}
