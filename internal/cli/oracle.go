package cli

import (
	"github.com/spf13/cobra"
)

// oracleCommand creates the oracle command group for checking the model.
func (c *CLI) oracleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oracle",
		Short: "Talk to the chat-completion model directly",
	}

	cmd.AddCommand(c.oraclePingCommand())
	cmd.AddCommand(c.oracleClassifyCommand())

	return cmd
}

// oraclePingCommand creates the "oracle ping" subcommand.
func (c *CLI) oraclePingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Send a trivial prompt to check the endpoint and credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			comps, closeCache, err := c.assemble(ctx)
			if err != nil {
				return err
			}
			defer closeCache()

			spinner := newSpinnerWithContext(ctx, "Waiting for "+comps.Client.Model()+"...")
			spinner.Start()
			reply, err := comps.Oracle.Ping(ctx)
			if err != nil {
				spinner.StopWithError("No usable reply")
				return err
			}
			spinner.StopWithSuccess("Model is reachable")
			printKeyValue("Model", comps.Client.Model())
			printKeyValue("Endpoint", comps.Config.API.URL)
			printKeyValue("Reply", reply)
			return nil
		},
	}
}

// oracleClassifyCommand creates the "oracle classify" subcommand.
func (c *CLI) oracleClassifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "classify URL COMPONENT",
		Short: "Ask whether URL is a source archive of COMPONENT",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			comps, closeCache, err := c.assemble(ctx)
			if err != nil {
				return err
			}
			defer closeCache()

			accepted, err := comps.Oracle.Classify(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			if accepted {
				printSuccess("%s is a source archive of %s", StyleLink.Render(args[0]), args[1])
			} else {
				printInfo("%s is not a source archive of %s", StyleLink.Render(args[0]), args[1])
			}
			return nil
		},
	}
}
