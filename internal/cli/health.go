package cli

import (
	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	var live bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check server and database health",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output, cmd.OutOrStdout())

			if live {
				var result HealthResult
				if err := client.Get(cmd.Context(), "/health", &result); err != nil {
					return err
				}
				out.Print(result)
				return nil
			}

			var result StatusResult
			if err := client.Get(cmd.Context(), "/", &result); err != nil {
				return err
			}
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&live, "live", false, "Only check the process is up (skips the database)")

	return cmd
}
