package cli

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player commands",
	}

	cmd.AddCommand(newPlayerGetCmd())
	cmd.AddCommand(newPlayerSetCoinsCmd())

	return cmd
}

func newPlayerGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <steam_id>",
		Short: "Show a player, creating it on first lookup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Player

			if err := client.Get(cmd.Context(), playerPath(args[0]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newPlayerSetCoinsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-coins <steam_id> <coins>",
		Short: "Set a player's donate coins to an absolute value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			coins, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("coins must be a whole number: %q", args[1])
			}

			req := map[string]int64{"coins": coins}
			var result Player

			if err := client.Patch(cmd.Context(), playerPath(args[0])+"/donate", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	// Flags must come before the steam ID so a negative balance like -5
	// is read as the coins argument.
	cmd.Flags().SetInterspersed(false)

	return cmd
}

func playerPath(steamID string) string {
	return "/player/" + url.PathEscape(steamID)
}
