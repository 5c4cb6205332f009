package cli

import (
	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "In-game commands for an active room",
	}

	cmd.AddCommand(newGameMoveCmd())
	cmd.AddCommand(newGameShootCmd())

	return cmd
}

func newGameMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <room-id> <up|down|left|right>",
		Short: "Move your tank one cell",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := cfg.RequirePlayer()
			if err != nil {
				return err
			}

			body := map[string]any{
				"player_id": player,
				"direction": args[1],
			}
			if err := client.Post("/api/v1/rooms/"+args[0]+"/move", body, nil); err != nil {
				return err
			}

			NewOutput(cfg.Output).PrintMessage("Moved " + args[1])
			return nil
		},
	}
}

func newGameShootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shoot <room-id>",
		Short: "Fire a bullet in your facing direction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := cfg.RequirePlayer()
			if err != nil {
				return err
			}

			if err := client.Post("/api/v1/rooms/"+args[0]+"/shoot", map[string]any{"player_id": player}, nil); err != nil {
				return err
			}

			NewOutput(cfg.Output).PrintMessage("Fired")
			return nil
		},
	}
}
