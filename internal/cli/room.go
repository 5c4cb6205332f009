package cli

import (
	"github.com/spf13/cobra"
)

func newRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Room management commands",
	}

	cmd.AddCommand(newRoomCreateCmd())
	cmd.AddCommand(newRoomGetCmd())
	cmd.AddCommand(newRoomJoinCmd())
	cmd.AddCommand(newRoomLeaveCmd())
	cmd.AddCommand(newRoomStartCmd())

	return cmd
}

func newRoomCreateCmd() *cobra.Command {
	var (
		roomType       string
		players        int
		teams          int
		playersPerTeam int
		duration       int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new room",
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := cfg.RequirePlayer()
			if err != nil {
				return err
			}

			body := map[string]any{
				"player_id": player,
				"type":      roomType,
			}
			if roomType == "tournament" {
				body["teams_count"] = teams
				body["players_per_team"] = playersPerTeam
			} else {
				body["players_count"] = players
			}
			if duration > 0 {
				body["duration_seconds"] = duration
			}

			var result Room
			if err := client.Post("/api/v1/rooms", body, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&roomType, "type", "free", "Room type: free, tournament")
	cmd.Flags().IntVar(&players, "players", 4, "Player capacity (free rooms)")
	cmd.Flags().IntVar(&teams, "teams", 2, "Team count (tournament rooms)")
	cmd.Flags().IntVar(&playersPerTeam, "per-team", 2, "Players per team (tournament rooms)")
	cmd.Flags().IntVar(&duration, "duration", 0, "Game duration in seconds (0 = server default)")

	return cmd
}

func newRoomGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <room-id>",
		Short: "Show a room's current state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Snapshot
			if err := client.Get("/api/v1/rooms/"+args[0], &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newRoomJoinCmd() *cobra.Command {
	var team string

	cmd := &cobra.Command{
		Use:   "join <room-id>",
		Short: "Join a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := cfg.RequirePlayer()
			if err != nil {
				return err
			}

			body := map[string]any{"player_id": player}
			if team != "" {
				body["team"] = team
			}

			var result Room
			if err := client.Post("/api/v1/rooms/"+args[0]+"/join", body, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&team, "team", "", "Team to join (tournament rooms)")

	return cmd
}

func newRoomLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave <room-id>",
		Short: "Leave a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := cfg.RequirePlayer()
			if err != nil {
				return err
			}

			if err := client.Post("/api/v1/rooms/"+args[0]+"/leave", map[string]any{"player_id": player}, nil); err != nil {
				return err
			}

			NewOutput(cfg.Output).PrintMessage("Left room " + args[0])
			return nil
		},
	}
}

func newRoomStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <room-id>",
		Short: "Start the game (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := cfg.RequirePlayer()
			if err != nil {
				return err
			}

			var result Room
			if err := client.Post("/api/v1/rooms/"+args[0]+"/start", map[string]any{"player_id": player}, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}
