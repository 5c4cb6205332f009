package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [player-id]",
		Short: "Show a player's cumulative statistics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			player := cfg.PlayerID
			if len(args) == 1 {
				player = args[0]
			}
			if player == "" {
				_, err := cfg.RequirePlayer()
				return err
			}

			var result Stats
			if err := client.Get("/api/v1/players/"+player+"/stats", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newMatchesCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "matches [player-id|match-id]",
		Short: "Show recent matches for a player, or one match by numeric id",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// A numeric argument is a match id lookup
			if len(args) == 1 {
				if _, err := strconv.ParseInt(args[0], 10, 64); err == nil {
					var result Match
					if err := client.Get("/api/v1/matches/"+args[0], &result); err != nil {
						return err
					}
					NewOutput(cfg.Output).Print(result)
					return nil
				}
			}

			player := cfg.PlayerID
			if len(args) == 1 {
				player = args[0]
			}
			if player == "" {
				_, err := cfg.RequirePlayer()
				return err
			}

			var result MatchList
			path := "/api/v1/players/" + player + "/matches?limit=" + strconv.Itoa(limit)
			if err := client.Get(path, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of matches to list")

	return cmd
}
