package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var playersFilter string

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List players known to the statistics source",
	RunE:  runPlayers,
}

func init() {
	playersCmd.Flags().StringVar(&playersFilter, "filter", "", "Only list names containing this text (case-insensitive)")
}

func runPlayers(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	deps, err := setupDependencies(ctx)
	if err != nil {
		return err
	}
	defer deps.Close()

	players, err := deps.stats.Players(ctx)
	if err != nil {
		return err
	}

	needle := strings.ToLower(playersFilter)
	n := 0
	for _, p := range players {
		if needle != "" && !strings.Contains(strings.ToLower(p), needle) {
			continue
		}
		fmt.Println(p)
		n++
	}
	appLog.WithField("count", n).Debug("Listed players")
	return nil
}
