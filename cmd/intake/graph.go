package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/carebridge/intake/internal/config"
	"github.com/carebridge/intake/internal/logging"
	"github.com/carebridge/intake/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the conversation graph visualization",
	Long: `Outputs a Mermaid diagram (graph TD) of the intake conversation:
the general path plus one intro/assessment pair per registered specialty.
With --session, the given session's history is overlaid on the graph.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		sessionID, _ := cmd.Flags().GetString("session")

		cfg, err := config.Load(configPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}

		engine, store, err := buildEngine(cfg, logging.NewNop())
		if err != nil {
			fmt.Printf("Error initializing intake: %v\n", err)
			os.Exit(1)
		}
		if store != nil {
			defer store.Close()
		}

		var overlay *graph.Overlay
		if sessionID != "" {
			snap, err := engine.Snapshot(context.Background(), sessionID)
			if err != nil {
				fmt.Printf("Error loading session %s: %v\n", sessionID, err)
				os.Exit(1)
			}
			overlay = &graph.Overlay{
				VisitedNodes: snap.History,
				CurrentNode:  snap.CurrentNode,
			}
		}

		fmt.Print(graph.GenerateMermaid(engine.Flow(), overlay))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().String("session", "", "Session ID to overlay on the graph")
}
