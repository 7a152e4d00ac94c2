package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/carebridge/intake"
	"github.com/carebridge/intake/internal/config"
	"github.com/carebridge/intake/internal/logging"
	mcpAdapter "github.com/carebridge/intake/pkg/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the intake engine as an MCP Server over stdio.
This lets a language-model host drive the conversation as tools: start a
session, render the active node's messages, and feed extracted field values
back through invoke_node.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")

		cfg, err := config.Load(configPath)
		if err != nil {
			log.Fatalf("Error loading config: %v", err)
		}

		// Ensure logs don't corrupt JSON-RPC on Stdout.
		log.SetOutput(os.Stderr)
		logger := logging.New(logLevel())
		slog.SetDefault(logger)

		engine, store, err := buildEngine(cfg, logger)
		if err != nil {
			log.Fatalf("Error initializing intake: %v", err)
		}
		if store != nil {
			defer store.Close()
		}

		srv := mcpAdapter.NewServer(engine, intake.Version)

		slog.Info("Starting Intake MCP Server (Stdio)...")
		if err := srv.ServeStdio(); err != nil {
			slog.Error("MCP Server execution failed", "err", err)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "MCP Server stopped")
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
