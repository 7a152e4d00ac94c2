package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "intake",
	Short: "Intake is a structured medical pre-visit conversation engine",
	Long: `Intake drives a structured, multi-turn patient conversation: consent,
chief complaint, specialty assessment, medical history and wrap-up, with an
emergency escalation path that can preempt any specialty flow.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to the YAML configuration file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

func logLevel() slog.Level {
	if verbose, _ := rootCmd.PersistentFlags().GetBool("verbose"); verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
