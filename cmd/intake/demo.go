package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/carebridge/intake"
	"github.com/carebridge/intake/internal/config"
	"github.com/carebridge/intake/internal/logging"
	"github.com/carebridge/intake/pkg/domain"
)

// demoCmd runs a scripted conversation against the engine, printing the
// node instructions and staff actions each turn. Useful for eyeballing the
// conversation graph without wiring a model host.
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a scripted intake conversation",
	Long: `Walks a canned patient through the full intake flow and prints each
installed node's instructions, the recorded results, and any staff actions.

Scenarios:
- chest-pain: crushing chest pressure, trips the emergency escalation
- headache:   no matching specialty, falls through to medical history`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		scenario, _ := cmd.Flags().GetString("scenario")

		turns, ok := scenarios[scenario]
		if !ok {
			fmt.Printf("Unknown scenario: %s. Supported: chest-pain, headache\n", scenario)
			os.Exit(1)
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}

		engine, err := intake.New(
			intake.WithLogger(logging.NewNop()),
			intake.WithPersona(cfg.Persona),
			intake.WithSettings(cfg.Flow),
		)
		if err != nil {
			fmt.Printf("Error initializing intake: %v\n", err)
			os.Exit(1)
		}

		ctx := context.Background()
		reply, err := engine.Start(ctx, "demo")
		if err != nil {
			fmt.Printf("Error starting session: %v\n", err)
			os.Exit(1)
		}
		printReply(reply)

		for _, turn := range turns {
			if reply.Terminal {
				break
			}
			fmt.Printf("\n>>> patient: %v\n\n", turn)
			reply, err = engine.Invoke(ctx, "demo", turn)
			if err != nil {
				fmt.Printf("Error invoking turn: %v\n", err)
				os.Exit(1)
			}
			printReply(reply)
		}

		snap, err := engine.Snapshot(ctx, "demo")
		if err != nil {
			fmt.Printf("Error reading snapshot: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("\n--- collected topics ---")
		for topic := range snap.Topics {
			fmt.Printf("  %s\n", topic)
		}
	},
}

// scenarios maps a scenario name to the scripted per-turn arguments. Each
// entry stands in for what the model would extract from the patient's speech.
var scenarios = map[string][]map[string]any{
	"chest-pain": {
		{"consent": true},
		{"complaint": "I have chest pain", "duration": "2 days"},
		{
			"pain_location":       "center of chest",
			"pain_quality":        "crushing pressure",
			"severity":            "Severe, about an 8",
			"radiation":           "left arm",
			"associated_symptoms": []any{"shortness of breath", "sweating"},
		},
		{}, // emergency node holds the line, no fields
	},
	"headache": {
		{"consent": true},
		{"complaint": "I have a headache", "duration": "a week"},
		{
			"conditions":  []any{"migraines"},
			"medications": []any{map[string]any{"name": "ibuprofen", "dosage": "200mg", "frequency": "as needed"}},
			"allergies":   []any{},
		},
		{},
	},
}

func printReply(reply *intake.Reply) {
	for _, node := range reply.Installed {
		printNode(node)
	}
}

func printNode(node *domain.Node) {
	fmt.Printf("== node: %s ==\n", node.Name)
	for _, action := range node.PreActions {
		printAction(action)
	}
	for _, msg := range node.TaskMessages {
		fmt.Printf("  task: %s\n", msg.Content)
	}
	if node.FunctionName != "" {
		fmt.Printf("  function: %s\n", node.FunctionName)
	}
	for _, action := range node.PostActions {
		printAction(action)
	}
}

func printAction(action domain.Action) {
	if action.Reason != "" {
		fmt.Printf("  action: %s (%s)\n", action.Type, action.Reason)
		return
	}
	fmt.Printf("  action: %s\n", action.Type)
}

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().String("scenario", "chest-pain", "Scenario to run: 'chest-pain' or 'headache'")
}
