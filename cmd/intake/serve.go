package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpAdapter "github.com/carebridge/intake/internal/adapters/http"
	"github.com/carebridge/intake/internal/config"
	"github.com/carebridge/intake/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP session server",
	Long: `Starts the intake engine in server mode, exposing session lifecycle and
turn invocation as a JSON API over HTTP. With Redis enabled in the
configuration, session snapshots and locks are shared across replicas.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		listen, _ := cmd.Flags().GetString("listen")

		cfg, err := config.Load(configPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		if cmd.Flags().Changed("listen") {
			cfg.Listen = listen
		}

		logger := logging.New(logLevel())

		engine, store, err := buildEngine(cfg, logger)
		if err != nil {
			fmt.Printf("Error initializing intake: %v\n", err)
			os.Exit(1)
		}

		handler := httpAdapter.NewHandler(engine, logger)

		srv := &http.Server{
			Addr:    cfg.Listen,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Intake Server on %s\n", srv.Addr)
			if cfg.Redis.Enabled {
				fmt.Printf("Session store: redis (%s)\n", cfg.Redis.Address)
			} else {
				fmt.Println("Session store: in-memory")
			}
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			// Error when starting HTTP server.
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			if store != nil {
				if err := store.Close(); err != nil {
					fmt.Printf("Error closing redis client: %v\n", err)
				}
			}
			fmt.Println("Intake Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("listen", "l", ":7860", "Address to listen on")
}
