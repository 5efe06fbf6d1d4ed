package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/splitsage/splitsage/internal/aggregate"
	"github.com/splitsage/splitsage/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API",
		Long: `Start the read-only HTTP API that serves monthly, year-to-date and
comparison summaries straight from the local database.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", ":8080", "address to listen on")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	svc := aggregate.NewService(store, slog.Default())
	srv := server.New(viper.GetString("server.addr"), svc, slog.Default())

	return srv.ListenAndServe(ctx)
}
