// Package main provides a one-shot command that recomputes stored trade scores.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"tradesmarket/internal/professionals/repository"
	"tradesmarket/internal/professionals/service"
	"tradesmarket/internal/scoring/tradescore"
	"tradesmarket/platform/config"
	"tradesmarket/platform/db"
	"tradesmarket/platform/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		professionalID string
		batchSize      int
		migrate        bool
	)

	cmd := &cobra.Command{
		Use:   "rescore-backfill",
		Short: "Recompute trade scores for stored professionals",
		Long: `Recomputes the trade score of one professional (--id) or of every
professional in batches, and writes the totals back in place.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var id *uuid.UUID
			if professionalID != "" {
				parsed, err := uuid.Parse(professionalID)
				if err != nil {
					return fmt.Errorf("invalid --id: %w", err)
				}
				id = &parsed
			}
			return run(cmd.Context(), id, batchSize, migrate)
		},
	}

	cmd.Flags().StringVar(&professionalID, "id", "", "Rescore a single professional by ID")
	cmd.Flags().IntVar(&batchSize, "batch-size", 200, "Profiles loaded per page")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Run database migrations before rescoring")

	return cmd
}

func run(ctx context.Context, id *uuid.UUID, batchSize int, migrate bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.Env)

	if migrate {
		if err := db.RunMigrations(ctx, cfg); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	svc := service.New(repository.New(pool), tradescore.Default(), log)

	if id != nil {
		p, err := svc.Rescore(ctx, *id, service.ReasonBackfill)
		if err != nil {
			return err
		}
		log.Info("professional rescored", "professionalId", p.ID, "total", p.Score.Total)
		return nil
	}

	summary, err := svc.RescoreAll(ctx, service.ReasonBackfill, batchSize)
	if err != nil {
		return err
	}
	log.Info("rescore backfill complete", "rescored", summary.Rescored, "failed", summary.Failed)
	if summary.Failed > 0 {
		return fmt.Errorf("%d professionals failed to rescore", summary.Failed)
	}
	return nil
}
