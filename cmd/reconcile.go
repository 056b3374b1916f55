package cmd

import (
	"context"
	"fmt"

	"gallery-manager/core/config"
	"gallery-manager/core/database"
	"gallery-manager/core/logger"
	"gallery-manager/core/storage"
	"gallery-manager/feature/gallery/catalog"
	"gallery-manager/feature/gallery/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// reconcileCmd runs one full bucket-to-catalog reconciliation pass and exits.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Run one full reconciliation pass against the bucket",
	Long: `Diff the complete object-store listing against the media catalog.

New supported objects are registered under fresh identifiers, objects that
reappeared are reactivated under their original identifiers, and catalog
entries whose backing object is gone are deactivated (never deleted).

Examples:
  # One-shot reconciliation
  gallery-manager reconcile`,
	RunE: runReconcile,
}

func init() {
	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	l.Info("Starting reconciliation")

	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Connect to storage
	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to connect to storage: %w", err)
	}

	store := catalog.NewStore(db)
	if err := store.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate media catalog: %w", err)
	}

	runner := reconcile.NewRunner(
		store,
		client,
		cfg.Storage.Bucket,
		cfg.Gallery.Prefix,
		cfg.Gallery.PublicBaseURL,
		cfg.Gallery.Enabled,
		l,
	)

	summary, err := runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	if summary.Skipped {
		l.Warn("Reconciliation skipped: gallery feature is disabled")
		return nil
	}

	l.Info("Reconciliation complete",
		zap.Int("created", summary.Created),
		zap.Int("reactivated", summary.Reactivated),
		zap.Int("deactivated", summary.Deactivated),
	)
	return nil
}
