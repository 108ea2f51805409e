// Command migrate copies the exercise catalog and saved workouts from the
// MongoDB document store into the PostgreSQL relational store.
package main

import (
	"alcyxob/liftlog/internal/config"
	"alcyxob/liftlog/internal/logging"
	"alcyxob/liftlog/internal/migrate"
	"alcyxob/liftlog/internal/repository/mongo"
	"alcyxob/liftlog/internal/repository/postgres"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configDir      string
	dryRun         bool
	skipMigrations bool
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy exercises and workouts from MongoDB into PostgreSQL",
	Long: `Reads every exercise and workout from the document store configured under
database.* and upserts them, IDs unchanged, into the relational store
configured under postgres.*. The copy stops at the first failed write and
can be re-run safely.`,
	SilenceUsage: true,
	RunE:         runMigrate,
}

func init() {
	rootCmd.Flags().StringVar(&configDir, "config", ".", "directory holding config.yaml")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "count the source rows without writing")
	rootCmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply schema migrations to the target")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.Log.File,
		LogToStdout:   true,
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.JSON,
	})

	if cfg.Postgres.DSN == "" {
		return errors.New("postgres.dsn must be set")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Source ---
	client, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer func() {
		if err := mongo.DisconnectDB(client); err != nil {
			log.Errorf("disconnect mongo: %v", err)
		}
	}()
	src := mongo.NewRepositories(client.Database(cfg.Database.Name))

	// --- Target ---
	pool, err := postgres.NewDBPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()
	if !skipMigrations && !dryRun {
		if err := postgres.RunMigrations(ctx, pool); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	dst := postgres.NewRepositories(pool)

	report, err := migrate.Run(ctx, src, dst, migrate.Options{DryRun: dryRun})
	fields := log.Fields{"exercises": report.Exercises, "workouts": report.Workouts, "dry_run": dryRun}
	if err != nil {
		log.WithFields(fields).Errorf("migration stopped: %v", err)
		return err
	}
	log.WithFields(fields).Info("migration finished")
	return nil
}
