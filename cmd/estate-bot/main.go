package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/0sokrat0/TGSamui/internal"
	"github.com/0sokrat0/TGSamui/internal/adapters/schema"
	"github.com/0sokrat0/TGSamui/internal/configs"
	"github.com/0sokrat0/TGSamui/pkg/logger"
)

var (
	envFile string

	appConfig *configs.AppConfig
	log       *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "estate-bot",
	Short: "Telegram bot for Samui rental listings",
	Long: `estate-bot publishes rental property cards authored by admins,
lets users browse them with filters, keep favorites and leave reviews,
and sends subscribers a daily digest of new listings.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configs.LoadConfig(envFile)
		if err != nil {
			return fmt.Errorf("error loading application configuration: %w", err)
		}
		l, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
		if err != nil {
			return err
		}
		if !cfg.EnvFileLoaded {
			l.Info("Config: .env file not found, using environment only")
		}
		appConfig, log = cfg, l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot until SIGINT or SIGTERM",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := internal.NewApp(cmd.Context(), appConfig, log)
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}
		return application.Run()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := schema.Open(appConfig.Database.URL)
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		defer sqlDB.Close()

		if err := schema.Migrate(db, log); err != nil {
			return err
		}
		log.Info("Migrate: Schema is up to date")
		return nil
	},
}

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Send one digest of new listings to subscribers and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := internal.RunDigestOnce(cmd.Context(), appConfig, log)
		if err != nil {
			return err
		}
		log.Info("Digest: Pass finished",
			zap.Int("properties", report.Properties),
			zap.Int("recipients", report.Recipients),
			zap.Int("queued", report.Queued))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "path to .env file (default: ./.env if present)")
	rootCmd.AddCommand(serveCmd, migrateCmd, digestCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
