package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rpupo63/learning-projects-backend/api"
	"github.com/rpupo63/learning-projects-backend/config"
	"github.com/rpupo63/learning-projects-backend/database"
	"github.com/rpupo63/learning-projects-backend/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var (
	generateOut  string
	reportStrict bool
)

func init() {
	generateCmd.Flags().StringVar(&generateOut, "out", "./query", "Directory for generated query code")
	reportCmd.Flags().BoolVar(&reportStrict, "strict", false, "Exit with an error when mismatched columns are found")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API until SIGINT or SIGTERM.

Set AUTO_MIGRATE=true to migrate the schema before serving.`,
	RunE: runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			if err := database.Migrate(db); err != nil {
				return err
			}
			log.Info().Msg("Schema migrated")
			return nil
		})
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate typed query helpers for every model",
	Long: `Migrate the schema, print the column mismatch report and write
gorm.io/gen query helpers for every model.

Examples:
  learning-projects generate --out ./query`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			if err := database.Migrate(db); err != nil {
				return err
			}
			return models.GenerateModels(db, generateOut)
		})
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Report database columns the models do not account for",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			mismatches, err := models.GenerateColumnMismatchReport(db, os.Stdout)
			if err != nil {
				return err
			}
			if reportStrict && mismatches > 0 {
				return fmt.Errorf("%d columns are not accounted for in the models", mismatches)
			}
			return nil
		})
	},
}

// withDB opens the database for the duration of fn
func withDB(fn func(db *gorm.DB) error) error {
	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	return fn(db)
}

func runServe(cmd *cobra.Command, args []string) error {
	return withDB(func(db *gorm.DB) error {
		if config.GetBool(cfg, "AUTO_MIGRATE", false) {
			if err := database.Migrate(db); err != nil {
				return err
			}
		}

		server, err := api.NewServer(database.New(db), cfg)
		if err != nil {
			return fmt.Errorf("error initializing server: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			errChannel := make(chan error, 1)
			server.Start(errChannel)
			return <-errChannel
		})
		g.Go(func() error {
			<-ctx.Done()
			return server.ShutdownGracefully(config.GetDuration(cfg, "SHUTDOWN_TIMEOUT", 30*time.Second))
		})
		return g.Wait()
	})
}
