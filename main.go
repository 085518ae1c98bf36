package main

import (
	"context"
	"os"

	"github.com/rpupo63/learning-projects-backend/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// cfg is loaded once before any command runs
	cfg map[string]string

	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "learning-projects",
	Short: "Project catalog and progress tracking backend",
	Long: `learning-projects serves the project catalog, the users' project instances,
their versioned submissions and the assessments recorded against them.

Configuration comes from the environment, a .env file and, when
SSM_PARAMETER_PATH is set, AWS SSM Parameter Store.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(reportCmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	config.LoadDotEnv()

	c, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	configureLogging(c)
	cfg = c
	return nil
}

// configureLogging applies LOG_LEVEL and, with LOG_PRETTY, switches to console output
func configureLogging(c map[string]string) {
	level, err := zerolog.ParseLevel(config.GetString(c, "LOG_LEVEL", "info"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if config.GetBool(c, "LOG_PRETTY", false) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
