package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"clasificador/internal/config"
	"clasificador/internal/container"
)

var (
	cfgFile string
	envFile string
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
	rootCmd := &cobra.Command{
		Use:           "clasificador",
		Short:         "Classify incident narratives in a spreadsheet with an AI model",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./clasificador.yaml if present)")
	pf.StringVar(&envFile, "env-file", "", "dotenv file loaded before reading the environment (default: .env)")
	pf.String("provider", "", "classifier provider: gemini, openai, heuristic or mock")
	pf.String("model", "", "model name for the selected provider")
	pf.String("log-level", "", "log level: ERROR, WARN, INFO, DEBUG or TRACE")
	pf.String("log-format", "", "log format: console or json")
	pf.Int("batch-size", 0, "rows between pauses")
	pf.Duration("batch-pause", 0, "pause between batches")

	rootCmd.AddCommand(
		newServeCmd(),
		newClassifyCmd(),
		newPromptCmd(),
	)
	return rootCmd
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.LoadWithOptions(config.Options{
		ConfigFile: cfgFile,
		EnvFile:    envFile,
		Flags:      cmd.Flags(),
	})
}

func buildContainer(cmd *cobra.Command) (*container.Container, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return container.New(cmd.Context(), cfg)
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP upload service",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildContainer(cmd)
			if err != nil {
				return err
			}
			defer c.Shutdown(context.Background())

			return c.Server().Run(cmd.Context(), ":"+c.Config.Server.Port)
		},
	}
	cmd.Flags().String("port", "", "listen port (default 8080)")
	return cmd
}
