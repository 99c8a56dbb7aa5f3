package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/rpgo/mathgen/internal/config"
	"github.com/rpgo/mathgen/internal/domain"
	"github.com/rpgo/mathgen/internal/logging"
	"github.com/spf13/cobra"
)

var (
	logLevel  string
	logFormat string
	envFiles  []string
	logger    *slog.Logger
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mathgen",
		Short:         "Generate train/test math problems with controlled difficulty",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadEnvFiles(envFiles...); err != nil {
				return err
			}
			level := logging.LevelFromEnv(slog.LevelInfo)
			if cmd.Flags().Changed("log-level") {
				parsed, err := logging.ParseLevel(logLevel)
				if err != nil {
					return err
				}
				level = parsed
			}
			l, err := logging.Setup(logFormat, level)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error); LOG_LEVEL is used when unset")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "pretty", "log format (pretty, json)")
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", []string{".env"}, "dotenv files with MATHGEN_* overrides")

	root.AddCommand(newGenerateCmd(), newSampleCmd(), newServeCmd(), newInitConfigCmd())
	return root
}

// loadConfiguration reads path, or falls back to the example layout with
// environment overrides when path is empty
func loadConfiguration(path string) (*domain.Configuration, error) {
	parser := config.NewInputParser()
	if path != "" {
		return parser.LoadFromFile(path)
	}
	cfg := parser.CreateExampleConfiguration()
	if err := parser.ApplyEnvironment(cfg); err != nil {
		return nil, err
	}
	parser.ApplyDefaults(cfg)
	if err := parser.ValidateConfiguration(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
