package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rpgo/mathgen/internal/generate"
	"github.com/rpgo/mathgen/internal/output"
	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	var (
		configPath string
		outputDir  string
		format     string
		moduleSub  string
		where      string
		workers    int
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write every level and module to OUTPUT_DIR/<level>/<module>.<ext>",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfiguration(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("format") {
				cfg.Format = format
			}
			if cmd.Flags().Changed("filter") {
				cfg.Filter = moduleSub
			}
			if cmd.Flags().Changed("where") {
				cfg.Where = where
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = workers
			}

			formatter, err := output.FormatterByName(cfg.Format)
			if err != nil {
				return err
			}
			writer, err := output.NewDirWriter(outputDir, formatter)
			if err != nil {
				return err
			}
			runner, err := generate.NewRunner(cfg, generate.SlogLogger{L: logger})
			if err != nil {
				return err
			}
			jobs, err := runner.Plan()
			if err != nil {
				return err
			}

			logger.Info("writing problems", "dir", writer.Root(), "format", formatter.Name(), "seed", runner.Seed(), "jobs", len(jobs))
			for _, level := range cfg.Levels {
				if _, err := writer.PrepareLevel(level.Name); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runner.Run(ctx, jobs, func(r generate.Result) error {
				path, err := writer.WriteBatch(r.Batch)
				if err != nil {
					return err
				}
				logger.Info("written", "path", path, "problems", len(r.Batch.Problems), "duration", r.Duration)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML configuration (example layout when empty)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "directory to write levels into")
	cmd.Flags().StringVar(&format, "format", "jsonl", "output format: "+strings.Join(output.AvailableFormatterNames(), ", "))
	cmd.Flags().StringVar(&moduleSub, "filter", "", "only generate modules whose name contains this")
	cmd.Flags().StringVar(&where, "where", "", "CEL predicate over module, regime, level, question and answer")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent jobs (defaults to the CPU count)")
	_ = cmd.MarkFlagRequired("output-dir")
	return cmd
}
