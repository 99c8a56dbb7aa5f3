package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/fatih/color"
	"github.com/rpgo/mathgen/internal/generate"
	"github.com/rpgo/mathgen/internal/modules"
	"github.com/rpgo/mathgen/internal/split"
	"github.com/spf13/cobra"
)

func newSampleCmd() *cobra.Command {
	var (
		configPath string
		moduleName string
		regimeName string
		count      int
		seed       int64
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print a few problems from one module",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfiguration(configPath)
			if err != nil {
				return err
			}
			regime, err := split.ParseRegime(regimeName)
			if err != nil {
				return err
			}
			hash, err := split.HashByName(cfg.Hash)
			if err != nil {
				return err
			}
			registry, err := modules.New(modules.Settings(cfg.Measurement, cfg.MaxAttempts, 1), split.New(hash))
			if err != nil {
				return err
			}
			module, name, err := registry.Lookup(regime, moduleName)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("seed") {
				seed = time.Now().UnixNano()
			}

			out := cmd.OutOrStdout()
			header := color.New(color.Bold)
			question := color.New(color.FgCyan)
			answer := color.New(color.FgGreen)

			header.Fprintf(out, "%s (%s, seed %d)\n", name, regime, seed)
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < count; i++ {
				p, err := generate.SampleFromModule(module, rng, generate.LimitsFrom(cfg), nil)
				if err != nil {
					return err
				}
				question.Fprintln(out, p.Question)
				answer.Fprintln(out, p.AnswerText())
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML configuration")
	cmd.Flags().StringVarP(&moduleName, "module", "m", "conversion", "module name or its short form (conversion, time)")
	cmd.Flags().StringVarP(&regimeName, "regime", "r", "train", "train, test, interpolate or extrapolate")
	cmd.Flags().IntVarP(&count, "count", "n", 5, "number of problems")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (time based when unset)")
	return cmd
}
