package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"vehicle-customizer/internal/batch"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Render every catalog vehicle and write a manifest",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		colors, err := colorState()
		if err != nil {
			return err
		}
		opts, err := renderOptions()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(env.cfg.OutputDir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", env.cfg.OutputDir, err)
		}

		loader := newLoader()
		vehicles := env.catalog.All()
		env.log.Info().Int("vehicles", len(vehicles)).Int("workers", env.cfg.Workers).Str("out", env.cfg.OutputDir).Msg("batch started")

		start := time.Now()
		results, runErr := batch.Run(cmd.Context(), batch.Config{
			Catalog:   env.catalog,
			Source:    loader,
			Textures:  loader.Textures(),
			OutputDir: env.cfg.OutputDir,
			Colors:    colors,
			Render:    opts,
			Workers:   env.cfg.Workers,
			Progress:  2 * time.Second,
			Log:       env.log,
		}, vehicles)

		if err := batch.WriteManifest(filepath.Join(env.cfg.OutputDir, "manifest.json"), colors, results); err != nil {
			return err
		}

		failed := 0
		for _, r := range results {
			if !r.Success {
				failed++
			}
		}
		env.log.Info().
			Dur("elapsed", time.Since(start)).
			Int("rendered", len(results)-failed).
			Int("failed", failed).
			Msg("batch finished")
		if runErr != nil {
			return runErr
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d vehicles failed", failed, len(results))
		}
		return nil
	},
}

func init() {
	f := batchCmd.Flags()
	f.StringVar(&flags.OutputDir, "out", "", "output directory")
	f.IntVar(&flags.Workers, "workers", 0, "worker count (default NumCPU)")
	f.StringVar(&flags.Paint, "paint", "", "body color")
	f.StringVar(&flags.Wheel, "wheel", "", "wheel color")
	rootCmd.AddCommand(batchCmd)
}
