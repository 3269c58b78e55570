package main

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"

	"vehicle-customizer/internal/asset"
	"vehicle-customizer/internal/catalog"
	"vehicle-customizer/internal/config"
	"vehicle-customizer/internal/lifecycle"
	"vehicle-customizer/internal/logging"
	"vehicle-customizer/internal/paint"
	"vehicle-customizer/internal/raster"
	"vehicle-customizer/internal/scene"
	"vehicle-customizer/internal/texture"
)

var rootCmd = &cobra.Command{
	Use:           "customizer",
	Short:         "Vehicle paint and wheel customizer",
	Long:          "Customizer loads glTF vehicles from a catalog, recolors their body and wheels and renders snapshots.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if env.closer != nil {
			return env.closer.Close()
		}
		return nil
	},
}

// env is filled by setup before any subcommand runs.
var env struct {
	cfg     config.Config
	log     zerolog.Logger
	closer  io.Closer
	catalog catalog.Catalog
}

var flags config.Flags

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default ./"+config.FileName+")")
	pf.String("log-level", "", "log level: trace, debug, info, warn, error")
	pf.StringVar(&flags.Catalog, "catalog", "", "YAML vehicle catalog (default built-in)")
	pf.StringVar(&flags.AssetRoot, "assets", "", "directory or URL the built-in catalog's asset paths resolve against")
}

func setup() error {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	v := viper.New()
	if err := v.BindPFlag("logLevel", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		return err
	}
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	cfg.Resolve(flags)

	log, closer, err := logging.Setup(os.Stderr, cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}

	cat, err := openCatalog(cfg)
	if err != nil {
		_ = closer.Close()
		return err
	}

	env.cfg = cfg
	env.log = log
	env.closer = closer
	env.catalog = cat
	log.Debug().Int("vehicles", cat.Len()).Str("catalog", cfg.Catalog).Str("assets", cfg.AssetRoot).Msg("configured")
	return nil
}

// openCatalog returns the catalog file named in cfg, or the built-in set.
// The asset root applies to the built-in set only; a catalog file already
// resolves its paths against its own directory.
func openCatalog(cfg config.Config) (catalog.Catalog, error) {
	if cfg.Catalog == "" {
		return catalog.Default().WithRoot(cfg.AssetRoot), nil
	}
	return catalog.Load(cfg.Catalog)
}

// pickVehicle resolves an optional id argument. Without one the catalog's
// default entry is used.
func pickVehicle(cat catalog.Catalog, args []string) (catalog.Descriptor, error) {
	if len(args) == 0 {
		d, ok := cat.DefaultEntry()
		if !ok {
			return catalog.Descriptor{}, errors.New("catalog is empty")
		}
		return d, nil
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return catalog.Descriptor{}, fmt.Errorf("vehicle id %q: %w", args[0], err)
	}
	d, ok := cat.Lookup(id)
	if !ok {
		return catalog.Descriptor{}, fmt.Errorf("%w: %d", lifecycle.ErrUnknownVehicle, id)
	}
	return d, nil
}

func newLoader() *asset.Loader {
	tracker := scene.NewTracker()
	if err := tracker.Observe(otel.Meter("vehicle-customizer/internal/scene")); err != nil {
		env.log.Warn().Err(err).Msg("scene gauges unavailable")
	}
	return asset.NewLoader(asset.Config{
		Textures:    texture.NewCache(),
		Tracker:     tracker,
		HTTPTimeout: env.cfg.HTTPTimeout,
		Log:         env.log,
	})
}

func colorState() (lifecycle.ColorState, error) {
	p, err := paint.ParseHex(env.cfg.Colors.Paint)
	if err != nil {
		return lifecycle.ColorState{}, err
	}
	w, err := paint.ParseHex(env.cfg.Colors.Wheel)
	if err != nil {
		return lifecycle.ColorState{}, err
	}
	return lifecycle.ColorState{Paint: p, Wheel: w}, nil
}

func renderOptions() (raster.Options, error) {
	opts := raster.Options{
		Width:       env.cfg.Render.Width,
		Height:      env.cfg.Render.Height,
		Supersample: env.cfg.Render.Supersample,
	}
	if bg := env.cfg.Render.Background; bg != "" && bg != "none" {
		c, err := paint.ParseHex(bg)
		if err != nil {
			return raster.Options{}, fmt.Errorf("render background: %w", err)
		}
		r, g, b := c.Clamped().RGB255()
		opts.Background = color.NRGBA{R: r, G: g, B: b, A: 255}
	}
	return opts, nil
}
