package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"vehicle-customizer/internal/lifecycle"
	"vehicle-customizer/internal/raster"
)

var renderOut string

var renderCmd = &cobra.Command{
	Use:   "render [id]",
	Short: "Render one vehicle (default: the catalog default) to a WebP snapshot",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := pickVehicle(env.catalog, args)
		if err != nil {
			return err
		}
		id := d.ID
		colors, err := colorState()
		if err != nil {
			return err
		}
		opts, err := renderOptions()
		if err != nil {
			return err
		}

		loader := newLoader()
		renderer := raster.NewRenderer(opts)
		mgr, err := lifecycle.New(lifecycle.Deps{
			Catalog:  env.catalog,
			Source:   loader,
			Textures: loader.Textures(),
			Surface:  renderer,
			Colors:   &colors,
			Log:      env.log,
		})
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		go func() { _ = mgr.Run(ctx) }()
		defer mgr.Close()

		status, err := mgr.SelectAndWait(ctx, id)
		if err != nil {
			return err
		}
		img, ok := renderer.Frame()
		if !ok {
			return fmt.Errorf("render %d: nothing presented", id)
		}

		out := renderOut
		if out == "" {
			out = fmt.Sprintf("%d.webp", id)
		}
		if err := raster.WriteWebP(out, img); err != nil {
			return err
		}
		env.log.Info().
			Str("vehicle", status.Vehicle.Label()).
			Str("paint", status.Colors.Paint.String()).
			Str("wheel", status.Colors.Wheel.String()).
			Int("paint_nodes", status.PaintNodes).
			Int("wheel_nodes", status.WheelNodes).
			Str("out", out).
			Msg("rendered")
		return nil
	},
}

func init() {
	f := renderCmd.Flags()
	f.StringVar(&flags.Paint, "paint", "", "body color, e.g. #005cbb")
	f.StringVar(&flags.Wheel, "wheel", "", "wheel color, e.g. #000000")
	f.StringVarP(&renderOut, "out", "o", "", "output file (default <id>.webp)")
	rootCmd.AddCommand(renderCmd)
}
