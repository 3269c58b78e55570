package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vehicle-customizer/internal/normalize"
	"vehicle-customizer/internal/targeting"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [id]",
	Short: "Load a vehicle (default: the catalog default) and show how its nodes classify",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := pickVehicle(env.catalog, args)
		if err != nil {
			return err
		}

		loader := newLoader()
		frag, err := loader.Load(cmd.Context(), d.AssetPath)
		if err != nil {
			return err
		}
		defer frag.Dispose()

		norm := normalize.Normalize(frag)
		cls := targeting.Classify(frag, d)
		splits := targeting.Isolate(frag, cls)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n", d.Label())
		fmt.Fprintf(out, "  asset:      %s\n", d.AssetPath)
		fmt.Fprintf(out, "  center:     %.3f %.3f %.3f\n", norm.Center[0], norm.Center[1], norm.Center[2])
		fmt.Fprintf(out, "  extent:     %.3f\n", norm.ExtentLength)
		fmt.Fprintf(out, "  drawables:  %d\n", len(frag.Drawables()))
		fmt.Fprintf(out, "  textures:   %d\n", len(frag.Textures()))

		printRegion := func(label string, r targeting.Region) {
			nodes := cls.Nodes(r)
			fmt.Fprintf(out, "  %s (%d):\n", label, len(nodes))
			for _, n := range nodes {
				fmt.Fprintf(out, "    %-32s material=%q\n", n.Name, n.Material.Name)
			}
		}
		printRegion("paint", targeting.Paint)
		printRegion("wheel", targeting.Wheel)
		fmt.Fprintf(out, "  other:      %d\n", len(cls.Other))
		for _, s := range splits {
			fmt.Fprintf(out, "  split:      %q across %v\n", s.Material, s.Regions)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
