package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog vehicles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tPAINT\tWHEEL\tASSET")
		for _, d := range env.catalog.All() {
			mark := ""
			if d.Default {
				mark = " *"
			}
			fmt.Fprintf(tw, "%d\t%s%s\t%s\t%s\t%s\n", d.ID, d.Label(), mark, d.PaintPattern, d.WheelPattern, d.AssetPath)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
