package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/chazu/druse/pkg/symmetry"
	"github.com/spf13/cobra"
)

func newGroupsCmd() *cobra.Command {
	var system string
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "List the supported point groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "SYMBOL\tNAME\tORDER\tSYSTEM")
			for _, g := range symmetry.All() {
				if system != "" && g.System() != system {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", g, g.Name(), g.Order(), g.System())
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&system, "system", "", "only list groups of this crystal system")
	return cmd
}
