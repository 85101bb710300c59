package main

import (
	"sort"

	"github.com/awantoch/sitefn/utils"
	"github.com/spf13/cobra"
)

// newRoutesCmd creates the 'routes' subcommand.
func newRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List page routes and the files that serve them",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			rt := mustBuild(cmd.Context())
			if rt == nil {
				return
			}
			routes := rt.App.Routes()
			sort.SliceStable(routes, func(i, j int) bool {
				return !routes[i].Dynamic() && routes[j].Dynamic()
			})
			for _, r := range routes {
				utils.User("%-32s %s", r.Pattern, r.File)
			}
		},
	}
}
