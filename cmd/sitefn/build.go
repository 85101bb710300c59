package main

import (
	"github.com/awantoch/sitefn/utils"
	"github.com/spf13/cobra"
)

// newBuildCmd creates the 'build' subcommand.
func newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Scan and compile every page, reporting template errors",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			rt := mustBuild(cmd.Context())
			if rt == nil {
				return
			}
			utils.User("Build OK: %d pages", len(rt.App.Routes()))
		},
	}
}
