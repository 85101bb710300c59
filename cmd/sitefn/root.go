package main

import (
	"context"
	"os"

	"github.com/awantoch/sitefn/config"
	"github.com/awantoch/sitefn/core"
	"github.com/awantoch/sitefn/utils"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	exit       = os.Exit
	configPath string
	siteDir    string
	debug      bool

	// runtimeOptions are appended to every core.Bootstrap call.
	runtimeOptions []core.Option
)

// NewRootCmd creates the root 'sitefn' command with persistent flags and subcommands.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sitefn",
		Short: "Serve, build and publish a sitefn site",
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to sitefn config JSON (default $SITEFN_CONFIG or "+config.DefaultConfigPath+")")
	rootCmd.PersistentFlags().StringVar(&siteDir, "site-dir", "", "Site directory (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logs")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		if debug {
			utils.SetMode("debug")
		}
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newBuildCmd(),
		newRoutesCmd(),
		newPublishCmd(),
	)
	return rootCmd
}

// loadConfig resolves configuration the way the function does, then applies
// command-line overrides.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg.ApplyEnv()
		cfg.ApplyDefaults()
	} else {
		cfg, err = config.FromEnv()
		if err != nil {
			return nil, err
		}
	}
	if siteDir != "" {
		cfg.Site.Dir = siteDir
	}
	if cfg.Log.Level == "debug" {
		utils.SetMode("debug")
	}
	return cfg, nil
}

func bootstrap(ctx context.Context, cfg *config.Config, opts ...core.Option) (*core.Runtime, error) {
	return core.Bootstrap(ctx, cfg, append(opts, runtimeOptions...)...)
}

// mustBuild loads config, bootstraps without the platform SDK and prepares
// the site, exiting on failure.
func mustBuild(ctx context.Context) *core.Runtime {
	cfg, err := loadConfig()
	if err != nil {
		utils.Error("config: %v", err)
		exit(1)
		return nil
	}
	rt, err := bootstrap(ctx, cfg, core.WithoutPlatform())
	if err != nil {
		utils.Error("%v", err)
		exit(1)
		return nil
	}
	if err := rt.App.Prepare(ctx); err != nil {
		utils.Error("build failed: %v", err)
		exit(1)
		return nil
	}
	return rt
}
