// Package cmd holds the twdl command line.
package cmd

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"twdl/app/client/gql"
	"twdl/app/client/twitch"
	"twdl/app/service/clips"
	"twdl/pkg/build"
	"twdl/pkg/config"
	"twdl/pkg/sentry"
	"twdl/pkg/tlog"

	"github.com/samber/do"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "twdl.yaml"

type rootOptions struct {
	configPath string
	logLevel   string
}

// Execute runs the command line with os.Args.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd creates the twdl root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "twdl",
		Short:         "Download Twitch clips",
		Long:          "twdl downloads a single Twitch clip or every clip of a channel within a time window.",
		Version:       build.Tag,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.SetVersionTemplate("twdl version {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", defaultConfigPath,
		"Path to the YAML config file (optional)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "",
		"Log level: debug, info, warn, error (default from config)")

	rootCmd.AddCommand(newClipCmd(opts))
	rootCmd.AddCommand(newChannelCmd(opts))

	return rootCmd
}

// setup loads the config, installs logging and error reporting and builds the injector.
// In link mode logging is reduced to errors unless a level was requested explicitly.
func (o *rootOptions) setup(cmd *cobra.Command, linkMode bool) (*do.Injector, error) {
	configPath := o.configPath
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
			configPath = ""
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logLevel := o.logLevel
	if linkMode && logLevel == "" {
		logLevel = "error"
	}

	if err = tlog.Init(cfg, logLevel); err != nil {
		return nil, err
	}

	if _, err = sentry.Init(cfg); err != nil {
		slog.Error("Sentry initialization failed", slog.Any("error", err))
	}

	di := do.New()
	do.ProvideValue(di, cfg)
	do.ProvideNamedValue[io.Writer](di, clips.StdoutName, cmd.OutOrStdout())

	do.Provide(di, twitch.NewClient)
	do.Provide(di, twitch.NewTokenManager)
	do.Provide(di, gql.New)
	do.Provide(di, clips.NewPager)
	do.Provide(di, clips.NewExecutor)
	do.Provide(di, clips.New)

	return di, nil
}
