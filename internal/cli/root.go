// Package cli is the cityguide command line.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/cityguide/internal/app"
	"github.com/alexanderramin/cityguide/internal/config"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// Builder opens the runtime for one command invocation.
type Builder func(ctx context.Context, configPath string) (*app.App, error)

// DefaultBuilder loads configuration from configPath and the environment.
func DefaultBuilder(ctx context.Context, configPath string) (*app.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return app.Build(ctx, cfg, app.NewLogger(cfg.Log, os.Stderr))
}

// isInteractive reports whether stdout is a terminal.
var isInteractive = func() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

type rootState struct {
	build      Builder
	configPath string
}

// withApp builds the runtime, runs fn and closes the runtime afterwards.
func (s *rootState) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := s.build(ctx, s.configPath)
	if err != nil {
		return fmt.Errorf("starting cityguide: %w", err)
	}
	defer func() { _ = a.Close(context.Background()) }()
	return fn(ctx, a)
}

// NewRootCmd creates the top-level "cityguide" command and registers all
// subcommands against the given builder.
func NewRootCmd(build Builder) *cobra.Command {
	state := &rootState{build: build}
	root := &cobra.Command{
		Use:           "cityguide",
		Short:         "Kőszeg city assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&state.configPath, "config", "", "config file (default ./cityguide.yaml or $"+config.ConfigPathEnv+")")

	root.AddCommand(
		newAskCmd(state),
		newSuggestCmd(state),
		newWatchCmd(state),
		newEventsCmd(state),
		newServeCmd(state),
		newSeedCmd(state),
	)
	return root
}
