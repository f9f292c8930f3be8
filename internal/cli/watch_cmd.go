package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/cityguide/internal/app"
	"github.com/alexanderramin/cityguide/internal/cli/formatter"
	"github.com/alexanderramin/cityguide/internal/domain"
	"github.com/alexanderramin/cityguide/internal/trigger"
	"github.com/spf13/cobra"
)

func newWatchCmd(state *rootState) *cobra.Command {
	var (
		flags    ambientFlags
		session  string
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print proactive suggestions as the situation changes",
		Long:  "Evaluate suggestions on a fixed cadence until interrupted. A suggestion is printed once until it changes.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			amb, err := flags.ambient(cmd)
			if err != nil {
				return err
			}
			return state.withApp(cmd, func(ctx context.Context, a *app.App) error {
				ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
				defer stop()

				every := interval
				if every <= 0 {
					every = a.Config.Trigger.Interval
				}
				// A zero --at means "now" on every tick.
				ambient := func() domain.AmbientContext { return localize(amb, a) }
				sink := func(_ context.Context, c domain.TriggerCandidate) {
					fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSuggestion(&c, time.Now().In(a.Config.Location())))
				}

				runner := trigger.NewRunner(
					trigger.NewEngine(a.Config.TriggerEngine()),
					a.Triggers.SnapshotFunc(session, ambient),
					sink, every, a.Logger,
				)
				fmt.Fprintln(cmd.ErrOrStderr(), formatter.Dim(fmt.Sprintf("Watching every %s. Ctrl-C to stop.", every)))
				if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				return nil
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&session, "session", defaultSession, "suggestion session id")
	cmd.Flags().DurationVar(&interval, "interval", 0, "evaluation cadence (default from config)")
	return cmd
}
