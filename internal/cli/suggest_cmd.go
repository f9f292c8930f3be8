package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/cityguide/internal/app"
	"github.com/alexanderramin/cityguide/internal/cli/formatter"
	"github.com/alexanderramin/cityguide/internal/domain"
	"github.com/spf13/cobra"
)

const defaultSession = "cli"

func newSuggestCmd(state *rootState) *cobra.Command {
	var (
		flags   ambientFlags
		session string
	)
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Show the proactive suggestion for the current situation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			amb, err := flags.ambient(cmd)
			if err != nil {
				return err
			}
			return state.withApp(cmd, func(ctx context.Context, a *app.App) error {
				amb = localize(amb, a)
				c := a.Triggers.Evaluate(ctx, session, amb)
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSuggestion(c, amb.Now))
				return nil
			})
		},
	}
	flags.register(cmd)
	cmd.PersistentFlags().StringVar(&session, "session", defaultSession, "suggestion session id")

	cmd.AddCommand(
		newFeedbackCmd(state, &session, true),
		newFeedbackCmd(state, &session, false),
	)
	return cmd
}

func newFeedbackCmd(state *rootState, session *string, accept bool) *cobra.Command {
	use, short := "dismiss <candidate-id>", "Dismiss a suggestion and mute its category"
	if accept {
		use, short = "accept <candidate-id>", "Record that a suggestion was followed"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, ok := domain.CategoryOfCandidate(args[0])
			if !ok {
				return fmt.Errorf("unknown suggestion %q", args[0])
			}
			return state.withApp(cmd, func(ctx context.Context, a *app.App) error {
				now := time.Now()
				if accept {
					if err := a.Triggers.Accept(ctx, *session, cat, now); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleOK.Render("✔ Accepted ")+formatter.Bold(args[0]))
					return nil
				}
				if err := a.Triggers.Dismiss(ctx, *session, cat, now); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Dismissed "+string(cat)+" suggestions"))
				return nil
			})
		},
	}
}

// localize fills a missing time with now, in the city's timezone, so the
// printed clock matches the one the engine scored with.
func localize(amb domain.AmbientContext, a *app.App) domain.AmbientContext {
	if amb.Now.IsZero() {
		amb.Now = time.Now()
	}
	amb.Now = amb.Now.In(a.Config.Location())
	return amb
}
