package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/cityguide/internal/app"
	"github.com/alexanderramin/cityguide/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newEventsCmd(state *rootState) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List upcoming events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return state.withApp(cmd, func(ctx context.Context, a *app.App) error {
				now := time.Now().In(a.Config.Location())
				events, err := a.Events.UpcomingEvents(ctx, now, limit)
				if err != nil {
					return fmt.Errorf("listing events: %w", err)
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEvents(events, now))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of events")
	return cmd
}
