package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/cityguide/internal/app"
	"github.com/alexanderramin/cityguide/internal/cli/formatter"
	"github.com/alexanderramin/cityguide/internal/movement"
	"github.com/alexanderramin/cityguide/internal/service"
	"github.com/spf13/cobra"
)

func newAskCmd(state *rootState) *cobra.Command {
	var flags ambientFlags
	cmd := &cobra.Command{
		Use:   `ask "<question>"`,
		Short: "Ask the city assistant",
		Long:  "Answer a question about parking, food, events and sights in the context given by the flags.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amb, err := flags.ambient(cmd)
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")

			return state.withApp(cmd, func(ctx context.Context, a *app.App) error {
				stop := func() {}
				if isInteractive() {
					stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Thinking…")
				}
				res := a.Assistant.Run(ctx, service.AssistantRequest{Query: query, Frontend: amb})
				stop()

				mode := movement.ClassifyAppMode(amb.Location, a.Config.Geometry())
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatAnswer(res, mode))
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}
