package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/cityguide/internal/app"
	"github.com/alexanderramin/cityguide/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newSeedCmd(state *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file>",
		Short: "Import events, restaurants and users from a YAML or JSON seed file",
		Long:  "Validate the whole file, then write it in one transaction. Re-importing the same file updates rows in place.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return state.withApp(cmd, func(ctx context.Context, a *app.App) error {
				sum, err := a.Importer.ImportFile(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSeedSummary(args[0], sum))
				return nil
			})
		},
	}
}
