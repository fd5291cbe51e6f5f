package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"sideload-watch/internal/app"
)

func newClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every pending package from the registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runClear(cmd.Context(), cmd)
		},
	}
}

func runClear(ctx context.Context, cmd *cobra.Command) error {
	service := newAppService()
	result, err := service.Clear(ctx, app.ClearRequest{Registry: registryOptions()})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "cleared: %t\n", result.Cleared)
	return nil
}
