package cli

import (
	"context"

	"github.com/spf13/cobra"

	"sideload-watch/internal/app"
	"sideload-watch/internal/types"
)

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the raw pending registry without classification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd.Context(), cmd)
		},
	}
}

func runStatus(ctx context.Context, cmd *cobra.Command) error {
	output, err := newOutput(cmd)
	if err != nil {
		return err
	}
	service := newAppService()
	result, err := service.Status(ctx, app.StatusRequest{Registry: registryOptions()})
	if err != nil {
		return err
	}
	return output.WritePending(types.PendingReport{
		Backend:  result.Backend,
		Count:    len(result.Pending),
		Packages: result.Pending,
	})
}
