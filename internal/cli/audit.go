package cli

import (
	"context"

	"github.com/spf13/cobra"

	"sideload-watch/internal/app"
)

func newAuditCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "List every sideloaded non-system package on the device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAudit(cmd.Context(), cmd)
		},
	}
}

func runAudit(ctx context.Context, cmd *cobra.Command) error {
	output, err := newOutput(cmd)
	if err != nil {
		return err
	}
	service := newAppService()
	result, err := service.AuditDevice(ctx, app.AuditRequest{Metadata: metadataOptions()})
	if err != nil {
		return err
	}
	return output.WriteRecords(result.Records)
}
