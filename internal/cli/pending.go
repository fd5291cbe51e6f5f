package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sideload-watch/internal/app"
)

type pendingOptions struct {
	Clear bool
}

func newPendingCommand() *cobra.Command {
	opts := pendingOptions{}
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List newly installed packages that were sideloaded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPending(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.Clear, "clear", false, "Clear the registry after the list has been written")
	_ = viper.BindPFlag("pending_clear", cmd.Flags().Lookup("clear"))
	return cmd
}

func runPending(ctx context.Context, cmd *cobra.Command, opts pendingOptions) error {
	output, err := newOutput(cmd)
	if err != nil {
		return err
	}
	service := newAppService()
	registry := registryOptions()
	result, err := service.ReadNewlyInstalled(ctx, app.ReadRequest{
		Registry: registry,
		Metadata: metadataOptions(),
	})
	if err != nil {
		return err
	}
	if err := output.WriteRecords(result.Records); err != nil {
		return err
	}
	if !resolveBool(cmd, opts.Clear, "pending_clear", "clear") {
		return nil
	}
	_, err = service.Clear(ctx, app.ClearRequest{Registry: registry})
	return err
}
