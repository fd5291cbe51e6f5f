package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"sideload-watch/internal/app"
)

type addOptions struct {
	Package string
}

func newAddCommand() *cobra.Command {
	opts := addOptions{}
	cmd := &cobra.Command{
		Use:   "add [package-id]",
		Short: "Mark a package as newly installed",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd.Context(), cmd, args, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Package, "package", "", "Package id (alternative to the positional argument)")
	return cmd
}

func runAdd(ctx context.Context, cmd *cobra.Command, args []string, opts addOptions) error {
	service := newAppService()
	result, err := service.Add(ctx, app.AddRequest{
		Registry:  registryOptions(),
		PackageID: packageArg(cmd, args, opts.Package),
	})
	if err != nil {
		return err
	}
	if result.Inserted {
		fmt.Fprintf(cmd.OutOrStdout(), "added %s (pending=%d)\n", result.PackageID, result.Pending)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "already pending %s (pending=%d)\n", result.PackageID, result.Pending)
	return nil
}
