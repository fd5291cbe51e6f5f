package cli

import (
	"context"

	"github.com/spf13/cobra"

	"sideload-watch/internal/app"
	"sideload-watch/internal/types"
)

type classifyOptions struct {
	Package string
}

func newClassifyCommand() *cobra.Command {
	opts := classifyOptions{}
	cmd := &cobra.Command{
		Use:   "classify [package-id]",
		Short: "Report whether a package came from the trusted installer",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd.Context(), cmd, args, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Package, "package", "", "Package id (alternative to the positional argument)")
	return cmd
}

func runClassify(ctx context.Context, cmd *cobra.Command, args []string, opts classifyOptions) error {
	output, err := newOutput(cmd)
	if err != nil {
		return err
	}
	service := newAppService()
	result, err := service.Classify(ctx, app.ClassifyRequest{
		Metadata:  metadataOptions(),
		PackageID: packageArg(cmd, args, opts.Package),
	})
	if err != nil {
		return err
	}
	return output.WriteVerdict(types.VerdictReport{
		PackageID: result.PackageID,
		Verdict:   result.Verdict,
	})
}
