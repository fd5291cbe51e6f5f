package ports

import (
	"context"

	"sideload-watch/internal/types"
)

// PackageMetadataPort queries the platform's package-installation metadata.
type PackageMetadataPort interface {
	// InstallSource returns the installing channel recorded for a package.
	// A package the platform no longer knows yields a NotFound error.
	InstallSource(ctx context.Context, packageID string) (types.InstallSource, error)

	// Label resolves the human-readable application label.
	Label(ctx context.Context, packageID string) (string, error)

	// ListInstalled enumerates every installed package, system ones included.
	ListInstalled(ctx context.Context) ([]types.InstalledPackage, error)
}
