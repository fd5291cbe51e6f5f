package ports

import (
	"context"

	"sideload-watch/internal/types"
)

type PolicyPort interface {
	Evaluate(source types.InstallSource, lookupErr error) types.TrustVerdict
}

type ClassifierPort interface {
	Classify(ctx context.Context, packageID string) types.TrustVerdict
}
