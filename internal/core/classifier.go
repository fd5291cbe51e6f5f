package core

import (
	"context"

	"github.com/rs/zerolog/log"

	"sideload-watch/internal/ports"
	"sideload-watch/internal/types"
)

// ProvenanceClassifier performs a live metadata lookup on every call and
// hands the outcome to the policy. Nothing is cached.
type ProvenanceClassifier struct {
	Metadata ports.PackageMetadataPort
	Policy   ports.PolicyPort
}

func NewProvenanceClassifier(metadata ports.PackageMetadataPort, policy ports.PolicyPort) ProvenanceClassifier {
	return ProvenanceClassifier{
		Metadata: metadata,
		Policy:   policy,
	}
}

func (c ProvenanceClassifier) Classify(ctx context.Context, packageID string) types.TrustVerdict {
	if c.Metadata == nil || c.Policy == nil {
		log.Ctx(ctx).Warn().Str("package", packageID).Msg("classifier not configured, treating package as sideloaded")
		return types.TrustVerdictSideloaded
	}
	source, err := c.Metadata.InstallSource(ctx, packageID)
	verdict := c.Policy.Evaluate(source, err)
	if err != nil {
		log.Ctx(ctx).Warn().
			Err(err).
			Str("package", packageID).
			Msg("installer lookup failed, treating package as sideloaded")
		return verdict
	}
	log.Ctx(ctx).Debug().
		Str("package", packageID).
		Str("installer", source.InstallerName()).
		Stringer("verdict", verdict).
		Msg("package classified")
	return verdict
}

var _ ports.ClassifierPort = ProvenanceClassifier{}
