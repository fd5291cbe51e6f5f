package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"sideload-watch/internal/core"
)

// AuditDevice lists every sideloaded non-system package on the device,
// independent of the pending registry.
func (s Service) AuditDevice(ctx context.Context, req AuditRequest) (RecordsResult, error) {
	metadata, err := s.openMetadata(req.Metadata)
	if err != nil {
		return RecordsResult{}, err
	}
	registry := core.NewNewlyInstalledRegistry(nil, metadata, s.newClassifier(metadata, req.Metadata))
	records, err := registry.ListAllSideloaded(ctx)
	if err != nil {
		return RecordsResult{}, err
	}
	return RecordsResult{Records: records}, nil
}

func (s Service) Classify(ctx context.Context, req ClassifyRequest) (ClassifyResult, error) {
	packageID := strings.TrimSpace(req.PackageID)
	if packageID == "" {
		return ClassifyResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("package id is required")
	}
	metadata, err := s.openMetadata(req.Metadata)
	if err != nil {
		return ClassifyResult{}, err
	}
	verdict := s.newClassifier(metadata, req.Metadata).Classify(ctx, packageID)
	return ClassifyResult{PackageID: packageID, Verdict: verdict}, nil
}
