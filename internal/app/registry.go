package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"sideload-watch/internal/core"
)

func (s Service) Add(ctx context.Context, req AddRequest) (AddResult, error) {
	packageID := strings.TrimSpace(req.PackageID)
	if packageID == "" {
		return AddResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("package id is required")
	}
	store, release, err := s.openStore(ctx, req.Registry)
	if err != nil {
		return AddResult{}, err
	}
	defer release()

	registry := core.NewNewlyInstalledRegistry(store, nil, nil)
	outcome, err := registry.Add(ctx, packageID)
	if err != nil {
		return AddResult{}, err
	}
	return AddResult{
		PackageID: packageID,
		Inserted:  outcome.Inserted,
		Pending:   outcome.Size,
	}, nil
}

func (s Service) ReadNewlyInstalled(ctx context.Context, req ReadRequest) (RecordsResult, error) {
	metadata, err := s.openMetadata(req.Metadata)
	if err != nil {
		return RecordsResult{}, err
	}
	store, release, err := s.openStore(ctx, req.Registry)
	if err != nil {
		return RecordsResult{}, err
	}
	defer release()

	registry := core.NewNewlyInstalledRegistry(store, metadata, s.newClassifier(metadata, req.Metadata))
	records, err := registry.ReadAndFilter(ctx)
	if err != nil {
		return RecordsResult{}, err
	}
	return RecordsResult{Records: records}, nil
}

func (s Service) Clear(ctx context.Context, req ClearRequest) (ClearResult, error) {
	store, release, err := s.openStore(ctx, req.Registry)
	if err != nil {
		return ClearResult{}, err
	}
	defer release()

	registry := core.NewNewlyInstalledRegistry(store, nil, nil)
	if err := registry.Clear(ctx); err != nil {
		return ClearResult{}, err
	}
	return ClearResult{Cleared: true}, nil
}

func (s Service) Status(ctx context.Context, req StatusRequest) (StatusResult, error) {
	store, release, err := s.openStore(ctx, req.Registry)
	if err != nil {
		return StatusResult{}, err
	}
	defer release()

	registry := core.NewNewlyInstalledRegistry(store, nil, nil)
	pending, err := registry.Pending(ctx)
	if err != nil {
		return StatusResult{}, err
	}
	return StatusResult{
		Backend: normalizeBackend(req.Registry.Backend),
		Pending: pending,
	}, nil
}
