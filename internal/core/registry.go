package core

import (
	"context"
	"sort"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"sideload-watch/internal/ports"
	"sideload-watch/internal/shared"
	"sideload-watch/internal/types"
)

// sweepProgressEvery controls how often the full-device sweep logs progress.
const sweepProgressEvery = 10

// NewlyInstalledRegistry tracks package identifiers flagged as newly
// installed until the host clears them. Each identifier is either absent
// or pending; clearing is all-or-nothing.
type NewlyInstalledRegistry struct {
	Store      ports.RegistryStorePort
	Metadata   ports.PackageMetadataPort
	Classifier ports.ClassifierPort
	Key        string
}

type AddOutcome struct {
	Inserted bool
	Size     int
}

func NewNewlyInstalledRegistry(store ports.RegistryStorePort, metadata ports.PackageMetadataPort, classifier ports.ClassifierPort) NewlyInstalledRegistry {
	return NewlyInstalledRegistry{
		Store:      store,
		Metadata:   metadata,
		Classifier: classifier,
		Key:        types.NewlyInstalledKey,
	}
}

// Add marks packageID as pending. Repeated calls leave the set unchanged.
func (r NewlyInstalledRegistry) Add(ctx context.Context, packageID string) (AddOutcome, error) {
	if err := r.requireStore(); err != nil {
		return AddOutcome{}, err
	}
	id := shared.NormalizePackageID(packageID)
	if id == "" {
		return AddOutcome{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("package id is empty")
	}
	current, err := r.load(ctx)
	if err != nil {
		return AddOutcome{}, err
	}
	set := toSet(current)
	if _, ok := set[id]; ok {
		log.Ctx(ctx).Debug().Str("package", id).Int("pending", len(set)).Msg("package already pending")
		return AddOutcome{Inserted: false, Size: len(set)}, nil
	}
	set[id] = struct{}{}
	if err := r.Store.SaveSet(ctx, r.key(), sortedSet(set)); err != nil {
		return AddOutcome{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to persist newly installed registry").
			WithCause(err)
	}
	log.Ctx(ctx).Info().Str("package", id).Int("pending", len(set)).Msg("package added to registry")
	return AddOutcome{Inserted: true, Size: len(set)}, nil
}

// Pending returns the raw pending identifiers without classification.
func (r NewlyInstalledRegistry) Pending(ctx context.Context) ([]string, error) {
	if err := r.requireStore(); err != nil {
		return nil, err
	}
	current, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return sortedSet(toSet(current)), nil
}

// ReadAndFilter returns a record for every pending identifier that is not
// installed through the trusted channel. Lookup failures degrade the
// display name of that entry only; the call fails only when the
// persisted set cannot be read.
func (r NewlyInstalledRegistry) ReadAndFilter(ctx context.Context) ([]types.PackageRecord, error) {
	if err := r.requireStore(); err != nil {
		return nil, err
	}
	if r.Classifier == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("registry requires a classifier")
	}
	ids, err := r.Pending(ctx)
	if err != nil {
		return nil, err
	}
	log.Ctx(ctx).Debug().Int("pending", len(ids)).Msg("registry read")

	records := make([]types.PackageRecord, 0, len(ids))
	for _, id := range ids {
		verdict := r.Classifier.Classify(ctx, id)
		if !verdict.IsSideloaded() {
			log.Ctx(ctx).Debug().Str("package", id).Msg("skipping trusted package")
			continue
		}
		label, err := r.label(ctx, id)
		if err != nil {
			log.Ctx(ctx).Warn().
				Err(err).
				Str("package", id).
				Msg("label lookup failed, using package id as display name")
			label = id
		}
		records = append(records, r.record(ctx, id, label, verdict))
	}
	log.Ctx(ctx).Debug().Int("records", len(records)).Msg("pending sideloaded packages resolved")
	return records, nil
}

// Clear removes every pending identifier in one commit.
func (r NewlyInstalledRegistry) Clear(ctx context.Context) error {
	if err := r.requireStore(); err != nil {
		return err
	}
	if err := r.Store.RemoveSet(ctx, r.key()); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to clear newly installed registry").
			WithCause(err)
	}
	log.Ctx(ctx).Info().Msg("newly installed registry cleared")
	return nil
}

// ListAllSideloaded sweeps every installed non-system package on the
// device, independent of the pending set. Entries whose label cannot be
// resolved are logged and skipped since they were never tracked.
func (r NewlyInstalledRegistry) ListAllSideloaded(ctx context.Context) ([]types.PackageRecord, error) {
	if r.Metadata == nil || r.Classifier == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("device sweep requires metadata and classifier ports")
	}
	installed, err := r.Metadata.ListInstalled(ctx)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to enumerate installed packages").
			WithCause(err)
	}

	var records []types.PackageRecord
	for _, pkg := range installed {
		id := shared.NormalizePackageID(pkg.PackageID)
		if id == "" || pkg.System {
			continue
		}
		verdict := r.Classifier.Classify(ctx, id)
		if !verdict.IsSideloaded() {
			continue
		}
		label, err := r.Metadata.Label(ctx, id)
		if err != nil {
			log.Ctx(ctx).Warn().
				Err(err).
				Str("package", id).
				Msg("label lookup failed, skipping package")
			continue
		}
		records = append(records, r.record(ctx, id, label, verdict))
		if len(records)%sweepProgressEvery == 0 {
			log.Ctx(ctx).Debug().Int("processed", len(records)).Msg("device sweep progress")
		}
	}
	sortRecords(records)
	log.Ctx(ctx).Debug().
		Int("installed", len(installed)).
		Int("sideloaded", len(records)).
		Msg("device sweep completed")
	return records, nil
}

func (r NewlyInstalledRegistry) load(ctx context.Context) ([]string, error) {
	values, err := r.Store.LoadSet(ctx, r.key())
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read newly installed registry").
			WithCause(err)
	}
	return values, nil
}

func (r NewlyInstalledRegistry) label(ctx context.Context, packageID string) (string, error) {
	if r.Metadata == nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("no metadata source configured")
	}
	return r.Metadata.Label(ctx, packageID)
}

func (r NewlyInstalledRegistry) record(ctx context.Context, packageID string, label string, verdict types.TrustVerdict) types.PackageRecord {
	assert.NotEmpty(ctx, packageID, "package record id must be set")
	return types.NewPackageRecord(packageID, label, verdict)
}

func (r NewlyInstalledRegistry) requireStore() error {
	if r.Store == nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("registry requires a store")
	}
	return nil
}

func (r NewlyInstalledRegistry) key() string {
	if strings.TrimSpace(r.Key) == "" {
		return types.NewlyInstalledKey
	}
	return r.Key
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		trimmed := shared.NormalizePackageID(value)
		if trimmed == "" {
			continue
		}
		set[trimmed] = struct{}{}
	}
	return set
}

func sortedSet(set map[string]struct{}) []string {
	values := make([]string, 0, len(set))
	for value := range set {
		values = append(values, value)
	}
	sort.Strings(values)
	return values
}

func sortRecords(records []types.PackageRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].PackageID < records[j].PackageID
	})
}
