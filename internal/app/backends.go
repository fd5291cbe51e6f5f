package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"sideload-watch/internal/adapters"
	"sideload-watch/internal/core"
	"sideload-watch/internal/policies"
	"sideload-watch/internal/ports"
	"sideload-watch/internal/types"
)

// defaultSQLiteDSN is used when the sqlite backend is selected without a DSN.
const defaultSQLiteDSN = "sideload-watch.db"

func normalizeBackend(value string) types.RegistryBackend {
	backend := strings.ToLower(strings.TrimSpace(value))
	if backend == "" {
		return types.RegistryBackendFile
	}
	return types.RegistryBackend(backend)
}

// openStore returns the registry store and a release func that must be
// called once the request completes.
func (s Service) openStore(ctx context.Context, opts RegistryOptions) (ports.RegistryStorePort, func(), error) {
	if s.Store != nil {
		return s.Store, func() {}, nil
	}
	backend := normalizeBackend(opts.Backend)
	switch backend {
	case types.RegistryBackendFile:
		path := strings.TrimSpace(opts.Path)
		if path == "" {
			return nil, nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("registry path is required for file backend")
		}
		return adapters.NewRegistryFileAdapter(path, types.RegistryNamespace), func() {}, nil
	case types.RegistryBackendMemory:
		return adapters.NewRegistryMemoryAdapter(), func() {}, nil
	case types.RegistryBackendSQLite, types.RegistryBackendPostgres, types.RegistryBackendMySQL:
		dsn := strings.TrimSpace(opts.DSN)
		if dsn == "" && backend == types.RegistryBackendSQLite {
			dsn = defaultSQLiteDSN
		}
		store, err := adapters.OpenRegistrySQLAdapter(ctx, backend, dsn, types.RegistryNamespace)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported registry backend %q", backend))
	}
}

func (s Service) openMetadata(opts MetadataOptions) (ports.PackageMetadataPort, error) {
	if s.Metadata != nil {
		return s.Metadata, nil
	}
	source := types.MetadataSource(strings.ToLower(strings.TrimSpace(opts.Source)))
	if source == "" {
		source = types.MetadataSourceADB
	}
	switch source {
	case types.MetadataSourceADB:
		return adapters.NewADBMetadataAdapter(opts.ADBPath, opts.ADBSerial, opts.ADBTimeoutSec, opts.ADBFailureThreshold), nil
	case types.MetadataSourceInventory:
		path := strings.TrimSpace(opts.InventoryPath)
		if path == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("inventory path is required for inventory metadata source")
		}
		return adapters.NewInventoryFileAdapter(path), nil
	default:
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported metadata source %q", source))
	}
}

func (s Service) newClassifier(metadata ports.PackageMetadataPort, opts MetadataOptions) core.ProvenanceClassifier {
	return core.NewProvenanceClassifier(metadata, policies.NewProvenancePolicy(opts.TrustedInstaller))
}
