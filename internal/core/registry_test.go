package core

import (
	"errors"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"sideload-watch/internal/policies"
	"sideload-watch/internal/types"
)

func newTestRegistry(store *testStore, metadata *testMetadata) NewlyInstalledRegistry {
	classifier := NewProvenanceClassifier(metadata, policies.NewProvenancePolicy(types.DefaultTrustedInstaller))
	return NewNewlyInstalledRegistry(store, metadata, classifier)
}

func TestRegistryAddIsIdempotent(t *testing.T) {
	store := newTestStore()
	registry := newTestRegistry(store, newTestMetadata())

	first, err := registry.Add(t.Context(), "com.x.y")
	require.NoError(t, err)
	second, err := registry.Add(t.Context(), "com.x.y")
	require.NoError(t, err)

	if diff := cmp.Diff(AddOutcome{Inserted: true, Size: 1}, first); diff != "" {
		t.Fatalf("unexpected first outcome (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(AddOutcome{Inserted: false, Size: 1}, second); diff != "" {
		t.Fatalf("unexpected second outcome (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"com.x.y"}, store.sets[types.NewlyInstalledKey]); diff != "" {
		t.Fatalf("unexpected persisted set (-want +got):\n%s", diff)
	}
	require.Equal(t, 1, store.saves)
}

func TestRegistryAddTrimsAndRejectsEmpty(t *testing.T) {
	store := newTestStore()
	registry := newTestRegistry(store, newTestMetadata())

	_, err := registry.Add(t.Context(), "  com.acme.app\n")
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"com.acme.app"}, store.sets[types.NewlyInstalledKey]); diff != "" {
		t.Fatalf("unexpected persisted set (-want +got):\n%s", diff)
	}

	_, err = registry.Add(t.Context(), "   ")
	require.Error(t, err)
	if diff := cmp.Diff(errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err)); diff != "" {
		t.Fatalf("unexpected error code (-want +got):\n%s", diff)
	}
}

func TestRegistryAddPersistenceFailure(t *testing.T) {
	tests := []struct {
		name  string
		store *testStore
	}{
		{name: "read fails", store: &testStore{sets: map[string][]string{}, loadErr: errDiskFull}},
		{name: "write fails", store: &testStore{sets: map[string][]string{}, saveErr: errDiskFull}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := newTestRegistry(tt.store, newTestMetadata())
			_, err := registry.Add(t.Context(), "com.acme.app")
			require.Error(t, err)
			if diff := cmp.Diff(errbuilder.CodeInternal, errbuilder.CodeOf(err)); diff != "" {
				t.Fatalf("unexpected error code (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRegistryReadAndFilterExcludesTrusted(t *testing.T) {
	store := newTestStore()
	store.sets[types.NewlyInstalledKey] = []string{"com.acme.app", "com.store.app"}
	metadata := newTestMetadata().
		with("com.acme.app", testPackage{installer: strPtr("com.acme.installer"), label: "Acme"}).
		with("com.store.app", testPackage{installer: strPtr("com.android.vending"), label: "Store App"})
	registry := newTestRegistry(store, metadata)

	records, err := registry.ReadAndFilter(t.Context())
	require.NoError(t, err)

	want := []types.PackageRecord{
		{PackageID: "com.acme.app", DisplayName: "Acme", Verdict: types.TrustVerdictSideloaded},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Fatalf("unexpected records (-want +got):\n%s", diff)
	}
}

func TestRegistryReadAndFilterFallsBackToPackageID(t *testing.T) {
	tests := []struct {
		name     string
		metadata *testMetadata
	}{
		{
			name: "label lookup throws",
			metadata: newTestMetadata().
				with("com.broken.app", testPackage{labelErr: errors.New("resources unavailable")}),
		},
		{
			name:     "package uninstalled since it was tracked",
			metadata: newTestMetadata(),
		},
		{
			name: "installer and label lookups both fail",
			metadata: newTestMetadata().
				with("com.broken.app", testPackage{installErr: errors.New("binder died"), labelErr: errors.New("binder died")}),
		},
		{
			name:     "blank label",
			metadata: newTestMetadata().with("com.broken.app", testPackage{label: "  "}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore()
			store.sets[types.NewlyInstalledKey] = []string{"com.broken.app"}
			registry := newTestRegistry(store, tt.metadata)

			records, err := registry.ReadAndFilter(t.Context())
			require.NoError(t, err)
			want := []types.PackageRecord{
				{PackageID: "com.broken.app", DisplayName: "com.broken.app", Verdict: types.TrustVerdictSideloaded},
			}
			if diff := cmp.Diff(want, records); diff != "" {
				t.Fatalf("unexpected records (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRegistryReadAndFilterNeverDropsSideloaded(t *testing.T) {
	store := newTestStore()
	store.sets[types.NewlyInstalledKey] = []string{"a.one", "b.two", "c.three", "d.store"}
	metadata := newTestMetadata().
		with("a.one", testPackage{label: "One"}).
		with("b.two", testPackage{installer: strPtr("com.other"), labelErr: errors.New("boom")}).
		with("d.store", testPackage{installer: strPtr("com.android.vending"), label: "Store"})
	registry := newTestRegistry(store, metadata)

	records, err := registry.ReadAndFilter(t.Context())
	require.NoError(t, err)
	ids := make([]string, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.PackageID)
	}
	if diff := cmp.Diff([]string{"a.one", "b.two", "c.three"}, ids); diff != "" {
		t.Fatalf("unexpected record ids (-want +got):\n%s", diff)
	}
}

func TestRegistryReadAndFilterStoreFailure(t *testing.T) {
	store := &testStore{sets: map[string][]string{}, loadErr: errDiskFull}
	registry := newTestRegistry(store, newTestMetadata())

	_, err := registry.ReadAndFilter(t.Context())
	require.Error(t, err)
	if diff := cmp.Diff(errbuilder.CodeInternal, errbuilder.CodeOf(err)); diff != "" {
		t.Fatalf("unexpected error code (-want +got):\n%s", diff)
	}
}

func TestRegistryClearThenReadIsEmpty(t *testing.T) {
	store := newTestStore()
	metadata := newTestMetadata().with("com.acme.app", testPackage{label: "Acme"})
	registry := newTestRegistry(store, metadata)

	_, err := registry.Add(t.Context(), "com.acme.app")
	require.NoError(t, err)
	records, err := registry.ReadAndFilter(t.Context())
	require.NoError(t, err)
	require.Len(t, records, 1)

	require.NoError(t, registry.Clear(t.Context()))
	records, err = registry.ReadAndFilter(t.Context())
	require.NoError(t, err)
	require.Empty(t, records)

	require.NoError(t, registry.Clear(t.Context()))
}

func TestRegistryClearFailure(t *testing.T) {
	store := &testStore{sets: map[string][]string{}, removeErr: errDiskFull}
	registry := newTestRegistry(store, newTestMetadata())

	err := registry.Clear(t.Context())
	require.Error(t, err)
	if diff := cmp.Diff(errbuilder.CodeInternal, errbuilder.CodeOf(err)); diff != "" {
		t.Fatalf("unexpected error code (-want +got):\n%s", diff)
	}
}

func TestRegistryRoundTripRespectsVerdict(t *testing.T) {
	tests := []struct {
		name      string
		installer *string
		wantCount int
	}{
		{name: "trusted channel is absent from result", installer: strPtr("com.android.vending"), wantCount: 0},
		{name: "untrusted channel is present", installer: strPtr("com.sec.android.app.samsungapps"), wantCount: 1},
		{name: "no installer is present", installer: nil, wantCount: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metadata := newTestMetadata().with("com.p.app", testPackage{installer: tt.installer, label: "P"})
			registry := newTestRegistry(newTestStore(), metadata)

			_, err := registry.Add(t.Context(), "com.p.app")
			require.NoError(t, err)
			records, err := registry.ReadAndFilter(t.Context())
			require.NoError(t, err)
			require.Len(t, records, tt.wantCount)
		})
	}
}

func TestRegistryPendingIncludesTrusted(t *testing.T) {
	store := newTestStore()
	store.sets[types.NewlyInstalledKey] = []string{"com.store.app", "com.acme.app", "com.acme.app", ""}
	registry := newTestRegistry(store, newTestMetadata())

	pending, err := registry.Pending(t.Context())
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"com.acme.app", "com.store.app"}, pending); diff != "" {
		t.Fatalf("unexpected pending ids (-want +got):\n%s", diff)
	}
}

func TestRegistryListAllSideloaded(t *testing.T) {
	metadata := newTestMetadata().
		with("com.acme.app", testPackage{installer: strPtr("com.acme.installer"), label: "Acme"}).
		with("com.adb.app", testPackage{label: "Debug Build"}).
		with("com.store.app", testPackage{installer: strPtr("com.android.vending"), label: "Store"}).
		with("com.android.settings", testPackage{label: "Settings", system: true}).
		with("com.nolabel.app", testPackage{labelErr: errors.New("resources unavailable")}).
		with("com.flaky.app", testPackage{installErr: errors.New("binder died"), label: "Flaky"})
	store := newTestStore()
	store.sets[types.NewlyInstalledKey] = []string{"com.pending.only"}
	registry := newTestRegistry(store, metadata)

	records, err := registry.ListAllSideloaded(t.Context())
	require.NoError(t, err)

	want := []types.PackageRecord{
		{PackageID: "com.acme.app", DisplayName: "Acme", Verdict: types.TrustVerdictSideloaded},
		{PackageID: "com.adb.app", DisplayName: "Debug Build", Verdict: types.TrustVerdictSideloaded},
		{PackageID: "com.flaky.app", DisplayName: "Flaky", Verdict: types.TrustVerdictSideloaded},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Fatalf("unexpected records (-want +got):\n%s", diff)
	}
}

func TestRegistryListAllSideloadedEnumerationFailure(t *testing.T) {
	metadata := newTestMetadata()
	metadata.listErr = errors.New("device offline")
	registry := newTestRegistry(newTestStore(), metadata)

	_, err := registry.ListAllSideloaded(t.Context())
	require.Error(t, err)
	if diff := cmp.Diff(errbuilder.CodeInternal, errbuilder.CodeOf(err)); diff != "" {
		t.Fatalf("unexpected error code (-want +got):\n%s", diff)
	}
}

func TestRegistryRequiresStore(t *testing.T) {
	registry := NewlyInstalledRegistry{}
	_, err := registry.Add(t.Context(), "com.acme.app")
	require.Error(t, err)
	if diff := cmp.Diff(errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err)); diff != "" {
		t.Fatalf("unexpected error code (-want +got):\n%s", diff)
	}
}
