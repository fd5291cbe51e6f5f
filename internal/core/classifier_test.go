package core

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"sideload-watch/internal/policies"
	"sideload-watch/internal/types"
)

func TestProvenanceClassifierClassify(t *testing.T) {
	metadata := newTestMetadata().
		with("com.store.app", testPackage{installer: strPtr("com.android.vending")}).
		with("com.acme.app", testPackage{installer: strPtr("com.acme.installer")}).
		with("com.adb.app", testPackage{}).
		with("com.broken.app", testPackage{installer: strPtr("com.android.vending"), installErr: errors.New("binder died")})
	classifier := NewProvenanceClassifier(metadata, policies.NewProvenancePolicy(types.DefaultTrustedInstaller))

	tests := []struct {
		packageID string
		want      types.TrustVerdict
	}{
		{packageID: "com.store.app", want: types.TrustVerdictTrusted},
		{packageID: "com.acme.app", want: types.TrustVerdictSideloaded},
		{packageID: "com.adb.app", want: types.TrustVerdictSideloaded},
		{packageID: "com.broken.app", want: types.TrustVerdictSideloaded},
		{packageID: "com.missing.app", want: types.TrustVerdictSideloaded},
	}
	for _, tt := range tests {
		t.Run(tt.packageID, func(t *testing.T) {
			got := classifier.Classify(t.Context(), tt.packageID)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("unexpected verdict (-want +got):\n%s", diff)
			}
		})
	}
}

func TestProvenanceClassifierQueriesEveryCall(t *testing.T) {
	metadata := newTestMetadata().with("com.store.app", testPackage{installer: strPtr("com.android.vending")})
	classifier := NewProvenanceClassifier(metadata, policies.NewProvenancePolicy(""))

	classifier.Classify(t.Context(), "com.store.app")
	classifier.Classify(t.Context(), "com.store.app")

	if diff := cmp.Diff(2, metadata.packages["com.store.app"].installHits); diff != "" {
		t.Fatalf("unexpected lookup count (-want +got):\n%s", diff)
	}
}

func TestProvenanceClassifierWithoutPortsFailsClosed(t *testing.T) {
	classifier := ProvenanceClassifier{}
	got := classifier.Classify(t.Context(), "com.store.app")
	if diff := cmp.Diff(types.TrustVerdictSideloaded, got); diff != "" {
		t.Fatalf("unexpected verdict (-want +got):\n%s", diff)
	}
}
