package policies

import (
	"strings"

	"sideload-watch/internal/ports"
	"sideload-watch/internal/types"
)

// ProvenancePolicy decides trust from the installing channel. Only an
// exact match with the configured trusted installer is trusted; a failed
// lookup or an absent installer is sideloaded.
type ProvenancePolicy struct {
	TrustedInstaller string
}

func NewProvenancePolicy(trustedInstaller string) ProvenancePolicy {
	trusted := strings.TrimSpace(trustedInstaller)
	if trusted == "" {
		trusted = types.DefaultTrustedInstaller
	}
	return ProvenancePolicy{TrustedInstaller: trusted}
}

func (p ProvenancePolicy) Evaluate(source types.InstallSource, lookupErr error) types.TrustVerdict {
	if lookupErr != nil {
		return types.TrustVerdictSideloaded
	}
	if source.Installer == nil {
		return types.TrustVerdictSideloaded
	}
	if p.TrustedInstaller == "" || *source.Installer != p.TrustedInstaller {
		return types.TrustVerdictSideloaded
	}
	return types.TrustVerdictTrusted
}

var _ ports.PolicyPort = ProvenancePolicy{}
