package types

type TrustVerdict string

const (
	TrustVerdictUnknown    TrustVerdict = ""
	TrustVerdictTrusted    TrustVerdict = "trusted"
	TrustVerdictSideloaded TrustVerdict = "sideloaded"
)

// IsSideloaded reports whether the verdict must be treated as untrusted.
// An unevaluated verdict counts as sideloaded.
func (v TrustVerdict) IsSideloaded() bool {
	return v != TrustVerdictTrusted
}

func (v TrustVerdict) String() string {
	if v == TrustVerdictUnknown {
		return "unknown"
	}
	return string(v)
}
