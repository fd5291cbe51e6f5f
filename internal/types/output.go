package types

type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

// VerdictReport is the rendered outcome of a single classification.
type VerdictReport struct {
	PackageID string       `json:"packageId" yaml:"packageId"`
	Verdict   TrustVerdict `json:"verdict" yaml:"verdict"`
}

// PendingReport is the rendered raw registry state.
type PendingReport struct {
	Backend  RegistryBackend `json:"backend" yaml:"backend"`
	Count    int             `json:"count" yaml:"count"`
	Packages []string        `json:"packages" yaml:"packages"`
}
