package types

import "strings"

type PackageRecord struct {
	PackageID   string       `json:"packageId" yaml:"packageId"`
	DisplayName string       `json:"displayName" yaml:"displayName"`
	Verdict     TrustVerdict `json:"verdict" yaml:"verdict"`
}

// NewPackageRecord builds a record, using the identifier as display name
// when no label is available.
func NewPackageRecord(packageID string, label string, verdict TrustVerdict) PackageRecord {
	name := strings.TrimSpace(label)
	if name == "" {
		name = packageID
	}
	return PackageRecord{
		PackageID:   packageID,
		DisplayName: name,
		Verdict:     verdict,
	}
}

// InstallSource is the installing channel reported for a package. A nil
// Installer means the platform reported none.
type InstallSource struct {
	PackageID string
	Installer *string
}

// InstallerName returns the reported installer or an empty string.
func (s InstallSource) InstallerName() string {
	if s.Installer == nil {
		return ""
	}
	return *s.Installer
}

type InstalledPackage struct {
	PackageID string
	Label     string
	Installer *string
	System    bool
}
