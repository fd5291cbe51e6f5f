package app

import "sideload-watch/internal/types"

type RegistryOptions struct {
	Backend string
	Path    string
	DSN     string
}

type MetadataOptions struct {
	Source              string
	TrustedInstaller    string
	ADBPath             string
	ADBSerial           string
	ADBTimeoutSec       int
	ADBFailureThreshold int
	InventoryPath       string
}

type AddRequest struct {
	Registry  RegistryOptions
	PackageID string
}

type AddResult struct {
	PackageID string
	Inserted  bool
	Pending   int
}

type ReadRequest struct {
	Registry RegistryOptions
	Metadata MetadataOptions
}

type RecordsResult struct {
	Records []types.PackageRecord
}

type ClearRequest struct {
	Registry RegistryOptions
}

type ClearResult struct {
	Cleared bool
}

type AuditRequest struct {
	Metadata MetadataOptions
}

type ClassifyRequest struct {
	Metadata  MetadataOptions
	PackageID string
}

type ClassifyResult struct {
	PackageID string
	Verdict   types.TrustVerdict
}

type StatusRequest struct {
	Registry RegistryOptions
}

type StatusResult struct {
	Backend types.RegistryBackend
	Pending []string
}
