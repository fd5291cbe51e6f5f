package app

import (
	"sideload-watch/internal/ports"
)

// Service runs the host-facing use cases. Store and Metadata override the
// adapters that would otherwise be built from request options; they are
// set by embedders and tests.
type Service struct {
	Store    ports.RegistryStorePort
	Metadata ports.PackageMetadataPort
}

func NewService() Service {
	return Service{}
}
