package adapters

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"sideload-watch/internal/ports"
	"sideload-watch/internal/shared"
	"sideload-watch/internal/types"
)

// InventoryFileAdapter answers metadata queries from a device inventory
// YAML file. The file is read on every query so it always reflects the
// latest export.
type InventoryFileAdapter struct {
	Path string
}

func NewInventoryFileAdapter(path string) InventoryFileAdapter {
	return InventoryFileAdapter{Path: path}
}

func (a InventoryFileAdapter) InstallSource(ctx context.Context, packageID string) (types.InstallSource, error) {
	pkg, err := a.lookup(ctx, packageID)
	if err != nil {
		return types.InstallSource{}, err
	}
	return types.InstallSource{PackageID: pkg.ID, Installer: pkg.Installer}, nil
}

// Label returns the recorded label, or the identifier when the export
// carries none, mirroring the platform's own fallback.
func (a InventoryFileAdapter) Label(ctx context.Context, packageID string) (string, error) {
	pkg, err := a.lookup(ctx, packageID)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(pkg.Label) == "" {
		return pkg.ID, nil
	}
	return pkg.Label, nil
}

func (a InventoryFileAdapter) ListInstalled(ctx context.Context) ([]types.InstalledPackage, error) {
	inventory, err := a.load(ctx)
	if err != nil {
		return nil, err
	}
	installed := make([]types.InstalledPackage, 0, len(inventory.Packages))
	for _, pkg := range inventory.Packages {
		installed = append(installed, types.InstalledPackage{
			PackageID: pkg.ID,
			Label:     pkg.Label,
			Installer: pkg.Installer,
			System:    pkg.System,
		})
	}
	return installed, nil
}

func (a InventoryFileAdapter) lookup(ctx context.Context, packageID string) (types.InventoryPackage, error) {
	inventory, err := a.load(ctx)
	if err != nil {
		return types.InventoryPackage{}, err
	}
	id := shared.NormalizePackageID(packageID)
	for _, pkg := range inventory.Packages {
		if pkg.ID == id {
			return pkg, nil
		}
	}
	return types.InventoryPackage{}, errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("package %s not found in inventory", id))
}

func (a InventoryFileAdapter) load(ctx context.Context) (types.DeviceInventory, error) {
	if err := ctx.Err(); err != nil {
		return types.DeviceInventory{}, err
	}
	if strings.TrimSpace(a.Path) == "" {
		return types.DeviceInventory{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("inventory path is empty")
	}
	data, err := os.ReadFile(a.Path)
	if err != nil {
		return types.DeviceInventory{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("inventory file not found").
			WithCause(err)
	}
	var inventory types.DeviceInventory
	if err := yaml.Unmarshal(data, &inventory); err != nil {
		return types.DeviceInventory{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid inventory format").
			WithCause(err)
	}
	for i := range inventory.Packages {
		inventory.Packages[i].ID = shared.NormalizePackageID(inventory.Packages[i].ID)
	}
	return inventory, nil
}

var _ ports.PackageMetadataPort = InventoryFileAdapter{}
