package types

// DeviceInventory is a package listing captured from a device, used as an
// offline metadata source.
type DeviceInventory struct {
	Device   string             `yaml:"device,omitempty"`
	Packages []InventoryPackage `yaml:"packages"`
}

type InventoryPackage struct {
	ID        string  `yaml:"id"`
	Label     string  `yaml:"label,omitempty"`
	Installer *string `yaml:"installer,omitempty"`
	System    bool    `yaml:"system,omitempty"`
}
