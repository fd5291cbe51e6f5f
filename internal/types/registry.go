package types

const (
	// RegistryNamespace scopes every persisted registry set.
	RegistryNamespace = "sideload-watch"
	// NewlyInstalledKey holds the identifiers awaiting user notification.
	NewlyInstalledKey = "newly_installed_apps"
	// DefaultTrustedInstaller is the Play Store installer identifier.
	DefaultTrustedInstaller = "com.android.vending"
)

type RegistryBackend string

const (
	RegistryBackendFile     RegistryBackend = "file"
	RegistryBackendSQLite   RegistryBackend = "sqlite"
	RegistryBackendPostgres RegistryBackend = "postgres"
	RegistryBackendMySQL    RegistryBackend = "mysql"
	RegistryBackendMemory   RegistryBackend = "memory"
)

type MetadataSource string

const (
	MetadataSourceADB       MetadataSource = "adb"
	MetadataSourceInventory MetadataSource = "inventory"
)
