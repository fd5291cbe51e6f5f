package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sideload-watch/internal/adapters"
	"sideload-watch/internal/app"
)

func newAppService() app.Service {
	return app.NewService()
}

func newOutput(cmd *cobra.Command) (adapters.OutputWriterAdapter, error) {
	return adapters.NewOutputWriterAdapter(cmd.OutOrStdout(), viper.GetString("format"))
}

func registryOptions() app.RegistryOptions {
	return app.RegistryOptions{
		Backend: viper.GetString("registry_backend"),
		Path:    viper.GetString("registry_path"),
		DSN:     viper.GetString("registry_dsn"),
	}
}

func metadataOptions() app.MetadataOptions {
	return app.MetadataOptions{
		Source:              viper.GetString("metadata_source"),
		TrustedInstaller:    viper.GetString("trusted_installer"),
		ADBPath:             viper.GetString("adb_path"),
		ADBSerial:           viper.GetString("adb_serial"),
		ADBTimeoutSec:       viper.GetInt("adb_timeout_sec"),
		ADBFailureThreshold: viper.GetInt("adb_failure_threshold"),
		InventoryPath:       viper.GetString("inventory"),
	}
}

// packageArg returns the positional package id, falling back to the
// --package flag.
func packageArg(cmd *cobra.Command, args []string, value string) string {
	if len(args) > 0 {
		return strings.TrimSpace(args[0])
	}
	return strings.TrimSpace(resolveString(cmd, value, "package", "package"))
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetString(key)
}

func resolveBool(cmd *cobra.Command, value bool, key string, flagName string) bool {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetBool(key)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
