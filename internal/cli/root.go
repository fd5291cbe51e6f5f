package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sideload-watch/internal/types"
)

// version is set at build time via ldflags.
var version = "dev"

const envPrefix = "SIDELOAD_WATCH"

type RootConfig struct {
	ConfigFile string
	LogLevel   string
	Format     string

	TrustedInstaller    string
	MetadataSource      string
	ADBPath             string
	ADBSerial           string
	ADBTimeoutSec       int
	ADBFailureThreshold int
	Inventory           string

	RegistryBackend string
	RegistryPath    string
	RegistryDSN     string
}

func Execute() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg(errorMessage(err))
		os.Exit(exitCodeForError(err))
	}
}

func newRootCommand() *cobra.Command {
	cfg := RootConfig{}
	cmd := &cobra.Command{
		Use:           "sideload-watch",
		Short:         "Track newly installed Android packages that bypassed the trusted store",
		Version:       version,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(cfg.ConfigFile); err != nil {
				return err
			}
			setupLogging(viper.GetString("log_level"))
			return nil
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(&cfg.ConfigFile, "config", "", "Config file path")
	flags.StringVar(&cfg.LogLevel, "log-level", "info", "Log level")
	flags.StringVar(&cfg.Format, "format", string(types.OutputFormatText), "Output format (text, json, yaml)")
	flags.StringVar(&cfg.TrustedInstaller, "trusted-installer", types.DefaultTrustedInstaller, "Installer package treated as the trusted channel")
	flags.StringVar(&cfg.MetadataSource, "metadata-source", string(types.MetadataSourceADB), "Package metadata source (adb, inventory)")
	flags.StringVar(&cfg.ADBPath, "adb-path", "adb", "adb binary")
	flags.StringVar(&cfg.ADBSerial, "adb-serial", "", "Device serial passed to adb -s")
	flags.IntVar(&cfg.ADBTimeoutSec, "adb-timeout", 15, "Per-command adb timeout in seconds")
	flags.IntVar(&cfg.ADBFailureThreshold, "adb-failure-threshold", 5, "Consecutive adb failures before calls fail fast")
	flags.StringVar(&cfg.Inventory, "inventory", "", "Device inventory YAML (inventory metadata source)")
	flags.StringVar(&cfg.RegistryBackend, "registry-backend", string(types.RegistryBackendFile), "Registry backend (file, sqlite, postgres, mysql, memory)")
	flags.StringVar(&cfg.RegistryPath, "registry-path", defaultRegistryPath(), "Registry file (file backend)")
	flags.StringVar(&cfg.RegistryDSN, "registry-dsn", "", "Registry database DSN (sql backends)")

	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("format", flags.Lookup("format"))
	_ = viper.BindPFlag("trusted_installer", flags.Lookup("trusted-installer"))
	_ = viper.BindPFlag("metadata_source", flags.Lookup("metadata-source"))
	_ = viper.BindPFlag("adb_path", flags.Lookup("adb-path"))
	_ = viper.BindPFlag("adb_serial", flags.Lookup("adb-serial"))
	_ = viper.BindPFlag("adb_timeout_sec", flags.Lookup("adb-timeout"))
	_ = viper.BindPFlag("adb_failure_threshold", flags.Lookup("adb-failure-threshold"))
	_ = viper.BindPFlag("inventory", flags.Lookup("inventory"))
	_ = viper.BindPFlag("registry_backend", flags.Lookup("registry-backend"))
	_ = viper.BindPFlag("registry_path", flags.Lookup("registry-path"))
	_ = viper.BindPFlag("registry_dsn", flags.Lookup("registry-dsn"))

	cmd.AddCommand(newAddCommand())
	cmd.AddCommand(newPendingCommand())
	cmd.AddCommand(newClearCommand())
	cmd.AddCommand(newAuditCommand())
	cmd.AddCommand(newClassifyCommand())
	cmd.AddCommand(newStatusCommand())
	return cmd
}

func initConfig(configFile string) error {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to read config file").
				WithCause(err)
		}
		return nil
	}

	viper.SetConfigName("sideload-watch")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/sideload-watch")
	if err := viper.ReadInConfig(); err != nil {
		return nil
	}
	return nil
}

// setupLogging writes to stderr so that json and yaml output on stdout
// stays machine readable.
func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.DefaultContextLogger = &log.Logger
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func defaultRegistryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".sideload-watch", "registry.yaml")
	}
	return filepath.Join(home, ".local", "state", "sideload-watch", "registry.yaml")
}

func exitCodeForError(err error) int {
	code := errbuilder.CodeOf(err)
	switch code {
	case errbuilder.CodeInvalidArgument, errbuilder.CodeAlreadyExists:
		return 2
	case errbuilder.CodeNotFound, errbuilder.CodePermissionDenied:
		return 3
	case errbuilder.CodeFailedPrecondition:
		return 4
	case errbuilder.CodeInternal:
		return 5
	default:
		return 1
	}
}

func errorMessage(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.TrimSpace(builder.Msg) != "" {
		return builder.Msg
	}
	return err.Error()
}
