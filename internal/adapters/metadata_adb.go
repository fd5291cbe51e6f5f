package adapters

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/cenk/backoff"
	"github.com/rs/zerolog/log"
	circuit "github.com/rubyist/circuitbreaker"

	"sideload-watch/internal/ports"
	"sideload-watch/internal/shared"
	"sideload-watch/internal/types"
)

const (
	defaultADBBinary           = "adb"
	defaultADBTimeout          = 15 * time.Second
	defaultADBFailureThreshold = 5
	pmInstallerNull            = "null"
)

type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ADBMetadataAdapter reads package metadata from a device over adb using
// the package manager shell. Consecutive command failures trip a circuit
// breaker so a disconnected device fails fast instead of timing out on
// every package.
type ADBMetadataAdapter struct {
	Binary  string
	Serial  string
	Timeout time.Duration
	run     commandRunner
	breaker *circuit.Breaker
}

func NewADBMetadataAdapter(binary string, serial string, timeoutSec int, failureThreshold int) *ADBMetadataAdapter {
	if strings.TrimSpace(binary) == "" {
		binary = defaultADBBinary
	}
	timeout := defaultADBTimeout
	if timeoutSec > 0 {
		timeout = time.Duration(timeoutSec) * time.Second
	}
	if failureThreshold <= 0 {
		failureThreshold = defaultADBFailureThreshold
	}
	return &ADBMetadataAdapter{
		Binary:  binary,
		Serial:  strings.TrimSpace(serial),
		Timeout: timeout,
		run:     runCommand,
		breaker: newADBBreaker(int64(failureThreshold)),
	}
}

func (a *ADBMetadataAdapter) InstallSource(ctx context.Context, packageID string) (types.InstallSource, error) {
	id := shared.NormalizePackageID(packageID)
	output, err := a.shell(ctx, "pm", "list", "packages", "-i", id)
	if err != nil {
		return types.InstallSource{}, err
	}
	for _, entry := range parsePackageList(output, false) {
		if entry.PackageID == id {
			return types.InstallSource{PackageID: id, Installer: entry.Installer}, nil
		}
	}
	return types.InstallSource{}, packageNotFound(id)
}

// Label confirms the package is installed and returns its identifier: the
// package manager shell exposes no application labels, and the platform
// falls back to the package name when a label is missing.
func (a *ADBMetadataAdapter) Label(ctx context.Context, packageID string) (string, error) {
	id := shared.NormalizePackageID(packageID)
	output, err := a.shell(ctx, "pm", "list", "packages", id)
	if err != nil {
		return "", err
	}
	for _, entry := range parsePackageList(output, false) {
		if entry.PackageID == id {
			return id, nil
		}
	}
	return "", packageNotFound(id)
}

func (a *ADBMetadataAdapter) ListInstalled(ctx context.Context) ([]types.InstalledPackage, error) {
	thirdParty, err := a.shell(ctx, "pm", "list", "packages", "-i", "-3")
	if err != nil {
		return nil, err
	}
	system, err := a.shell(ctx, "pm", "list", "packages", "-i", "-s")
	if err != nil {
		return nil, err
	}
	installed := parsePackageList(thirdParty, false)
	installed = append(installed, parsePackageList(system, true)...)
	log.Ctx(ctx).Debug().
		Str("serial", a.Serial).
		Int("packages", len(installed)).
		Msg("device packages enumerated")
	return installed, nil
}

func (a *ADBMetadataAdapter) shell(ctx context.Context, args ...string) ([]byte, error) {
	if !a.breaker.Ready() {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("adb circuit open, device not responding")
	}
	full := make([]string, 0, len(args)+3)
	if a.Serial != "" {
		full = append(full, "-s", a.Serial)
	}
	full = append(full, "shell")
	full = append(full, args...)

	var output []byte
	err := a.breaker.Call(func() error {
		runCtx, cancel := context.WithTimeout(ctx, a.Timeout)
		defer cancel()
		out, runErr := a.run(runCtx, a.Binary, full...)
		if runErr != nil {
			return shared.CommandError(out, runErr)
		}
		output = out
		return nil
	}, 0)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("adb command failed").
			WithCause(err)
	}
	return output, nil
}

func newADBBreaker(threshold int64) *circuit.Breaker {
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 5 * time.Second
	expBackoff.MaxInterval = time.Minute
	expBackoff.Multiplier = 2.0
	expBackoff.MaxElapsedTime = 0
	expBackoff.Reset()

	return circuit.NewBreakerWithOptions(&circuit.Options{
		BackOff:    expBackoff,
		ShouldTrip: circuit.ConsecutiveTripFunc(threshold),
	})
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// parsePackageList reads `pm list packages [-i]` output. Lines look like
// "package:com.example.app  installer=com.android.vending"; an installer
// of "null" means none was recorded.
func parsePackageList(output []byte, system bool) []types.InstalledPackage {
	var packages []types.InstalledPackage
	for _, line := range strings.Split(string(output), "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "package:") {
			continue
		}
		fields := strings.Fields(strings.TrimPrefix(trimmed, "package:"))
		if len(fields) == 0 {
			continue
		}
		entry := types.InstalledPackage{PackageID: fields[0], System: system}
		for _, field := range fields[1:] {
			value, ok := strings.CutPrefix(field, "installer=")
			if !ok {
				continue
			}
			if value != "" && value != pmInstallerNull {
				installer := value
				entry.Installer = &installer
			}
		}
		packages = append(packages, entry)
	}
	return packages
}

func packageNotFound(packageID string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("package %s not installed on device", packageID))
}

var _ ports.PackageMetadataPort = (*ADBMetadataAdapter)(nil)
