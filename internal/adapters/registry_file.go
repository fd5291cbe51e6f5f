package adapters

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"sideload-watch/internal/ports"
	"sideload-watch/internal/types"
)

// RegistryFileAdapter stores registry sets in a single YAML document.
// Writes go to a temporary file that is renamed over the target, so each
// write is one atomic commit.
type RegistryFileAdapter struct {
	Path      string
	Namespace string
}

type registryDocument struct {
	Namespace string              `yaml:"namespace"`
	Sets      map[string][]string `yaml:"sets"`
}

func NewRegistryFileAdapter(path string, namespace string) RegistryFileAdapter {
	if strings.TrimSpace(namespace) == "" {
		namespace = types.RegistryNamespace
	}
	return RegistryFileAdapter{Path: path, Namespace: namespace}
}

func (a RegistryFileAdapter) LoadSet(ctx context.Context, key string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := a.read()
	if err != nil {
		return nil, err
	}
	return append([]string(nil), doc.Sets[key]...), nil
}

func (a RegistryFileAdapter) SaveSet(ctx context.Context, key string, values []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc, err := a.read()
	if err != nil {
		return err
	}
	ordered := uniqueStrings(values)
	sort.Strings(ordered)
	doc.Sets[key] = ordered
	return a.write(doc)
}

func (a RegistryFileAdapter) RemoveSet(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc, err := a.read()
	if err != nil {
		return err
	}
	if _, ok := doc.Sets[key]; !ok {
		return nil
	}
	delete(doc.Sets, key)
	return a.write(doc)
}

func (a RegistryFileAdapter) read() (registryDocument, error) {
	if strings.TrimSpace(a.Path) == "" {
		return registryDocument{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("registry file path is empty")
	}
	empty := registryDocument{Namespace: a.Namespace, Sets: map[string][]string{}}
	data, err := os.ReadFile(a.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return empty, nil
		}
		return registryDocument{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read registry file").
			WithCause(err)
	}
	var doc registryDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return registryDocument{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("invalid registry file format").
			WithCause(err)
	}
	if doc.Namespace == "" {
		doc.Namespace = a.Namespace
	}
	if doc.Namespace != a.Namespace {
		return registryDocument{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("registry file belongs to namespace %s", doc.Namespace))
	}
	if doc.Sets == nil {
		doc.Sets = map[string][]string{}
	}
	return doc, nil
}

func (a RegistryFileAdapter) write(doc registryDocument) error {
	dir := filepath.Dir(a.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create registry directory").
			WithCause(err)
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode registry file").
			WithCause(err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(a.Path)+".tmp-*")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create registry temp file").
			WithCause(err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write registry file").
			WithCause(err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to sync registry file").
			WithCause(err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to close registry file").
			WithCause(err)
	}
	if err := os.Rename(tmpPath, a.Path); err != nil {
		cleanup()
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to commit registry file").
			WithCause(err)
	}
	return nil
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

var _ ports.RegistryStorePort = RegistryFileAdapter{}
