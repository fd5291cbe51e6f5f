package core

import (
	"context"
	"errors"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"sideload-watch/internal/types"
)

type testPackage struct {
	installer   *string
	label       string
	system      bool
	installErr  error
	labelErr    error
	installHits int
}

type testMetadata struct {
	packages map[string]*testPackage
	listErr  error
}

func newTestMetadata() *testMetadata {
	return &testMetadata{packages: map[string]*testPackage{}}
}

func (m *testMetadata) with(id string, pkg testPackage) *testMetadata {
	m.packages[id] = &pkg
	return m
}

func (m *testMetadata) InstallSource(_ context.Context, packageID string) (types.InstallSource, error) {
	pkg, ok := m.packages[packageID]
	if !ok {
		return types.InstallSource{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("package not installed")
	}
	pkg.installHits++
	if pkg.installErr != nil {
		return types.InstallSource{}, pkg.installErr
	}
	return types.InstallSource{PackageID: packageID, Installer: pkg.installer}, nil
}

func (m *testMetadata) Label(_ context.Context, packageID string) (string, error) {
	pkg, ok := m.packages[packageID]
	if !ok {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("package not installed")
	}
	if pkg.labelErr != nil {
		return "", pkg.labelErr
	}
	return pkg.label, nil
}

func (m *testMetadata) ListInstalled(_ context.Context) ([]types.InstalledPackage, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	ids := make([]string, 0, len(m.packages))
	for id := range m.packages {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	installed := make([]types.InstalledPackage, 0, len(ids))
	for _, id := range ids {
		pkg := m.packages[id]
		installed = append(installed, types.InstalledPackage{
			PackageID: id,
			Label:     pkg.label,
			Installer: pkg.installer,
			System:    pkg.system,
		})
	}
	return installed, nil
}

type testStore struct {
	sets      map[string][]string
	loadErr   error
	saveErr   error
	removeErr error
	saves     int
}

func newTestStore() *testStore {
	return &testStore{sets: map[string][]string{}}
}

func (s *testStore) LoadSet(_ context.Context, key string) ([]string, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return append([]string(nil), s.sets[key]...), nil
}

func (s *testStore) SaveSet(_ context.Context, key string, values []string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.sets[key] = append([]string(nil), values...)
	return nil
}

func (s *testStore) RemoveSet(_ context.Context, key string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	delete(s.sets, key)
	return nil
}

var errDiskFull = errors.New("disk full")

func strPtr(value string) *string {
	return &value
}
