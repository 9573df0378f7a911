package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// packagesFile holds all mod packages in one document; the set is small and
// shared across profiles, so a single atomic file keeps it simple.
type packagesFile struct {
	Packages []ModPackage `json:"packages"`
}

func (s *Store) packagesPath() string {
	return filepath.Join(s.cfg.DataDir, "packages.json")
}

func (s *Store) loadPackages() (*packagesFile, error) {
	data, err := os.ReadFile(s.packagesPath())
	if err != nil {
		if os.IsNotExist(err) {
			return &packagesFile{}, nil
		}
		return nil, fmt.Errorf("read packages: %w", err)
	}
	var file packagesFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse packages: %w", err)
	}
	return &file, nil
}

func (s *Store) storePackages(file *packagesFile) error {
	sort.Slice(file.Packages, func(i, j int) bool {
		return file.Packages[i].Name < file.Packages[j].Name
	})
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encode packages: %w", err)
	}
	return writeFileAtomic(s.packagesPath(), append(data, '\n'))
}

// ListPackages returns all mod packages sorted by name.
func (s *Store) ListPackages() ([]ModPackage, error) {
	s.packagesMu.Lock()
	defer s.packagesMu.Unlock()

	file, err := s.loadPackages()
	if err != nil {
		return nil, err
	}
	return file.Packages, nil
}

// GetPackage returns one mod package by id.
func (s *Store) GetPackage(id string) (*ModPackage, error) {
	packages, err := s.ListPackages()
	if err != nil {
		return nil, err
	}
	for i := range packages {
		if packages[i].ID == id {
			return &packages[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrPackageNotFound, id)
}

// SavePackage creates or updates a mod package. A package without an id is
// assigned one.
func (s *Store) SavePackage(pkg ModPackage) (*ModPackage, error) {
	if strings.TrimSpace(pkg.Name) == "" {
		return nil, fmt.Errorf("package name is required")
	}

	s.packagesMu.Lock()
	defer s.packagesMu.Unlock()

	file, err := s.loadPackages()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	pkg.UpdatedAt = now

	if pkg.ID == "" {
		pkg.ID = uuid.NewString()
		pkg.CreatedAt = now
		file.Packages = append(file.Packages, pkg)
	} else {
		found := false
		for i := range file.Packages {
			if file.Packages[i].ID == pkg.ID {
				pkg.CreatedAt = file.Packages[i].CreatedAt
				file.Packages[i] = pkg
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrPackageNotFound, pkg.ID)
		}
	}

	if err := s.storePackages(file); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// DeletePackage removes a mod package. Profiles referencing it simply stop
// pulling its mods in.
func (s *Store) DeletePackage(id string) error {
	s.packagesMu.Lock()
	defer s.packagesMu.Unlock()

	file, err := s.loadPackages()
	if err != nil {
		return err
	}
	kept := file.Packages[:0]
	found := false
	for _, pkg := range file.Packages {
		if pkg.ID == id {
			found = true
			continue
		}
		kept = append(kept, pkg)
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrPackageNotFound, id)
	}
	file.Packages = kept
	return s.storePackages(file)
}

// CollectPackageModIDs returns the concatenated mod ids of the profile's
// optional packages followed by its optional mod ids, preserving order.
// Unknown package ids are skipped.
func (s *Store) CollectPackageModIDs(profile *Profile) ([]string, error) {
	packages, err := s.ListPackages()
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*ModPackage, len(packages))
	for i := range packages {
		byID[packages[i].ID] = &packages[i]
	}

	var ids []string
	for _, pkgID := range profile.OptionalPackageIDs {
		if pkg, ok := byID[pkgID]; ok {
			ids = append(ids, pkg.ModIDs...)
		}
	}
	ids = append(ids, profile.OptionalModIDs...)
	return ids, nil
}
