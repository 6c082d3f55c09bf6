package persistence

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const snapshotExt = ".toml"

// ErrInvalidName is returned for snapshot names that would resolve outside the base directory
var ErrInvalidName = errors.New("invalid snapshot name")

// ValidateName rejects empty names, path separators and dot segments
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Manager stores named population snapshots as TOML files under one directory
type Manager struct {
	basePath string
}

// NewManager creates a manager with the given base directory
func NewManager(basePath string) *Manager {
	return &Manager{basePath: basePath}
}

// FilePath returns the snapshot file of name
func (m *Manager) FilePath(name string) string {
	return filepath.Join(m.basePath, name+snapshotExt)
}

// Exists reports whether a snapshot of name is stored, false for invalid names
func (m *Manager) Exists(name string) bool {
	if ValidateName(name) != nil {
		return false
	}
	_, err := os.Stat(m.FilePath(name))
	return err == nil
}

// Save encodes dto and replaces the snapshot of name
// The file is written to a temporary sibling and renamed, so a crash never leaves a partial snapshot
func (m *Manager) Save(name string, dto PopulationDTO) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	data, err := toml.Marshal(dto)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", name, err)
	}

	if err := os.MkdirAll(m.basePath, 0755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(m.basePath, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save snapshot %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save snapshot %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), m.FilePath(name)); err != nil {
		return fmt.Errorf("save snapshot %s: %w", name, err)
	}
	return nil
}

// Load decodes the snapshot of name
// A missing snapshot returns an error matching os.ErrNotExist
func (m *Manager) Load(name string) (PopulationDTO, error) {
	var dto PopulationDTO
	if err := ValidateName(name); err != nil {
		return dto, err
	}

	data, err := os.ReadFile(m.FilePath(name))
	if err != nil {
		return dto, err
	}

	if err := toml.Unmarshal(data, &dto); err != nil {
		return dto, fmt.Errorf("decode snapshot %s: %w", name, err)
	}

	return dto, nil
}

// List returns the names of stored snapshots, sorted
// A missing base directory holds no snapshots
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.basePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != snapshotExt {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), snapshotExt))
	}
	slices.Sort(names)
	return names, nil
}

// Remove deletes the snapshot of name, removing a missing snapshot is not an error
func (m *Manager) Remove(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	err := os.Remove(m.FilePath(name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove snapshot %s: %w", name, err)
	}
	return nil
}
