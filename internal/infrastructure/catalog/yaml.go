// Package catalog loads canonical material catalogs from YAML files.
package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/boqmatch/backend/internal/domain"
)

// File is the on-disk catalog layout:
//
//	materials:
//	  - id: cement-ppc-325n
//	    name: PPC 32.5N Portland Cement
//	    category: cement
type File struct {
	Materials []domain.Material `yaml:"materials"`
}

// LoadFile reads a catalog from path, keeping file order.
func LoadFile(path string) ([]domain.Material, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrCatalogUnavailable, path, err)
	}
	materials, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return materials, nil
}

// Parse decodes catalog YAML and validates ids.
func Parse(data []byte) ([]domain.Material, error) {
	var file File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: decode catalog: %v", domain.ErrCatalogUnavailable, err)
	}

	seen := make(map[string]bool, len(file.Materials))
	for i, m := range file.Materials {
		id := strings.TrimSpace(m.ID)
		if id == "" {
			return nil, fmt.Errorf("%w: material %d (%q) has no id", domain.ErrInvalidRequest, i, m.Name)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate material id %q", domain.ErrInvalidRequest, id)
		}
		seen[id] = true
		file.Materials[i].ID = id
	}

	return file.Materials, nil
}

// Source is a domain.CatalogRepository backed by a YAML file.
type Source struct {
	path string
}

// NewSource creates a catalog source that reads path on every ListMaterials call
func NewSource(path string) *Source {
	return &Source{path: path}
}

// ListMaterials loads the file
func (s *Source) ListMaterials(ctx context.Context) ([]domain.Material, error) {
	return LoadFile(s.path)
}
