package recipe

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// FileStore keeps recipes as one JSON file per recipe id under a base
// directory. It backs offline runs and tests; the sqlite repository is
// the usual catalog source.
type FileStore struct {
	basePath string
}

// NewFileStore creates a FileStore and ensures the base directory exists.
func NewFileStore(basePath string) (*FileStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create recipe directory %s: %w", basePath, err)
	}
	return &FileStore{basePath: basePath}, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.basePath, id+".json")
}

// Save writes a recipe to its file.
func (s *FileStore) Save(rec Recipe) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal recipe: %w", err)
	}
	if err := os.WriteFile(s.path(rec.ID), data, 0644); err != nil {
		return fmt.Errorf("failed to write recipe file: %w", err)
	}
	return nil
}

// Load reads one recipe by id.
func (s *FileStore) Load(id string) (*Recipe, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe file: %w", err)
	}
	var rec Recipe
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe: %w", err)
	}
	return &rec, nil
}

// Exists reports whether a recipe file exists for the id.
func (s *FileStore) Exists(id string) bool {
	_, err := os.Stat(s.path(id))
	return !os.IsNotExist(err)
}

// LoadCatalog reads every recipe file into a catalog snapshot.
func (s *FileStore) LoadCatalog() (*Catalog, error) {
	matches, err := filepath.Glob(filepath.Join(s.basePath, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob recipe files: %w", err)
	}
	sort.Strings(matches)

	recipes := make([]Recipe, 0, len(matches))
	for _, match := range matches {
		data, err := os.ReadFile(match)
		if err != nil {
			return nil, fmt.Errorf("failed to read recipe file %s: %w", match, err)
		}
		var rec Recipe
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal recipe file %s: %w", match, err)
		}
		recipes = append(recipes, rec)
	}
	return NewCatalog(recipes), nil
}
