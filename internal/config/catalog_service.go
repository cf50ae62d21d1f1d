package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"krishi-sahayak/backend/internal/features/config/domain"
)

// CatalogService loads the advisory catalog.
type CatalogService interface {
	LoadCatalog() (*domain.Catalog, error)
}

type catalogService struct {
	catalogPath string
}

// NewCatalogService creates a CatalogService. An empty path selects the built-in catalog.
func NewCatalogService(catalogPath string) CatalogService {
	return &catalogService{catalogPath: catalogPath}
}

// LoadCatalog reads and validates the catalog JSON file, or returns the built-in catalog.
func (s *catalogService) LoadCatalog() (*domain.Catalog, error) {
	if s.catalogPath == "" {
		return domain.DefaultCatalog(), nil
	}

	absPath, err := filepath.Abs(s.catalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for %s: %w", s.catalogPath, err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", absPath, err)
	}

	var catalog domain.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog from %s: %w", absPath, err)
	}

	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", absPath, err)
	}
	return &catalog, nil
}
