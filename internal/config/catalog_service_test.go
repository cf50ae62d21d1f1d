package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"krishi-sahayak/backend/internal/features/config/domain"
)

func TestLoadCatalog_EmptyPathUsesBuiltIn(t *testing.T) {
	catalog, err := NewCatalogService("").LoadCatalog()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCatalog(), catalog)
}

func TestLoadCatalog_ShippedFileMatchesBuiltIn(t *testing.T) {
	catalog, err := NewCatalogService(filepath.Join("..", "..", "config", "catalog.json")).LoadCatalog()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCatalog(), catalog)
}

func TestLoadCatalog_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"rules": [
			{"trigger": "दीमक", "diagnosis": "दीमक का हमला", "solution": "क्लोरपाइरीफॉस डालें", "product": "क्लोरपाइरीफॉस"},
			{"trigger": "पाला", "diagnosis": "पाले का असर", "solution": "हल्की सिंचाई करें"}
		],
		"prices": {
			"क्लोरपाइरीफॉस": [{"platform": "Amazon", "price": 320, "rating": 4.0, "delivery": "4 दिन"}]
		}
	}`), 0o644))

	catalog, err := NewCatalogService(path).LoadCatalog()
	require.NoError(t, err)
	require.Len(t, catalog.Rules, 2)
	assert.Equal(t, "दीमक", catalog.Rules[0].Trigger)
	assert.Equal(t, "", catalog.Rules[1].Product)
	assert.Equal(t, 320, catalog.Prices["क्लोरपाइरीफॉस"][0].Price)
}

func TestLoadCatalog_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewCatalogService(filepath.Join(dir, "missing.json")).LoadCatalog()
	assert.Error(t, err)

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{"rules": [`), 0o644))
	_, err = NewCatalogService(broken).LoadCatalog()
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{"rules": [{"trigger": "x", "product": "unknown"}]}`), 0o644))
	_, err = NewCatalogService(invalid).LoadCatalog()
	assert.ErrorIs(t, err, domain.ErrInvalidCatalog)
}
