package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/HelloWaord1/longivity/pkg/types"
)

const seedYAML = `
- name: NMN
  description: NAD+ precursor
  mechanisms: [NAD+ synthesis]
  tags: [nad+, energy]
  evidence_grade: B
  dosage:
    standard: 250-500mg daily
- id: urolithin-a
  name: Urolithin A
`

func TestSeedProductsFromCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o644))

	products, err := ReadCatalog(path)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "B", products[0].EvidenceGrade)
	assert.Equal(t, "250-500mg daily", products[0].Dosage.Standard)

	ctx := context.Background()
	s := NewMemory()
	n, err := SeedProducts(ctx, s, products)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	loaded, err := LoadProducts(ctx, s, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "nmn", loaded[0].ID)
	assert.Equal(t, "urolithin-a", loaded[1].ID)
}

func TestSeedProductsRejectsAnonymous(t *testing.T) {
	_, err := SeedProducts(context.Background(), NewMemory(), []types.Product{{Description: "no name"}})
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestReadCatalogMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: [unclosed"), 0o644))
	_, err := ReadCatalog(path)
	assert.Error(t, err)
}
