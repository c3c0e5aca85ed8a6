// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/HelloWaord1/longivity/internal/textutil"
	"github.com/HelloWaord1/longivity/pkg/types"
)

// ReadCatalog decodes a YAML seed file holding a list of products.
func ReadCatalog(path string) ([]types.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	var products []types.Product
	if err := yaml.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	return products, nil
}

// SeedProducts writes products under the product kind. A product without
// an id is keyed by the slug of its name. Existing records are overwritten.
func SeedProducts(ctx context.Context, s Store, products []types.Product) (int, error) {
	n := 0
	for _, p := range products {
		if p.ID == "" {
			p.ID = textutil.Slugify(p.Name)
		}
		if p.ID == "" {
			return n, fmt.Errorf("%w: product has neither id nor name", ErrInvalidID)
		}
		if err := WriteJSON(ctx, s, KindProduct, p.ID, p); err != nil {
			return n, fmt.Errorf("seeding product %s: %w", p.ID, err)
		}
		n++
	}
	return n, nil
}
