package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/mioding/catalog-search/model"
)

// Catalog is the on-disk seed format. JSON and YAML files may also hold a bare product list.
type Catalog struct {
	Products []model.Product `json:"products" yaml:"products" toml:"products"`
}

// LoadCatalog reads a seed catalog, choosing the decoder by file extension
// (.json, .yaml, .yml, .toml).
func LoadCatalog(path string) ([]model.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var products []model.Product
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		products, err = decodeJSON(data)
	case ".yaml", ".yml":
		products, err = decodeYAML(data)
	case ".toml":
		var c Catalog
		err = toml.Unmarshal(data, &c)
		products = c.Products
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	if err := validateCatalog(products); err != nil {
		return nil, err
	}
	return products, nil
}

func decodeJSON(data []byte) ([]model.Product, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var products []model.Product
		err := json.Unmarshal(trimmed, &products)
		return products, err
	}
	var c Catalog
	err := json.Unmarshal(trimmed, &c)
	return c.Products, err
}

func decodeYAML(data []byte) ([]model.Product, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
		var products []model.Product
		err := node.Decode(&products)
		return products, err
	}
	var c Catalog
	err := node.Decode(&c)
	return c.Products, err
}

func validateCatalog(products []model.Product) error {
	seen := make(map[string]bool, len(products))
	for i, p := range products {
		if strings.TrimSpace(p.ID) == "" {
			return fmt.Errorf("product at position %d has no id", i)
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate product id %q", p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}
