package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCatalog(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "json list",
			file:    "catalog.json",
			content: `[{"id":"1","name":"PVC管","brand":"联塑","price":"12.50"},{"id":"2","name":"弯头"}]`,
		},
		{
			name:    "json object",
			file:    "catalog.json",
			content: `{"products":[{"id":"1","name":"PVC管","brand":"联塑","price":"12.50"},{"id":"2","name":"弯头"}]}`,
		},
		{
			name: "yaml list",
			file: "catalog.yaml",
			content: `
- id: "1"
  name: PVC管
  brand: 联塑
  price: "12.50"
- id: "2"
  name: 弯头
`,
		},
		{
			name: "yaml object",
			file: "catalog.yml",
			content: `
products:
  - id: "1"
    name: PVC管
    brand: 联塑
    price: "12.50"
  - id: "2"
    name: 弯头
`,
		},
		{
			name: "toml",
			file: "catalog.toml",
			content: `
[[products]]
id = "1"
name = "PVC管"
brand = "联塑"
price = "12.50"

[[products]]
id = "2"
name = "弯头"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := LoadCatalog(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)
			require.Len(t, products, 2)

			assert.Equal(t, "1", products[0].ID)
			assert.Equal(t, "PVC管", products[0].Name)
			assert.Equal(t, "联塑", products[0].Brand)
			require.NotNil(t, products[0].Price)
			assert.Equal(t, "12.50", *products[0].Price)
			assert.Nil(t, products[1].Price)
		})
	}
}

func TestLoadCatalogErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unsupported extension", "catalog.csv", "id,name"},
		{"malformed json", "catalog.json", `[{"id":`},
		{"missing id", "catalog.json", `[{"name":"x"}]`},
		{"duplicate id", "catalog.json", `[{"id":"1"},{"id":"1"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCatalog(writeFile(t, tt.file, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := LoadCatalog(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
