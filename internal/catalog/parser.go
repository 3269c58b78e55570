package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// catalogFile matches the YAML schema of a catalog file.
type catalogFile struct {
	Vehicles []Descriptor `yaml:"vehicles"`
}

// Load reads a YAML catalog. Relative asset paths resolve against the
// file's directory; URLs are kept as-is.
func Load(path string) (Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("catalog: read %s: %w", path, err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Catalog{}, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	if len(file.Vehicles) == 0 {
		return Catalog{}, fmt.Errorf("catalog: %s lists no vehicles", path)
	}

	dir := filepath.Dir(path)
	seen := make(map[int]bool, len(file.Vehicles))
	for i := range file.Vehicles {
		d := &file.Vehicles[i]
		if seen[d.ID] {
			return Catalog{}, fmt.Errorf("catalog: %s: duplicate vehicle id %d", path, d.ID)
		}
		seen[d.ID] = true
		if d.AssetPath == "" {
			return Catalog{}, fmt.Errorf("catalog: %s: vehicle %d has no asset", path, d.ID)
		}
		if !isURL(d.AssetPath) && !filepath.IsAbs(d.AssetPath) {
			d.AssetPath = filepath.Join(dir, d.AssetPath)
		}
	}

	return New(file.Vehicles), nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// WithRoot returns a copy whose relative asset paths are joined to root.
// Root may itself be a URL.
func (c Catalog) WithRoot(root string) Catalog {
	if root == "" {
		return c
	}
	entries := c.All()
	for i := range entries {
		p := entries[i].AssetPath
		switch {
		case isURL(p), filepath.IsAbs(p):
		case isURL(root):
			entries[i].AssetPath = strings.TrimSuffix(root, "/") + "/" + strings.TrimPrefix(filepath.ToSlash(p), "/")
		default:
			entries[i].AssetPath = filepath.Join(root, p)
		}
	}
	return New(entries)
}
