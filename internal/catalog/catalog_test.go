package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.Equal(t, 10, c.Len())

	seen := map[int]bool{}
	for _, d := range c.All() {
		assert.False(t, seen[d.ID], "duplicate id %d", d.ID)
		seen[d.ID] = true
		assert.NotEmpty(t, d.AssetPath, d.Name)
		assert.NotEmpty(t, d.PaintPattern, d.Name)
		assert.NotEmpty(t, d.WheelPattern, d.Name)
	}

	def, ok := c.DefaultEntry()
	require.True(t, ok)
	assert.Equal(t, 1, def.ID)
	assert.Equal(t, "Volkswagen Gol GTi (2000)", def.Label())
}

func TestLookup(t *testing.T) {
	c := Default()
	onix, ok := c.Lookup(8)
	require.True(t, ok)
	assert.Equal(t, "primary", onix.PaintPattern)
	assert.Equal(t, []string{"wheel.1", "wheel.004", "wheel.005", "wheel.012", "wheel.013", "wheel.008", "wheel.009"}, onix.WheelNames())

	_, ok = c.Lookup(99)
	assert.False(t, ok)
}

func TestAll_ReturnsCopy(t *testing.T) {
	c := Default()
	all := c.All()
	all[0].Name = "changed"
	d, _ := c.Lookup(all[0].ID)
	assert.NotEqual(t, "changed", d.Name)
}

func TestNew_IgnoresDuplicates(t *testing.T) {
	c := New([]Descriptor{{ID: 1, Name: "a"}, {ID: 1, Name: "b"}})
	assert.Equal(t, 1, c.Len())
	d, _ := c.Lookup(1)
	assert.Equal(t, "a", d.Name)

	_, ok := New(nil).DefaultEntry()
	assert.False(t, ok)
}

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "vehicles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeCatalog(t, `
vehicles:
  - id: 3
    name: Ecosport
    year: "2015"
    asset: models/ecosport/scene.gltf
    paint: eco_Color2Mtl_0
    wheel: eco_Rim1Mtl_0
  - id: 7
    name: Remote
    asset: https://cdn.example.com/ka/scene.glb
    paint: Cor1Mtl
    wheel: Fl2Mtl
    default: true
`)
	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	eco, ok := c.Lookup(3)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "models/ecosport/scene.gltf"), eco.AssetPath)
	assert.Equal(t, "Ecosport (2015)", eco.Label())

	remote, _ := c.Lookup(7)
	assert.Equal(t, "https://cdn.example.com/ka/scene.glb", remote.AssetPath)

	def, _ := c.DefaultEntry()
	assert.Equal(t, 7, def.ID)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty", "vehicles: []\n", "lists no vehicles"},
		{"duplicate", "vehicles:\n  - {id: 1, asset: a.glb}\n  - {id: 1, asset: b.glb}\n", "duplicate vehicle id 1"},
		{"no asset", "vehicles:\n  - {id: 2, name: x}\n", "vehicle 2 has no asset"},
		{"bad yaml", "vehicles: [\n", "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeCatalog(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWithRoot(t *testing.T) {
	c := New([]Descriptor{
		{ID: 1, AssetPath: "models/a/scene.gltf"},
		{ID: 2, AssetPath: "https://cdn.example.com/b.glb"},
	})

	local := c.WithRoot("/srv/assets")
	a, _ := local.Lookup(1)
	assert.Equal(t, filepath.Join("/srv/assets", "models/a/scene.gltf"), a.AssetPath)

	remote := c.WithRoot("http://localhost:4200/assets/")
	a, _ = remote.Lookup(1)
	assert.Equal(t, "http://localhost:4200/assets/models/a/scene.gltf", a.AssetPath)
	b, _ := remote.Lookup(2)
	assert.Equal(t, "https://cdn.example.com/b.glb", b.AssetPath)

	assert.Equal(t, c, c.WithRoot(""))
}
