package catalog

// Catalog is an ordered, immutable set of descriptors.
type Catalog struct {
	entries []Descriptor
	byID    map[int]int
}

// New indexes entries. Later duplicates of an id are ignored; use Load for
// validated input.
func New(entries []Descriptor) Catalog {
	c := Catalog{
		entries: make([]Descriptor, 0, len(entries)),
		byID:    make(map[int]int, len(entries)),
	}
	for _, d := range entries {
		if _, dup := c.byID[d.ID]; dup {
			continue
		}
		c.byID[d.ID] = len(c.entries)
		c.entries = append(c.entries, d)
	}
	return c
}

// Lookup returns the descriptor with the given id.
func (c Catalog) Lookup(id int) (Descriptor, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Descriptor{}, false
	}
	return c.entries[i], true
}

// All returns a copy of the descriptors in catalog order.
func (c Catalog) All() []Descriptor {
	out := make([]Descriptor, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of descriptors.
func (c Catalog) Len() int {
	return len(c.entries)
}

// DefaultEntry returns the entry flagged default, else the first one.
func (c Catalog) DefaultEntry() (Descriptor, bool) {
	for _, d := range c.entries {
		if d.Default {
			return d, true
		}
	}
	if len(c.entries) == 0 {
		return Descriptor{}, false
	}
	return c.entries[0], true
}

// Default returns the built-in vehicle set. Asset paths are relative to the
// configured asset root.
func Default() Catalog {
	return New([]Descriptor{
		{ID: 1, Name: "Volkswagen Gol GTi", Year: "2000", AssetPath: "models/gol_2000/scene.gltf", WheelPattern: "Object_8", PaintPattern: "Object_19", Default: true},
		{ID: 2, Name: "Fusca", Year: "1963", AssetPath: "models/fusca_1963/scene.gltf", WheelPattern: "Object_5", PaintPattern: "Object_6"},
		{ID: 3, Name: "Ecosport", Year: "2015", AssetPath: "models/ecosport_2015/scene.gltf", WheelPattern: "eco_Rim1Mtl_0", PaintPattern: "eco_Color2Mtl_0"},
		{ID: 4, Name: "Civic", Year: "2008", AssetPath: "models/civic_2008/scene.gltf", WheelPattern: "Material3_2", PaintPattern: "Material3_11"},
		{ID: 5, Name: "Amarok", Year: "2009", AssetPath: "models/amarok_2009/scene.gltf", WheelPattern: "Object_37", PaintPattern: "Object_23"},
		{ID: 6, Name: "Fusion", Year: "2015", AssetPath: "models/fusion_2015/scene.gltf", WheelPattern: "rims_paint", PaintPattern: "Car_Paint.004"},
		{ID: 7, Name: "Ford Ka", Year: "2015", AssetPath: "models/Ka_2015/scene.gltf", WheelPattern: "Fl2Mtl", PaintPattern: "Cor1Mtl"},
		{ID: 8, Name: "Onix", Year: "2018", AssetPath: "models/onix_2018/scene.gltf", WheelPattern: "wheel.1 wheel.004 wheel.005 wheel.012 wheel.013 wheel.008 wheel.009", PaintPattern: "primary"},
		{ID: 9, Name: "Toro", Year: "2020", AssetPath: "models/toro_2020/scene.gltf", WheelPattern: "Material_25", PaintPattern: "Material_17"},
		{ID: 10, Name: "Twister", Year: "2020", AssetPath: "models/twister_2020/scene.gltf", WheelPattern: "MATERIAL_TANQUE", PaintPattern: "cor_moto.002_Vermelha"},
	})
}
