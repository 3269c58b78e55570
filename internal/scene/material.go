package scene

// Material is a base-color surface description. A material may be shared by
// several nodes and, through Retain, by several fragments; it is disposed when
// the last holder releases it.
type Material struct {
	Name string
	// BaseColor is linear RGBA, multiplied with the texture when present.
	BaseColor [4]float64
	// Texture is a texture cache key; empty when untextured.
	Texture string

	tracker  *Tracker
	refs     int
	disposed bool
}

// NewMaterial registers a white, untextured material with the tracker.
func NewMaterial(t *Tracker, name string) *Material {
	t.materialAllocated()
	return &Material{
		Name:      name,
		BaseColor: [4]float64{1, 1, 1, 1},
		tracker:   t,
	}
}

// Clone returns an unheld copy with the same name, color and texture.
func (m *Material) Clone() *Material {
	c := NewMaterial(m.tracker, m.Name)
	c.BaseColor = m.BaseColor
	c.Texture = m.Texture
	return c
}

// SetRGB replaces the color channels and keeps alpha.
func (m *Material) SetRGB(r, g, b float64) {
	m.BaseColor[0], m.BaseColor[1], m.BaseColor[2] = r, g, b
}

// Retain adds a holder.
func (m *Material) Retain() {
	m.refs++
}

// Release drops a holder and disposes the material when none remain.
// Returns true if this call disposed it.
func (m *Material) Release() bool {
	if m.disposed {
		return false
	}
	if m.refs > 0 {
		m.refs--
	}
	if m.refs > 0 {
		return false
	}
	m.disposed = true
	m.tracker.materialDisposed()
	return true
}

// Refs returns the number of current holders.
func (m *Material) Refs() int {
	return m.refs
}

// Disposed reports whether the material has been released by its last holder.
func (m *Material) Disposed() bool {
	return m.disposed
}
