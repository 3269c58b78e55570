package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"vehicle-customizer/internal/mathutil"
)

func triangle(t *Tracker) *Geometry {
	return NewGeometry(t, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, []uint32{0, 1, 2})
}

func drawable(t *Tracker, name string, m *Material) *Node {
	n := NewNode(name)
	n.Geometry = triangle(t)
	n.Material = m
	return n
}

func TestFragment_RetainsEachMaterialOnce(t *testing.T) {
	tr := NewTracker()
	shared := NewMaterial(tr, "paint")
	root := NewNode("car")
	root.Add(drawable(tr, "door", shared))
	root.Add(drawable(tr, "hood", shared))

	f := NewFragment("car", root)
	assert.Equal(t, 1, shared.Refs())
	assert.Len(t, f.Drawables(), 2)
	assert.Len(t, f.Materials(), 1)

	f.Dispose()
	assert.True(t, shared.Disposed())
	assert.True(t, f.Disposed())
	assert.Zero(t, tr.Usage().LiveGeometries())
	assert.Zero(t, tr.Usage().LiveMaterials())
}

func TestFragment_DisposeIsIdempotent(t *testing.T) {
	tr := NewTracker()
	root := NewNode("car")
	root.Add(drawable(tr, "door", NewMaterial(tr, "paint")))
	f := NewFragment("car", root)

	var released []string
	f.HoldTexture("car.glb#image0")
	f.OnTextureRelease(func(key string) { released = append(released, key) })

	f.Dispose()
	f.Dispose()
	assert.Equal(t, []string{"car.glb#image0"}, released)
	u := tr.Usage()
	assert.EqualValues(t, 1, u.GeometriesDisposed)
	assert.EqualValues(t, 1, u.MaterialsDisposed)
}

func TestFragment_SharedMaterialSurvivesOtherHolder(t *testing.T) {
	tr := NewTracker()
	shared := NewMaterial(tr, "paint")

	rootA := NewNode("a")
	rootA.Add(drawable(tr, "door", shared))
	a := NewFragment("a", rootA)

	rootB := NewNode("b")
	rootB.Add(drawable(tr, "door", shared))
	b := NewFragment("b", rootB)
	require.Equal(t, 2, shared.Refs())

	a.Dispose()
	assert.False(t, shared.Disposed())
	b.Dispose()
	assert.True(t, shared.Disposed())
}

func TestFragment_ReplaceMaterial(t *testing.T) {
	tr := NewTracker()
	orig := NewMaterial(tr, "rim")
	root := NewNode("car")
	wheel := drawable(tr, "wheel.1", orig)
	door := drawable(tr, "door", orig)
	root.Add(wheel)
	root.Add(door)
	f := NewFragment("car", root)

	clone := orig.Clone()
	assert.Equal(t, "rim", clone.Name)
	assert.Zero(t, clone.Refs())

	f.ReplaceMaterial(wheel, clone)
	assert.Same(t, clone, wheel.Material)
	assert.Equal(t, 1, clone.Refs())
	assert.Equal(t, 1, orig.Refs(), "door still uses the original")
	assert.False(t, orig.Disposed())

	f.ReplaceMaterial(door, clone)
	assert.True(t, orig.Disposed())

	f.Dispose()
	assert.True(t, clone.Disposed())
	assert.Zero(t, tr.Usage().LiveMaterials())
}

func TestFragment_BoundsAndTranslate(t *testing.T) {
	tr := NewTracker()
	root := NewNode("car")
	child := drawable(tr, "door", NewMaterial(tr, "paint"))
	child.Local = mathutil.Translate(mathutil.Vec3{10, 0, 0})
	root.Add(child)
	f := NewFragment("car", root)

	box := f.Bounds()
	assert.Equal(t, mathutil.Vec3{10, 0, 0}, box.Min)
	assert.Equal(t, mathutil.Vec3{11, 1, 0}, box.Max)

	f.Translate(mathutil.Vec3{-10, 0, 0})
	box = f.Bounds()
	assert.Equal(t, mathutil.Vec3{0, 0, 0}, box.Min)
	assert.Equal(t, mathutil.Vec3{1, 1, 0}, box.Max)
	assert.Equal(t, mathutil.Vec3{0, 0, 0}, child.World().MulPoint(mathutil.Vec3{}))
}

func TestFragment_EmptyBounds(t *testing.T) {
	f := NewFragment("empty", NewNode("empty"))
	assert.True(t, f.Bounds().IsEmpty())
	assert.Empty(t, f.Drawables())
}

func TestMaterial_SetRGBKeepsAlpha(t *testing.T) {
	m := NewMaterial(nil, "glass")
	m.BaseColor[3] = 0.4
	m.SetRGB(0.1, 0.2, 0.3)
	assert.Equal(t, [4]float64{0.1, 0.2, 0.3, 0.4}, m.BaseColor)
}

func TestGeometry_Triangles(t *testing.T) {
	g := NewGeometry(nil, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}}, nil)
	assert.Equal(t, 1, g.TriangleCount())
	assert.Equal(t, [3]int{0, 1, 2}, g.Triangle(0))

	g.Indices = []uint32{0, 1, 2, 2, 1, 3}
	assert.Equal(t, 2, g.TriangleCount())
	assert.Equal(t, [3]int{2, 1, 3}, g.Triangle(1))

	g.Dispose()
	assert.True(t, g.Disposed())
	assert.Zero(t, g.TriangleCount())
}

func TestStage(t *testing.T) {
	var s Stage
	a := NewFragment("a", NewNode("a"))
	b := NewFragment("b", NewNode("b"))

	require.NoError(t, s.Attach(a))
	assert.ErrorIs(t, s.Attach(b), ErrStageOccupied)
	assert.Same(t, a, s.Current())

	assert.Same(t, a, s.Detach())
	assert.Nil(t, s.Current())
	assert.Nil(t, s.Detach())
	require.NoError(t, s.Attach(b))
}

func TestTracker_Observe(t *testing.T) {
	tr := NewTracker()
	require.NoError(t, tr.Observe(noop.NewMeterProvider().Meter("test")))

	var nilTracker *Tracker
	assert.Equal(t, Usage{}, nilTracker.Usage())
}
