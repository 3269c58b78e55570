package targeting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicle-customizer/internal/catalog"
	"vehicle-customizer/internal/scene"
	"vehicle-customizer/internal/scene/scenetest"
)

func TestMatchPaint(t *testing.T) {
	tests := []struct {
		node, material, pattern string
		want                    bool
	}{
		{"Object_19", "", "Object_19", true},
		{"door", "Car_Paint.004", "Car_Paint.004", true},
		{"door", "Car_Paint.004_glossy", "Car_Paint.004", true},
		{"door", "car_paint.004", "Car_Paint.004", false}, // case-sensitive
		{"Object_19_child", "glass", "Object_19", false},  // node name is exact
		{"door", "Car_Paint", "Car_Paint.004", false},     // no reverse rule for paint
		{"door", "primary", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchPaint(tt.node, tt.material, tt.pattern), "%q/%q vs %q", tt.node, tt.material, tt.pattern)
	}
}

func TestMatchWheel(t *testing.T) {
	const onix = "wheel.1 wheel.004 wheel.005"
	tests := []struct {
		node, material, pattern string
		want                    bool
	}{
		{"Object_8", "", "Object_8", true},
		{"rim", "rims_paint", "rims_paint", true},
		{"rim", "wheel.004", onix, true},     // material listed in pattern
		{"wheel.005", "rubber", onix, false}, // node names in a list are not matched one by one
		{"rim", "wheel.00", onix, true},      // substring of the pattern
		{"rim", "", onix, false},             // empty material never matches in reverse
		{"hubcap", "", onix, false},
		{"wheel", "tyre", onix, false},
		{"wheel.1", "wheel.1", "", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchWheel(tt.node, tt.material, tt.pattern), "%q/%q vs %q", tt.node, tt.material, tt.pattern)
	}
}

func TestMatch_BothRegions(t *testing.T) {
	d := catalog.Descriptor{PaintPattern: "shared", WheelPattern: "shared"}
	s := Match("x", "shared", d)
	assert.True(t, s.Has(Paint))
	assert.True(t, s.Has(Wheel))
	assert.Equal(t, "paint+wheel", s.String())
	assert.Equal(t, "other", Regions(0).String())
}

func TestParseRegion(t *testing.T) {
	r, err := ParseRegion("Paint")
	require.NoError(t, err)
	assert.Equal(t, Paint, r)
	r, err = ParseRegion("wheels")
	require.NoError(t, err)
	assert.Equal(t, Wheel, r)
	_, err = ParseRegion("glass")
	assert.Error(t, err)
	assert.Equal(t, "wheel", Wheel.String())
}

func TestClassify_Scenario(t *testing.T) {
	d := catalog.Descriptor{PaintPattern: "primary", WheelPattern: "wheel.1 wheel.004"}
	f := scenetest.Build(scene.NewTracker(), "onix",
		scenetest.Unit("wheel.1", "wheel.1"),
		scenetest.Unit("wheel.004", "wheel.004"),
		scenetest.Unit("door_primary", "door_primary"),
		scenetest.Unit("glass", "glass"),
	)
	defer f.Dispose()

	c := Classify(f, d)
	assert.Equal(t, []string{"door_primary"}, c.Names(Paint))
	assert.Equal(t, []string{"wheel.1", "wheel.004"}, c.Names(Wheel))
	require.Len(t, c.Other, 1)
	assert.Equal(t, "glass", c.Other[0].Name)
}

func TestClassify_ListedNodeWithUnrelatedMaterialIsOther(t *testing.T) {
	d := catalog.Descriptor{PaintPattern: "primary", WheelPattern: "wheel.1 wheel.004 wheel.005"}
	f := scenetest.Build(scene.NewTracker(), "onix",
		scenetest.Unit("wheel.1", "wheel.1"),
		scenetest.Unit("wheel.005", "rubber"),
		scenetest.Unit("door_primary", "primary"),
	)
	defer f.Dispose()

	c := Classify(f, d)
	assert.Equal(t, []string{"door_primary"}, c.Names(Paint))
	assert.Equal(t, []string{"wheel.1"}, c.Names(Wheel))
	require.Len(t, c.Other, 1)
	assert.Equal(t, "wheel.005", c.Other[0].Name)
}

func TestClassify_EveryCatalogEntryFindsItsTargets(t *testing.T) {
	for _, d := range catalog.Default().All() {
		t.Run(d.Name, func(t *testing.T) {
			parts := []scenetest.Part{scenetest.Unit(d.PaintPattern, d.PaintPattern)}
			for _, w := range d.WheelNames() {
				parts = append(parts, scenetest.Unit(w, w))
			}
			parts = append(parts, scenetest.Unit("interior", "seat_fabric"))
			f := scenetest.Build(scene.NewTracker(), d.Name, parts...)
			defer f.Dispose()

			c := Classify(f, d)
			assert.NotEmpty(t, c.Paint)
			assert.Len(t, c.Wheel, len(d.WheelNames()))
			for _, n := range c.Other {
				assert.Equal(t, "interior", n.Name)
			}
		})
	}
}

func TestClassify_Empty(t *testing.T) {
	f := scene.NewFragment("empty", scene.NewNode("empty"))
	c := Classify(f, catalog.Descriptor{PaintPattern: "primary"})
	assert.Empty(t, c.Paint)
	assert.Empty(t, c.Wheel)
	assert.Empty(t, c.Other)

	var nilCls *Classification
	assert.Nil(t, nilCls.Nodes(Paint))
}

func TestIsolate_SplitsSharedMaterial(t *testing.T) {
	tr := scene.NewTracker()
	d := catalog.Descriptor{PaintPattern: "door", WheelPattern: "wheel.1"}
	f := scenetest.Build(tr, "car",
		scenetest.Unit("door", "chrome"),
		scenetest.Unit("wheel.1", "chrome"),
		scenetest.Unit("mirror", "chrome"),
		scenetest.Unit("hood", "paint"),
	)
	c := Classify(f, d)
	splits := Isolate(f, c)

	require.Len(t, splits, 1)
	assert.Equal(t, "chrome", splits[0].Material)
	assert.Equal(t, []Regions{InPaint, InWheel, 0}, splits[0].Regions)

	door, wheel, mirror := c.Paint[0], c.Wheel[0], c.Other[0]
	assert.NotSame(t, door.Material, wheel.Material)
	assert.NotSame(t, door.Material, mirror.Material)
	assert.NotSame(t, wheel.Material, mirror.Material)
	assert.Equal(t, "chrome", wheel.Material.Name)

	// Recoloring the wheel leaves the door and mirror untouched.
	before := door.Material.BaseColor
	wheel.Material.SetRGB(0, 0, 0)
	assert.Equal(t, before, door.Material.BaseColor)
	assert.Equal(t, before, mirror.Material.BaseColor)

	assert.Len(t, f.Materials(), 4)
	f.Dispose()
	assert.Zero(t, tr.Usage().LiveMaterials())
}

func TestIsolate_NoSplitWithinOneRegion(t *testing.T) {
	d := catalog.Descriptor{PaintPattern: "paint", WheelPattern: "rim"}
	f := scenetest.Build(scene.NewTracker(), "car",
		scenetest.Unit("door", "paint"),
		scenetest.Unit("hood", "paint"),
	)
	defer f.Dispose()
	c := Classify(f, d)
	assert.Empty(t, Isolate(f, c))
	assert.Same(t, c.Paint[0].Material, c.Paint[1].Material)
}
