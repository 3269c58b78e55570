package asset

import (
	"context"
	"fmt"
	"image"
	"io/fs"
	"net/url"
	"path"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"vehicle-customizer/internal/mathutil"
	"vehicle-customizer/internal/scene"
	"vehicle-customizer/internal/texture"
)

// maxNodeDepth bounds hierarchy recursion; malformed files may contain cycles.
const maxNodeDepth = 256

// builder converts one decoded document into a fragment and remembers every
// resource it allocated so a failed build can be undone.
type builder struct {
	loader *Loader
	path   string
	doc    *gltf.Document
	fsys   fs.FS

	geometries map[[2]int]*scene.Geometry // (mesh, primitive) → geometry
	materials  map[int]*scene.Material
	fallback   *scene.Material
	images     map[int]string // image index → texture key
	acquired   []string
	done       bool
}

func (b *builder) build(ctx context.Context) (*scene.Fragment, error) {
	doc := b.doc
	if len(doc.Scenes) == 0 {
		return nil, fmt.Errorf("document has no scenes")
	}
	sceneIdx := 0
	if doc.Scene != nil {
		sceneIdx = *doc.Scene
	}
	if sceneIdx < 0 || sceneIdx >= len(doc.Scenes) {
		return nil, fmt.Errorf("default scene %d out of range", sceneIdx)
	}

	b.geometries = make(map[[2]int]*scene.Geometry)
	b.materials = make(map[int]*scene.Material)
	b.images = make(map[int]string)

	gs := doc.Scenes[sceneIdx]
	root := scene.NewNode(gs.Name)
	for _, ni := range gs.Nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		child, err := b.node(ni, 0)
		if err != nil {
			return nil, err
		}
		root.Add(child)
	}

	frag := scene.NewFragment(path.Base(b.path), root)
	for _, key := range b.acquired {
		frag.HoldTexture(key)
	}
	frag.OnTextureRelease(b.loader.textures.Release)
	b.done = true
	return frag, nil
}

func (b *builder) node(idx, depth int) (*scene.Node, error) {
	if depth > maxNodeDepth {
		return nil, fmt.Errorf("node hierarchy deeper than %d", maxNodeDepth)
	}
	if idx < 0 || idx >= len(b.doc.Nodes) {
		return nil, fmt.Errorf("node %d out of range", idx)
	}
	gn := b.doc.Nodes[idx]

	n := scene.NewNode(gn.Name)
	n.Local = localTransform(gn)

	if gn.Mesh != nil {
		if err := b.mesh(n, *gn.Mesh); err != nil {
			return nil, fmt.Errorf("node %q: %w", gn.Name, err)
		}
	}

	for _, ci := range gn.Children {
		child, err := b.node(ci, depth+1)
		if err != nil {
			return nil, err
		}
		n.Add(child)
	}
	return n, nil
}

// mesh attaches a mesh's triangle primitives to n. A single primitive is
// drawn by n itself; several become children named "<mesh>_<i>".
func (b *builder) mesh(n *scene.Node, meshIdx int) error {
	if meshIdx < 0 || meshIdx >= len(b.doc.Meshes) {
		return fmt.Errorf("mesh %d out of range", meshIdx)
	}
	gm := b.doc.Meshes[meshIdx]

	meshName := gm.Name
	if meshName == "" {
		meshName = fmt.Sprintf("mesh_%d", meshIdx)
	}

	var targets []int
	for pi, p := range gm.Primitives {
		if p.Mode != gltf.PrimitiveTriangles {
			continue
		}
		if _, ok := p.Attributes[gltf.POSITION]; !ok {
			continue
		}
		targets = append(targets, pi)
	}

	for _, pi := range targets {
		geom, err := b.geometry(meshIdx, pi)
		if err != nil {
			return fmt.Errorf("mesh %q primitive %d: %w", meshName, pi, err)
		}
		mat, err := b.material(gm.Primitives[pi].Material)
		if err != nil {
			return fmt.Errorf("mesh %q primitive %d: %w", meshName, pi, err)
		}

		target := n
		if len(targets) > 1 {
			target = scene.NewNode(fmt.Sprintf("%s_%d", meshName, pi))
			n.Add(target)
		} else if n.Name == "" {
			n.Name = meshName
		}
		target.Geometry = geom
		target.Material = mat
	}
	return nil
}

func (b *builder) geometry(meshIdx, primIdx int) (*scene.Geometry, error) {
	key := [2]int{meshIdx, primIdx}
	if g, ok := b.geometries[key]; ok {
		return g, nil
	}
	doc := b.doc
	p := doc.Meshes[meshIdx].Primitives[primIdx]

	posAcr, err := b.accessor(p.Attributes[gltf.POSITION])
	if err != nil {
		return nil, err
	}
	positions, err := modeler.ReadPosition(doc, posAcr, nil)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}

	var indices []uint32
	if p.Indices != nil {
		idxAcr, err := b.accessor(*p.Indices)
		if err != nil {
			return nil, err
		}
		indices, err = modeler.ReadIndices(doc, idxAcr, nil)
		if err != nil {
			return nil, fmt.Errorf("read indices: %w", err)
		}
		for _, i := range indices {
			if int(i) >= len(positions) {
				return nil, fmt.Errorf("index %d exceeds %d vertices", i, len(positions))
			}
		}
	}

	g := scene.NewGeometry(b.loader.tracker, positions, indices)
	b.geometries[key] = g

	if ni, ok := p.Attributes[gltf.NORMAL]; ok {
		if acr, err := b.accessor(ni); err == nil {
			if normals, err := modeler.ReadNormal(doc, acr, nil); err == nil && len(normals) == len(positions) {
				g.Normals = normals
			}
		}
	}
	if ti, ok := p.Attributes[gltf.TEXCOORD_0]; ok {
		if acr, err := b.accessor(ti); err == nil {
			if uvs, err := modeler.ReadTextureCoord(doc, acr, nil); err == nil && len(uvs) == len(positions) {
				g.UVs = uvs
			}
		}
	}
	return g, nil
}

func (b *builder) accessor(idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(b.doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	return b.doc.Accessors[idx], nil
}

// material returns the fragment-local material for a glTF material index.
// Primitives without one share an unnamed default material.
func (b *builder) material(idx *int) (*scene.Material, error) {
	if idx == nil {
		if b.fallback == nil {
			b.fallback = scene.NewMaterial(b.loader.tracker, "")
		}
		return b.fallback, nil
	}
	if m, ok := b.materials[*idx]; ok {
		return m, nil
	}
	if *idx < 0 || *idx >= len(b.doc.Materials) {
		return nil, fmt.Errorf("material %d out of range", *idx)
	}
	gm := b.doc.Materials[*idx]

	m := scene.NewMaterial(b.loader.tracker, gm.Name)
	b.materials[*idx] = m

	if pbr := gm.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorFactor != nil {
			m.BaseColor = *pbr.BaseColorFactor
		}
		if pbr.BaseColorTexture != nil {
			key, err := b.texture(pbr.BaseColorTexture.Index)
			if err != nil {
				// A missing texture leaves the surface untextured, as viewers do.
				b.loader.log.Warn().Str("path", b.path).Str("material", gm.Name).Err(err).Msg("base color texture skipped")
			} else {
				m.Texture = key
			}
		}
	}
	return m, nil
}

func (b *builder) texture(texIdx int) (string, error) {
	doc := b.doc
	if texIdx < 0 || texIdx >= len(doc.Textures) || doc.Textures[texIdx].Source == nil {
		return "", fmt.Errorf("texture %d has no image", texIdx)
	}
	imgIdx := *doc.Textures[texIdx].Source
	if key, ok := b.images[imgIdx]; ok {
		return key, nil
	}
	if imgIdx < 0 || imgIdx >= len(doc.Images) {
		return "", fmt.Errorf("image %d out of range", imgIdx)
	}

	key := fmt.Sprintf("%s#image%d", b.path, imgIdx)
	_, err := b.loader.textures.Acquire(key, func() (*image.NRGBA, error) {
		data, err := b.imageData(doc.Images[imgIdx])
		if err != nil {
			return nil, err
		}
		return texture.Decode(data)
	})
	if err != nil {
		return "", err
	}
	b.images[imgIdx] = key
	b.acquired = append(b.acquired, key)
	return key, nil
}

func (b *builder) imageData(img *gltf.Image) ([]byte, error) {
	switch {
	case img.BufferView != nil:
		if *img.BufferView < 0 || *img.BufferView >= len(b.doc.BufferViews) {
			return nil, fmt.Errorf("image buffer view %d out of range", *img.BufferView)
		}
		return modeler.ReadBufferView(b.doc, b.doc.BufferViews[*img.BufferView])
	case img.IsEmbeddedResource():
		return img.MarshalData()
	case img.URI != "":
		name, err := url.PathUnescape(img.URI)
		if err != nil {
			return nil, fmt.Errorf("image uri %q: %w", img.URI, err)
		}
		return fs.ReadFile(b.fsys, path.Clean(name))
	}
	return nil, fmt.Errorf("image has no data")
}

// abort releases everything a failed build allocated.
func (b *builder) abort() {
	if b.done {
		return
	}
	for _, g := range b.geometries {
		g.Dispose()
	}
	for _, m := range b.materials {
		m.Release()
	}
	if b.fallback != nil {
		b.fallback.Release()
	}
	for _, key := range b.acquired {
		b.loader.textures.Release(key)
	}
	b.acquired = nil
}

func localTransform(n *gltf.Node) mathutil.Mat4 {
	if m := n.MatrixOrDefault(); m != gltf.DefaultMatrix {
		return mathutil.FromColumnMajor(m)
	}
	t := n.TranslationOrDefault()
	r := n.RotationOrDefault()
	s := n.ScaleOrDefault()
	return mathutil.FromTRS(mathutil.Vec3(t), mathutil.Quat(r), mathutil.Vec3(s))
}
