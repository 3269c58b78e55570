package asset

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/qmuntal/gltf"
	"github.com/rs/zerolog"

	"vehicle-customizer/internal/scene"
	"vehicle-customizer/internal/texture"
)

// Config holds the shared resources a Loader fills.
type Config struct {
	Textures    *texture.Cache
	Tracker     *scene.Tracker
	HTTPTimeout time.Duration
	Log         zerolog.Logger
}

// Loader parses glTF 2.0 assets (.gltf with external or embedded buffers,
// .glb) from disk or HTTP into scene fragments.
type Loader struct {
	textures *texture.Cache
	tracker  *scene.Tracker
	client   *http.Client
	log      zerolog.Logger
}

var _ Source = (*Loader)(nil)

// NewLoader creates a loader. A nil texture cache gets a private one.
func NewLoader(cfg Config) *Loader {
	if cfg.Textures == nil {
		cfg.Textures = texture.NewCache()
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 60 * time.Second
	}
	return &Loader{
		textures: cfg.Textures,
		tracker:  cfg.Tracker,
		client:   &http.Client{Timeout: cfg.HTTPTimeout},
		log:      cfg.Log,
	}
}

// Textures returns the cache the loader acquires into.
func (l *Loader) Textures() *texture.Cache {
	return l.textures
}

// Load fetches and parses the asset at path. Errors are *LoadError. On
// failure every geometry, material and texture reference taken during the
// load is released again.
func (l *Loader) Load(ctx context.Context, path string) (frag *scene.Fragment, err error) {
	start := time.Now()

	b := &builder{loader: l, path: path}
	defer func() {
		if r := recover(); r != nil {
			frag, err = nil, fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			b.abort()
			err = &LoadError{Path: path, Err: err}
			l.log.Debug().Str("path", path).Err(err).Msg("asset load failed")
			return
		}
		l.log.Debug().
			Str("path", path).
			Int("drawables", len(frag.Drawables())).
			Int("textures", len(frag.Textures())).
			Dur("took", time.Since(start)).
			Msg("asset loaded")
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, fsys, err := l.openDocument(ctx, path)
	if err != nil {
		return nil, err
	}

	doc := new(gltf.Document)
	if err := gltf.NewDecoderFS(bytes.NewReader(data), fsys).Decode(doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.doc = doc
	b.fsys = fsys
	return b.build(ctx)
}
