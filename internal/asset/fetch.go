package asset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// IsURL reports whether p should be fetched over HTTP.
func IsURL(p string) bool {
	return strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
}

// openDocument returns the main document bytes and a filesystem that
// resolves the document's relative buffer and image references.
func (l *Loader) openDocument(ctx context.Context, p string) ([]byte, fs.FS, error) {
	if IsURL(p) {
		u, err := url.Parse(p)
		if err != nil {
			return nil, nil, fmt.Errorf("parse url: %w", err)
		}
		name := path.Base(u.Path)
		base := *u
		base.Path = path.Dir(u.Path)
		base.RawQuery = ""
		hfs := &httpFS{ctx: ctx, client: l.client, base: &base}
		data, err := hfs.ReadFile(name)
		if err != nil {
			return nil, nil, err
		}
		return data, hfs, nil
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return nil, nil, err
	}
	return data, os.DirFS(filepath.Dir(p)), nil
}

// httpFS is a read-only fs.FS over a base URL.
type httpFS struct {
	ctx    context.Context
	client *http.Client
	base   *url.URL
}

func (h *httpFS) Open(name string) (fs.File, error) {
	data, err := h.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return &memFile{Reader: bytes.NewReader(data), name: path.Base(name), size: int64(len(data))}, nil
}

func (h *httpFS) ReadFile(name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	ref, err := url.Parse(escapePath(name))
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	base := *h.base
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	target := base.ResolveReference(ref)

	req, err := http.NewRequestWithContext(h.ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target, err)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetch %s: HTTP %d", target, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target, err)
	}
	return data, nil
}

func escapePath(name string) string {
	parts := strings.Split(name, "/")
	for i, s := range parts {
		parts[i] = url.PathEscape(s)
	}
	return strings.Join(parts, "/")
}

type memFile struct {
	*bytes.Reader
	name string
	size int64
}

func (f *memFile) Stat() (fs.FileInfo, error) { return f, nil }
func (f *memFile) Close() error               { return nil }

func (f *memFile) Name() string       { return f.name }
func (f *memFile) Size() int64        { return f.size }
func (f *memFile) Mode() fs.FileMode  { return 0o444 }
func (f *memFile) ModTime() time.Time { return time.Time{} }
func (f *memFile) IsDir() bool        { return false }
func (f *memFile) Sys() any           { return nil }
