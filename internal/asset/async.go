package asset

import (
	"context"
	"fmt"

	"vehicle-customizer/internal/scene"
)

// Source produces a fragment for an asset path. Load blocks; use Start for
// the asynchronous form.
type Source interface {
	Load(ctx context.Context, path string) (*scene.Fragment, error)
}

// Result is the completion signal of one load. Token identifies the
// selection the load was started for.
type Result struct {
	Token    uint64
	Path     string
	Fragment *scene.Fragment
	Err      error
}

// Start runs src.Load on its own goroutine and delivers exactly one Result on
// the returned channel, which is buffered so the loader never blocks on a
// consumer that has moved on.
func Start(ctx context.Context, src Source, path string, token uint64) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		res := Result{Token: token, Path: path}
		defer func() {
			if r := recover(); r != nil {
				res.Fragment = nil
				res.Err = &LoadError{Path: path, Err: fmt.Errorf("panic: %v", r)}
			}
			ch <- res
		}()
		res.Fragment, res.Err = src.Load(ctx, path)
	}()
	return ch
}
