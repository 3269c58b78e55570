package lifecycle

import (
	"vehicle-customizer/internal/camera"
	"vehicle-customizer/internal/scene"
	"vehicle-customizer/internal/texture"
)

// View is what a surface draws: the live fragment seen from a pose.
// Fragment stays valid until the next Clear.
type View struct {
	Fragment *scene.Fragment
	Pose     camera.Pose
	Textures texture.Resolver
}

// Surface displays the live scene. Both methods are called from the
// manager's loop goroutine. Clear is always called before the fragment of the
// last presented view is disposed.
type Surface interface {
	Present(View)
	Clear()
}

type nopSurface struct{}

func (nopSurface) Present(View) {}
func (nopSurface) Clear()       {}
