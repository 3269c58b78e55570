package lifecycle

import (
	"fmt"

	"vehicle-customizer/internal/camera"
	"vehicle-customizer/internal/catalog"
)

// State is the phase of the active selection.
type State int

const (
	Idle State = iota
	Loading
	Normalizing
	Classifying
	Ready
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Normalizing:
		return "normalizing"
	case Classifying:
		return "classifying"
	case Ready:
		return "ready"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Status is a point-in-time copy of the manager's observable state.
type Status struct {
	State State
	// Token identifies the most recent selection; zero before the first.
	Token    uint64
	Selected bool
	Vehicle  catalog.Descriptor
	Colors   ColorState

	PaintNodes int
	WheelNodes int
	// Splits counts materials cloned to keep regions apart.
	Splits int

	Pose camera.Pose
	// Err is the failure of the last load, cleared by the next selection.
	Err error
}
