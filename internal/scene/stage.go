package scene

import "errors"

// ErrStageOccupied is returned when attaching while a fragment is live.
var ErrStageOccupied = errors.New("scene: stage already holds a fragment")

// Stage is the live scene. It holds at most one fragment.
type Stage struct {
	current *Fragment
}

// Attach makes f the live fragment.
func (s *Stage) Attach(f *Fragment) error {
	if s.current != nil {
		return ErrStageOccupied
	}
	s.current = f
	return nil
}

// Detach removes and returns the live fragment, or nil.
func (s *Stage) Detach() *Fragment {
	f := s.current
	s.current = nil
	return f
}

// Current returns the live fragment, or nil.
func (s *Stage) Current() *Fragment {
	return s.current
}
