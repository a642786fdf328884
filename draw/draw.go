// Package draw is the AOI drawing state machine: an explicit state value
// plus pure transition functions. The renderer reads snapshots; it never
// shares or mutates the state. Callers serialize transitions themselves;
// drawing input arrives on one control flow.
package draw

import "github.com/avagus/change-detector/geo"

// Mode is the drawing session's state.
type Mode int

const (
	Idle Mode = iota
	Drawing
)

func (m Mode) String() string {
	if m == Drawing {
		return "drawing"
	}
	return "idle"
}

// minAOIPoints is the smallest draft that can commit as an AOI.
const minAOIPoints = 3

// State holds the draft being drawn and the last committed AOI. The zero
// value is an Idle session with nothing committed.
type State struct {
	Mode  Mode
	Draft []geo.Point
	AOI   []geo.Point
}

// Start enters Drawing with a fresh draft. Safe to call from any mode; the
// committed AOI is kept.
func Start(s State) State {
	s.Mode = Drawing
	s.Draft = nil
	return s
}

// AddPoint appends one point to the draft, in arrival order, without
// deduplication. Ignored outside Drawing.
func AddPoint(s State, p geo.Point) State {
	if s.Mode != Drawing {
		return s
	}
	draft := make([]geo.Point, len(s.Draft)+1)
	copy(draft, s.Draft)
	draft[len(draft)-1] = p
	s.Draft = draft
	return s
}

// CanFinish reports whether Finish would commit the draft. Callers should
// gate the finish action on this: a short draft still exits Drawing but
// commits nothing.
func (s State) CanFinish() bool {
	return s.Mode == Drawing && len(s.Draft) >= minAOIPoints
}

// Finish exits Drawing and clears the draft. When the draft had at least
// three points it becomes the committed AOI, copied so later transitions
// never alias it.
func Finish(s State) State {
	if s.CanFinish() {
		aoi := make([]geo.Point, len(s.Draft))
		copy(aoi, s.Draft)
		s.AOI = aoi
	}
	s.Mode = Idle
	s.Draft = nil
	return s
}

// Cancel discards the draft and exits Drawing. The committed AOI is
// untouched.
func Cancel(s State) State {
	s.Mode = Idle
	s.Draft = nil
	return s
}
