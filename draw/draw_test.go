package draw

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avagus/change-detector/geo"
)

var (
	p1 = geo.Point{Lat: 34.05, Lon: -118.25}
	p2 = geo.Point{Lat: 34.06, Lon: -118.25}
	p3 = geo.Point{Lat: 34.06, Lon: -118.24}
)

func TestZeroValueIsIdle(t *testing.T) {
	var s State
	assert.Equal(t, Idle, s.Mode)
	assert.Empty(t, s.Draft)
	assert.Empty(t, s.AOI)
}

func TestFinishWithShortDraftCommitsNothing(t *testing.T) {
	s := Start(State{})
	s = AddPoint(s, p1)
	s = AddPoint(s, p2)
	assert.False(t, s.CanFinish())

	s = Finish(s)
	assert.Equal(t, Idle, s.Mode)
	assert.Empty(t, s.Draft)
	assert.Empty(t, s.AOI, "a 2-point draft must not become the AOI")
}

func TestFinishCommitsDraft(t *testing.T) {
	s := Start(State{})
	for _, p := range []geo.Point{p1, p2, p3} {
		s = AddPoint(s, p)
	}
	assert.True(t, s.CanFinish())

	s = Finish(s)
	assert.Equal(t, Idle, s.Mode)
	assert.Empty(t, s.Draft)
	assert.Equal(t, []geo.Point{p1, p2, p3}, s.AOI)
}

func TestCancelDiscardsDraftKeepsAOI(t *testing.T) {
	s := Start(State{})
	for _, p := range []geo.Point{p1, p2, p3} {
		s = AddPoint(s, p)
	}
	s = Finish(s)

	s = Start(s)
	s = AddPoint(s, geo.Point{Lat: 1, Lon: 1})
	s = Cancel(s)
	assert.Equal(t, Idle, s.Mode)
	assert.Empty(t, s.Draft)
	assert.Equal(t, []geo.Point{p1, p2, p3}, s.AOI)
}

func TestAddPointWhileIdleIsIgnored(t *testing.T) {
	var s State
	s = AddPoint(s, p1)
	assert.Empty(t, s.Draft)

	s = Cancel(Start(s))
	s = AddPoint(s, p1)
	assert.Empty(t, s.Draft)
}

func TestStartClearsDraftKeepsAOI(t *testing.T) {
	s := Start(State{})
	for _, p := range []geo.Point{p1, p2, p3} {
		s = AddPoint(s, p)
	}
	s = Finish(s)

	s = Start(s)
	s = AddPoint(s, geo.Point{Lat: 9, Lon: 9})
	s = Start(s) // restart mid-draw
	assert.Equal(t, Drawing, s.Mode)
	assert.Empty(t, s.Draft)
	assert.Equal(t, []geo.Point{p1, p2, p3}, s.AOI)
}

func TestCommittedAOIDecoupledFromLaterDrafts(t *testing.T) {
	s := Start(State{})
	for _, p := range []geo.Point{p1, p2, p3} {
		s = AddPoint(s, p)
	}
	s = Finish(s)
	committed := s.AOI

	s = Start(s)
	for i := 0; i < 4; i++ {
		s = AddPoint(s, geo.Point{Lat: float64(i), Lon: float64(i)})
	}
	assert.Equal(t, []geo.Point{p1, p2, p3}, committed)
	assert.Equal(t, []geo.Point{p1, p2, p3}, s.AOI)
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "drawing", Drawing.String())
}
