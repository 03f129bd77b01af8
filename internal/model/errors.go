package model

import (
	"github.com/rotisserie/eris"

	"github.com/aerolane/airmesh/internal/schedule"
)

// Sentinel errors shared across the store, the engine, and the host
// surfaces. Layers wrap them with call-site context (eris.Wrap) as they
// bubble up; callers match with eris.Is or errors.Is.
var (
	ErrNodeNotFound    = eris.New("node not found")
	ErrEdgeNotFound    = eris.New("edge not found")
	ErrDuplicateNode   = eris.New("node already exists")
	ErrDuplicateEdge   = eris.New("edge already exists")
	ErrSelfLoop        = eris.New("self-loop edge")
	ErrInvalidWeight   = eris.New("invalid weight")
	ErrInvalidPosition = eris.New("invalid position")
	ErrNoPathFound     = eris.New("no path found")
)

// ErrInvalidSchedule is owned by the schedule package, which produces it;
// re-exported here so callers can match every engine error from one place.
var ErrInvalidSchedule = schedule.ErrInvalidSchedule
