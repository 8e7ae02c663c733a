package box2d

import (
	"errors"
)

// Errors returned by the world API. Broken internal invariants still panic
// through B2Assert.
var (
	// ErrWorldLocked is returned by mutating calls made while the world is
	// inside World_Step, for example from a filter or pre-solve callback.
	ErrWorldLocked = errors.New("box2d: world is locked")

	// ErrInvalidId is returned when an id is null or refers to a freed slot.
	ErrInvalidId = errors.New("box2d: invalid id")

	// ErrDegenerateGeometry is returned when a shape is too small to be simulated.
	ErrDegenerateGeometry = errors.New("box2d: degenerate geometry")

	// ErrWorldCapacity is returned by B2CreateWorld when all world slots are used.
	ErrWorldCapacity = errors.New("box2d: too many worlds")

	// ErrInvalidDef is returned when a definition fails validation.
	ErrInvalidDef = errors.New("box2d: invalid definition")
)
