package physics

import "errors"

var (
	// ErrUnknownBody indicates a BodyID that is not (or no longer) in the world.
	ErrUnknownBody = errors.New("physics: unknown body")

	// ErrInvalidTimestep indicates a non-positive fixed timestep in Config.
	ErrInvalidTimestep = errors.New("physics: fixed timestep must be positive")
)
