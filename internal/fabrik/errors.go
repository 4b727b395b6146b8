package fabrik

import "github.com/pkg/errors"

var (
	// ErrTooFewJoints is returned when a chain is built from fewer than two joints.
	ErrTooFewJoints = errors.New("chain needs at least 2 joints")

	// ErrInvalidTolerance is returned when the convergence tolerance is not strictly positive.
	ErrInvalidTolerance = errors.New("tolerance must be > 0")

	// ErrDegenerateLink is returned when two consecutive input joints coincide.
	ErrDegenerateLink = errors.New("link lengths must be > 0")

	// ErrInvalidMaxIterations is returned when the iteration bound is not strictly positive.
	ErrInvalidMaxIterations = errors.New("max iterations must be > 0")

	// ErrNotConverged is returned by MoveTo when the iteration bound is hit before the
	// end effector gets within tolerance. The chain keeps the pose of the last iteration.
	ErrNotConverged = errors.New("solver did not converge")

	// ErrCoincidentJoints is returned by MoveTo when two neighbouring joints collapse onto
	// each other mid-solve. The chain is restored to its pose before the call.
	ErrCoincidentJoints = errors.New("joints collapsed onto each other during solve")
)
