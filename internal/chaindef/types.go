// Package chaindef reads chain definitions from JSON files.
package chaindef

import (
	"fmt"

	"github.com/golang/geo/r2"
	"go.uber.org/multierr"

	"github.com/alexiusacademia/fabrik/internal/fabrik"
)

// Definition describes a chain in its rest pose and an optional sequence of targets
// to drive it to.
type Definition struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// Convergence threshold, same units as the joint coordinates
	Tolerance float64 `json:"tolerance"`

	// Iteration bound per target, 0 means the solver default
	MaxIterations int `json:"max_iterations,omitempty"`

	// Default for targets that don't set try_to_reach themselves
	TryToReach bool `json:"try_to_reach,omitempty"`

	// Rest pose, root first
	Joints []Point `json:"joints"`

	Targets []Target `json:"targets,omitempty"`
}

// Point represents a 2D coordinate
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// R2 converts p to the solver's point type.
func (p Point) R2() r2.Point {
	return r2.Point{X: p.X, Y: p.Y}
}

// Target is a point the end effector should be driven to.
type Target struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`

	// Overrides Definition.TryToReach when set
	TryToReach *bool `json:"try_to_reach,omitempty"`
}

// R2 converts t to the solver's point type.
func (t Target) R2() r2.Point {
	return r2.Point{X: t.X, Y: t.Y}
}

// Validate checks the definition and reports every problem it finds.
func (d *Definition) Validate() error {
	var err error
	if len(d.Joints) < 2 {
		err = multierr.Append(err, &ValidationError{"chain must have at least 2 joints"})
	}
	if !(d.Tolerance > 0) {
		err = multierr.Append(err, &ValidationError{"tolerance must be positive"})
	}
	if d.MaxIterations < 0 {
		err = multierr.Append(err, &ValidationError{"max_iterations must not be negative"})
	}
	for i := 1; i < len(d.Joints); i++ {
		if d.Joints[i] == d.Joints[i-1] {
			err = multierr.Append(err, &ValidationError{
				msg: fmt.Sprintf("joints %d and %d coincide at (%g, %g)", i, i+1, d.Joints[i].X, d.Joints[i].Y),
			})
		}
	}
	return err
}

// ValidationError represents a chain definition validation error
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// JointPoints returns the rest pose as solver points.
func (d *Definition) JointPoints() []r2.Point {
	pts := make([]r2.Point, len(d.Joints))
	for i, j := range d.Joints {
		pts[i] = j.R2()
	}
	return pts
}

// ShouldTryToReach resolves the try_to_reach flag of target i.
func (d *Definition) ShouldTryToReach(i int) bool {
	if tr := d.Targets[i].TryToReach; tr != nil {
		return *tr
	}
	return d.TryToReach
}

// NewChain builds a solver for the definition. opts are applied after the ones derived
// from the definition itself.
func (d *Definition) NewChain(opts ...fabrik.Option) (*fabrik.Chain, error) {
	var all []fabrik.Option
	if d.MaxIterations > 0 {
		all = append(all, fabrik.WithMaxIterations(d.MaxIterations))
	}
	return fabrik.NewChain(d.JointPoints(), d.Tolerance, append(all, opts...)...)
}
