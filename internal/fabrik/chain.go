// Package fabrik solves 2-D inverse kinematics for a chain of rigid links using
// Forward And Backward Reaching Inverse Kinematics.
//
// A Chain is built once from its rest pose. Link lengths and the total reach are
// derived from that pose and never change; only the joint positions move when
// MoveTo is called. A Chain is not safe for concurrent use while MoveTo runs.
package fabrik

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/alexiusacademia/fabrik/internal/logging"
)

// Chain is a planar chain of joints. Index 0 is the root, the last joint is the end effector.
type Chain struct {
	joints    []r2.Point
	lengths   []float64
	tolerance float64
	reach     float64

	maxIterations int
	logger        logging.Logger
	hook          IterationHook
}

// NewChain builds a chain from its rest pose. Link lengths are the distances between
// consecutive joints and the reach is their sum.
func NewChain(joints []r2.Point, tolerance float64, opts ...Option) (*Chain, error) {
	if len(joints) < 2 {
		return nil, errors.Wrapf(ErrTooFewJoints, "got %d", len(joints))
	}
	if !(tolerance > 0) {
		return nil, errors.Wrapf(ErrInvalidTolerance, "got %v", tolerance)
	}

	lengths := make([]float64, len(joints)-1)
	for i := range lengths {
		lengths[i] = magnitude(joints[i].Sub(joints[i+1]))
		if !(lengths[i] > 0) {
			return nil, errors.Wrapf(ErrDegenerateLink, "link %d between %v and %v", i, joints[i], joints[i+1])
		}
	}

	c := &Chain{
		joints:        append([]r2.Point(nil), joints...),
		lengths:       lengths,
		tolerance:     tolerance,
		reach:         floats.Sum(lengths),
		maxIterations: DefaultMaxIterations,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.maxIterations <= 0 {
		return nil, errors.Wrapf(ErrInvalidMaxIterations, "got %d", c.maxIterations)
	}
	if c.logger == nil {
		c.logger = logging.NewBlankLogger("fabrik")
	}
	return c, nil
}

// Solvable reports whether target lies within the reach of the chain, measured from the origin.
func (c *Chain) Solvable(target r2.Point) bool {
	return c.reach >= magnitude(target)
}

// Goal returns the point MoveTo solves for given target. ok is false when target is out of
// reach and tryToReach is not set, in which case MoveTo leaves the chain alone. An out of
// reach target with tryToReach set is pulled in to the point at full reach in the same
// direction.
func (c *Chain) Goal(target r2.Point, tryToReach bool) (goal r2.Point, ok bool) {
	if c.Solvable(target) {
		return target, true
	}
	if !tryToReach {
		return target, false
	}
	return target.Mul(c.reach / magnitude(target)), true
}

// MoveTo drives the end effector towards target and returns the number of correction
// iterations performed. See Goal for how unreachable targets are handled.
func (c *Chain) MoveTo(target r2.Point, tryToReach bool) (int, error) {
	goal, ok := c.Goal(target, tryToReach)
	if !ok {
		c.logger.Debugw("target out of reach, not moving", "target", target, "reach", c.reach)
		return 0, nil
	}

	c.logger.Debugw("solving", "target", target, "goal", goal)
	iterations, err := c.iterate(goal)
	if err != nil {
		c.logger.Warnw("solve failed", "goal", goal, "iterations", iterations, "error", err)
		return iterations, err
	}
	c.logger.Debugw("solved", "goal", goal, "iterations", iterations, "residual", c.residual(goal))
	return iterations, nil
}

func (c *Chain) iterate(target r2.Point) (int, error) {
	last := len(c.joints) - 1
	root := c.joints[0]
	var before []r2.Point

	iteration := 0
	for c.residual(target) > c.tolerance {
		if iteration >= c.maxIterations {
			return iteration, errors.Wrapf(ErrNotConverged,
				"%d iterations, end effector %v from target", iteration, c.residual(target))
		}
		if before == nil {
			before = c.Joints()
		}
		iteration++

		c.joints[last] = target
		for i := last - 1; i >= 0; i-- {
			next, current := c.joints[i+1], c.joints[i]
			share, err := c.lengthShare(i, next, current)
			if err != nil {
				copy(c.joints, before)
				return iteration, err
			}
			c.joints[i] = lerp(next, current, share)
		}

		c.joints[0] = root
		for i := 0; i < last; i++ {
			current, next := c.joints[i], c.joints[i+1]
			share, err := c.lengthShare(i, next, current)
			if err != nil {
				copy(c.joints, before)
				return iteration, err
			}
			c.joints[i+1] = lerp(current, next, share)
		}

		if c.hook != nil {
			c.hook(iteration, c.residual(target))
		}
	}
	return iteration, nil
}

// lengthShare is the ratio of the rest length of link i to the current distance between
// its two joints.
func (c *Chain) lengthShare(i int, a, b r2.Point) (float64, error) {
	d := magnitude(a.Sub(b))
	if d == 0 {
		return 0, errors.Wrapf(ErrCoincidentJoints, "link %d at %v", i, a)
	}
	return c.lengths[i] / d, nil
}

func (c *Chain) residual(target r2.Point) float64 {
	return magnitude(c.joints[len(c.joints)-1].Sub(target))
}

// Angles returns the orientation of the first link followed by the relative turn between
// each pair of consecutive links, in radians.
func (c *Chain) Angles() []float64 {
	angles := make([]float64, 0, len(c.lengths))
	prev := 0.
	for i := 1; i < len(c.joints); i++ {
		p := c.joints[i].Sub(c.joints[i-1])
		abs := math.Atan2(p.Y, p.X)
		angles = append(angles, abs-prev)
		prev = abs
	}
	return angles
}

// AnglesDeg is Angles in degrees.
func (c *Chain) AnglesDeg() []float64 {
	angles := c.Angles()
	floats.Scale(180/math.Pi, angles)
	return angles
}

// Joints returns a copy of the current joint positions.
func (c *Chain) Joints() []r2.Point {
	return append([]r2.Point(nil), c.joints...)
}

// Lengths returns a copy of the rest lengths of the links.
func (c *Chain) Lengths() []float64 {
	return append([]float64(nil), c.lengths...)
}

// Reach is the sum of all link lengths.
func (c *Chain) Reach() float64 { return c.reach }

// Tolerance is the convergence threshold.
func (c *Chain) Tolerance() float64 { return c.tolerance }

// MaxIterations is the iteration bound of a single MoveTo.
func (c *Chain) MaxIterations() int { return c.maxIterations }

// Len is the number of joints.
func (c *Chain) Len() int { return len(c.joints) }

// Root is the position of the first joint.
func (c *Chain) Root() r2.Point { return c.joints[0] }

// EndEffector is the position of the last joint.
func (c *Chain) EndEffector() r2.Point { return c.joints[len(c.joints)-1] }

// magnitude is sqrt(p·p). r2.Point.Norm uses math.Hypot, which rounds differently and
// shifts iteration counts on long solves.
func magnitude(p r2.Point) float64 {
	return math.Sqrt(p.Dot(p))
}

// lerp returns the point share of the way from a to b.
func lerp(a, b r2.Point, share float64) r2.Point {
	return a.Mul(1 - share).Add(b.Mul(share))
}
