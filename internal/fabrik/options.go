package fabrik

import "github.com/alexiusacademia/fabrik/internal/logging"

// DefaultMaxIterations bounds a single MoveTo call unless WithMaxIterations says otherwise.
const DefaultMaxIterations = 10000

// IterationHook is called after every correction iteration with the iteration number
// (starting at 1) and the remaining distance from the end effector to the target.
type IterationHook func(iteration int, residual float64)

// Option configures a Chain at construction.
type Option func(*Chain)

// WithMaxIterations sets the maximum number of correction iterations per MoveTo.
func WithMaxIterations(n int) Option {
	return func(c *Chain) {
		c.maxIterations = n
	}
}

// WithLogger makes the chain log solve progress to logger.
func WithLogger(logger logging.Logger) Option {
	return func(c *Chain) {
		c.logger = logger
	}
}

// WithIterationHook registers hook to observe convergence.
func WithIterationHook(hook IterationHook) Option {
	return func(c *Chain) {
		c.hook = hook
	}
}
