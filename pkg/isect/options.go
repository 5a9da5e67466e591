package isect

// DefaultMeshEpsilon is the snapping tolerance used by the mesh tests
// when no WithEpsilon option is given.
const DefaultMeshEpsilon = 1e-6

// config carries per-call settings into every signed-distance computation.
type config struct {
	epsilon float64
}

// Option configures a single predicate or mesh call.
type Option func(*config)

// WithEpsilon sets the snapping tolerance: any signed distance whose
// absolute value is below eps is treated as exactly zero before sign
// tests. WithEpsilon(0) disables snapping.
func WithEpsilon(eps float64) Option {
	return func(c *config) {
		c.epsilon = eps
	}
}

func newConfig(defaultEpsilon float64, opts []Option) config {
	c := config{epsilon: defaultEpsilon}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
