package body

import "errors"

// Construction errors returned by New and the shape factories.
var (
	// ErrTooFewVertices indicates a polygon with fewer than three vertices.
	ErrTooFewVertices = errors.New("body: polygon needs at least 3 vertices")

	// ErrNotConvex indicates a polygon that is concave, self-intersecting or degenerate.
	ErrNotConvex = errors.New("body: polygon is not convex with consistent winding")

	// ErrInvalidMass indicates a negative or NaN mass.
	ErrInvalidMass = errors.New("body: mass must be non-negative")
)
