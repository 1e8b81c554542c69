package meshlevel

import (
	"math"

	"github.com/mastercactapus/grbltok/coord"
)

// Epsilon is the max error when checking containment.
const Epsilon = 0.001

// facet is one triangle of a mesh.
type facet struct{ a, b, c coord.Point }

// weights returns the barycentric weights of x,y against the XY projection
// of f. ok is false for a degenerate facet.
func (f facet) weights(x, y float64) (wa, wb, wc float64, ok bool) {
	det := (f.b.Y-f.c.Y)*(f.a.X-f.c.X) + (f.c.X-f.b.X)*(f.a.Y-f.c.Y)
	if math.Abs(det) < Epsilon*Epsilon {
		return 0, 0, 0, false
	}
	wa = ((f.b.Y-f.c.Y)*(x-f.c.X) + (f.c.X-f.b.X)*(y-f.c.Y)) / det
	wb = ((f.c.Y-f.a.Y)*(x-f.c.X) + (f.a.X-f.c.X)*(y-f.c.Y)) / det
	return wa, wb, 1 - wa - wb, true
}

// contains reports whether x,y falls within the XY projection of f,
// allowing Epsilon of slack along each edge.
func (f facet) contains(x, y float64) bool {
	wa, wb, wc, ok := f.weights(x, y)
	if !ok {
		return false
	}
	return wa >= -Epsilon && wb >= -Epsilon && wc >= -Epsilon
}

// z is the height of the plane through f at x,y.
func (f facet) z(x, y float64) float64 {
	wa, wb, wc, _ := f.weights(x, y)
	return wa*f.a.Z + wb*f.b.Z + wc*f.c.Z
}
