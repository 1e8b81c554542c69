package meshlevel

import (
	"github.com/mastercactapus/grbltok/coord"
)

// OffsetFrom returns a copy of points with z subtracted from each height,
// so a reference probe at height z reads as zero.
func OffsetFrom(z float64, points []coord.Point) []coord.Point {
	p := make([]coord.Point, len(points))
	copy(p, points)

	for i := range p {
		p[i].Z -= z
	}
	return p
}
