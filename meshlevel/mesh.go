// Package meshlevel interpolates surface height from a set of probe results.
package meshlevel

import (
	"errors"
	"math"

	"github.com/fogleman/delaunay"

	"github.com/mastercactapus/grbltok/coord"
	"github.com/mastercactapus/grbltok/machine"
)

// ErrTooFewPoints is returned when a mesh is built from fewer than 3 points.
var ErrTooFewPoints = errors.New("need at least 3 points to create a mesh")

type Mesh struct {
	minX, minY, maxX, maxY float64
	facets                 []facet
}

func NewMesh(points []coord.Point) (*Mesh, error) {
	if len(points) < 3 {
		return nil, ErrTooFewPoints
	}

	points2d := make([]delaunay.Point, len(points))
	m := make(map[delaunay.Point]coord.Point, len(points))

	mesh := &Mesh{
		minX: points[0].X,
		minY: points[0].Y,
		maxX: points[0].X,
		maxY: points[0].Y,
	}
	var d delaunay.Point
	for i, p := range points {
		mesh.minX = math.Min(mesh.minX, p.X)
		mesh.minY = math.Min(mesh.minY, p.Y)
		mesh.maxX = math.Max(mesh.maxX, p.X)
		mesh.maxY = math.Max(mesh.maxY, p.Y)

		d.X = p.X
		d.Y = p.Y
		m[d] = p
		points2d[i] = d
	}
	mesh.minX -= Epsilon
	mesh.minY -= Epsilon
	mesh.maxX += Epsilon
	mesh.maxY += Epsilon

	tri, err := delaunay.Triangulate(points2d)
	if err != nil {
		return nil, err
	}

	mesh.facets = make([]facet, 0, len(tri.Triangles)/3)
	for i := 0; i+2 < len(tri.Triangles); i += 3 {
		mesh.facets = append(mesh.facets, facet{
			a: m[tri.Points[tri.Triangles[i]]],
			b: m[tri.Points[tri.Triangles[i+1]]],
			c: m[tri.Points[tri.Triangles[i+2]]],
		})
	}

	return mesh, nil
}

// FromProbes builds a mesh from the successful results in probes.
func FromProbes(probes []machine.ProbeResult) (*Mesh, error) {
	return NewMesh(Points(probes))
}

// Points returns the positions of the successful results in probes.
func Points(probes []machine.ProbeResult) []coord.Point {
	pts := make([]coord.Point, 0, len(probes))
	for _, p := range probes {
		if !p.Valid {
			continue
		}
		pts = append(pts, p.Point)
	}
	return pts
}

// OffsetZ reports the surface height at x,y. ok is false outside the probed
// area.
func (m Mesh) OffsetZ(x, y float64) (bool, float64) {
	if x < m.minX || m.maxX < x || y < m.minY || m.maxY < y {
		return false, 0
	}
	for _, f := range m.facets {
		if !f.contains(x, y) {
			continue
		}
		return true, f.z(x, y)
	}

	return false, 0
}
