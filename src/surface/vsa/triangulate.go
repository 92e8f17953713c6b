package vsa

import (
	"math"

	"meshapprox/src/surface/geometry"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"gonum.org/v1/gonum/spatial/r3"
)

// triangulate ear-clips the polygon of anchor indices poly in the plane
// with the given normal and returns anchor index triples. A polygon that
// winds clockwise around the normal is reported as a hole and left open.
func triangulate(points []geometry.Vector3, poly []int, normal geometry.Vector3) (tris []int, hole bool) {
	ring := project(points, poly, normal)
	area := planar.Area(ring)
	if math.Abs(area) <= geometry.Epsilon {
		return nil, false
	}
	if ring.Orientation() != orb.CCW {
		return nil, true
	}
	for _, t := range earClip(ring) {
		tris = append(tris, poly[t[0]], poly[t[1]], poly[t[2]])
	}
	return tris, false
}

// project maps the polygon to the 2D frame of the plane and closes it.
func project(points []geometry.Vector3, poly []int, normal geometry.Vector3) orb.Ring {
	u, v := geometry.Basis(normal)
	ring := make(orb.Ring, 0, len(poly)+1)
	for _, i := range poly {
		p := points[i]
		ring = append(ring, orb.Point{r3.Dot(p, u), r3.Dot(p, v)})
	}
	return append(ring, ring[0])
}

// earClip triangulates a closed counter-clockwise ring and returns index
// triples into it. When no ear is found, as on self-intersecting rings,
// the rest is fanned.
func earClip(ring orb.Ring) [][3]int {
	n := len(ring) - 1
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	var out [][3]int
	for len(idx) > 3 {
		ear := -1
		for i := range idx {
			p, c, q := idx[(i+len(idx)-1)%len(idx)], idx[i], idx[(i+1)%len(idx)]
			if isEar(ring, idx, p, c, q) {
				ear = i
				break
			}
		}
		if ear < 0 {
			for i := 1; i+1 < len(idx); i++ {
				out = append(out, [3]int{idx[0], idx[i], idx[i+1]})
			}
			return out
		}
		p, c, q := idx[(ear+len(idx)-1)%len(idx)], idx[ear], idx[(ear+1)%len(idx)]
		out = append(out, [3]int{p, c, q})
		idx = append(idx[:ear], idx[ear+1:]...)
	}
	return append(out, [3]int{idx[0], idx[1], idx[2]})
}

func isEar(ring orb.Ring, idx []int, p, c, q int) bool {
	a, b, d := ring[p], ring[c], ring[q]
	if cross(a, b, d) <= geometry.Epsilon {
		return false
	}
	for _, i := range idx {
		if i == p || i == c || i == q {
			continue
		}
		s := ring[i]
		if s.Equal(a) || s.Equal(b) || s.Equal(d) {
			continue
		}
		if cross(a, b, s) >= 0 && cross(b, d, s) >= 0 && cross(d, a, s) >= 0 {
			return false
		}
	}
	return true
}

// cross is twice the signed area of the triangle a, b, c.
func cross(a, b, c orb.Point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}
