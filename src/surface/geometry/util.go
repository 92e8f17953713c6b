package geometry

import (
	"gonum.org/v1/gonum/spatial/r3"
)

func TriangleArea(a, b, c Vector3) float64 {
	return 0.5 * r3.Norm(r3.Cross(r3.Sub(b, a), r3.Sub(c, a)))
}

func TriangleCentroid(a, b, c Vector3) Vector3 {
	return r3.Scale(1.0/3.0, r3.Add(r3.Add(a, b), c))
}

// TriangleNormal returns the unit normal of the counter-clockwise triangle
// a, b, c, or the zero vector when the triangle is degenerate.
func TriangleNormal(a, b, c Vector3) Vector3 {
	n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
	l := r3.Norm(n)
	if l <= Epsilon {
		return Vector3{}
	}
	return r3.Scale(1/l, n)
}

// SegmentDistance returns the distance from p to the segment [a, b].
func SegmentDistance(p, a, b Vector3) float64 {
	ab := r3.Sub(b, a)
	l2 := r3.Norm2(ab)
	if l2 <= Epsilon*Epsilon {
		return r3.Norm(r3.Sub(p, a))
	}
	t := r3.Dot(r3.Sub(p, a), ab) / l2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return r3.Norm(r3.Sub(p, r3.Add(a, r3.Scale(t, ab))))
}
