package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Plane is the set of points p with Normal·p + Offset = 0. Normal has unit
// length for planes built by PlaneFromPointNormal.
type Plane struct {
	Normal Vector3
	Offset float64
}

func PlaneFromPointNormal(p, n Vector3) Plane {
	n = r3.Unit(n)
	return Plane{Normal: n, Offset: -r3.Dot(n, p)}
}

func (pl Plane) SignedDistance(p Vector3) float64 {
	return r3.Dot(pl.Normal, p) + pl.Offset
}

// Project returns the orthogonal projection of p onto the plane.
func (pl Plane) Project(p Vector3) Vector3 {
	return r3.Sub(p, r3.Scale(pl.SignedDistance(p), pl.Normal))
}

// IsValid reports whether the plane has a finite unit normal.
func (pl Plane) IsValid() bool {
	return IsFinite(pl.Normal) && !math.IsNaN(pl.Offset) &&
		math.Abs(r3.Norm2(pl.Normal)-1) < 1e-9
}
