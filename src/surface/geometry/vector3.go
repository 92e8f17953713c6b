package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vector3 is a point or a direction in space.
type Vector3 = r3.Vec

func Vec3(x, y, z float64) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// IsFinite reports whether no component of v is NaN or infinite.
func IsFinite(v Vector3) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsNaN(v.Z) &&
		!math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0) && !math.IsInf(v.Z, 0)
}

// Basis returns two unit tangents u, v of the plane with normal n such that
// u × v = n.
func Basis(n Vector3) (u, v Vector3) {
	a := Vec3(1, 0, 0)
	if math.Abs(n.X) > 0.9 {
		a = Vec3(0, 1, 0)
	}
	u = r3.Unit(r3.Cross(n, a))
	v = r3.Cross(n, u)
	return u, v
}
