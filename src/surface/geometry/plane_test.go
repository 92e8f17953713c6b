package geometry

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestPlane(t *testing.T) {
	pl := PlaneFromPointNormal(Vec3(0, 0, 2), Vec3(0, 0, 5))
	require.True(t, pl.IsValid())
	require.InDelta(t, 1.0, pl.SignedDistance(Vec3(4, -1, 3)), 1e-12)
	require.Equal(t, Vec3(4, -1, 2), pl.Project(Vec3(4, -1, 3)))

	require.False(t, Plane{}.IsValid())
}

func TestBasis(t *testing.T) {
	for _, n := range []Vector3{Vec3(0, 0, 1), Vec3(1, 0, 0), r3.Unit(Vec3(1, 2, 3))} {
		u, v := Basis(n)
		require.InDelta(t, 1.0, r3.Norm(u), 1e-12)
		require.InDelta(t, 0.0, r3.Dot(u, v), 1e-12)
		c := r3.Cross(u, v)
		require.InDelta(t, n.X, c.X, 1e-12)
		require.InDelta(t, n.Y, c.Y, 1e-12)
		require.InDelta(t, n.Z, c.Z, 1e-12)
	}
}

func TestSegmentDistance(t *testing.T) {
	a, b := Vec3(0, 0, 0), Vec3(2, 0, 0)
	require.InDelta(t, 1.0, SegmentDistance(Vec3(1, 1, 0), a, b), 1e-12)
	require.InDelta(t, 1.0, SegmentDistance(Vec3(-1, 0, 0), a, b), 1e-12)
	require.InDelta(t, 5.0, SegmentDistance(Vec3(3, 4, 0), a, a), 1e-12)
}
