package vsa

import (
	"errors"
	"math"
	"testing"

	"meshapprox/src/surface/geometry"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func requireVec(t *testing.T, want, got geometry.Vector3, delta float64) {
	t.Helper()
	require.InDelta(t, want.X, got.X, delta)
	require.InDelta(t, want.Y, got.Y, delta)
	require.InDelta(t, want.Z, got.Z, delta)
}

func allFaces(m *geometry.Mesh) []int {
	faces := make([]int, m.NumFaces())
	for f := range faces {
		faces[f] = f
	}
	return faces
}

func TestPlanarMetricError(t *testing.T) {
	m, err := geometry.NewMesh([]geometry.Vector3{
		geometry.Vec3(0, 0, 0), geometry.Vec3(1, 0, 0), geometry.Vec3(0, 1, 0),
	}, [][3]int{{0, 1, 2}})
	require.NoError(t, err)

	tests := []struct {
		name  string
		plane geometry.Plane
		want  float64
	}{
		{"in plane", geometry.PlaneFromPointNormal(geometry.Vec3(5, 5, 0), geometry.Vec3(0, 0, 1)), 0},
		{"shifted", geometry.PlaneFromPointNormal(geometry.Vec3(0, 0, 1), geometry.Vec3(0, 0, 1)), 0.5},
		{"flipped", geometry.PlaneFromPointNormal(geometry.Vec3(0, 0, -1), geometry.Vec3(0, 0, -1)), 0.5},
		// d = x: A/12 ((0+1+0)^2 + 1) = 1/12
		{"tilted", geometry.PlaneFromPointNormal(geometry.Vec3(0, 0, 0), geometry.Vec3(1, 0, 0)), 1.0 / 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.want, PlanarMetric{}.Error(m, 0, tt.plane), 1e-12)
		})
	}
}

func TestNormalAndPointMetricError(t *testing.T) {
	m := geometry.NewCube(1)

	require.InDelta(t, 0, NormalMetric{}.Error(m, 0, geometry.Vec3(0, 0, -1)), 1e-12)
	// |(0,0,-1) - (0,0,1)|^2 = 4 on a face of area 1/2
	require.InDelta(t, 2, NormalMetric{}.Error(m, 0, geometry.Vec3(0, 0, 1)), 1e-12)

	c := m.Centroid(3)
	require.InDelta(t, 0, PointMetric{}.Error(m, 3, c), 1e-12)
	require.InDelta(t, 4, PointMetric{}.Error(m, 3, r3.Add(c, geometry.Vec3(0, 2, 0))), 1e-12)
}

func TestFitPlaneRecoversTiltedPlane(t *testing.T) {
	m := geometry.NewGrid(3, 3, 1, func(x, y float64) float64 { return 0.5*x - 0.25*y + 1 })
	pl, err := PlanarMetric{}.Fit(m, allFaces(m))
	require.NoError(t, err)

	requireVec(t, r3.Unit(geometry.Vec3(-0.5, 0.25, 1)), pl.Normal, 1e-9)
	for f := 0; f < m.NumFaces(); f++ {
		require.InDelta(t, 0, PlanarMetric{}.Error(m, f, pl), 1e-12)
	}
}

func TestFitIgnoresFaceOrder(t *testing.T) {
	m := geometry.NewGrid(5, 4, 1, wavy)
	faces := allFaces(m)
	reversed := make([]int, len(faces))
	for i, f := range faces {
		reversed[len(faces)-1-i] = f
	}

	p1, err := PlanarMetric{}.Fit(m, faces)
	require.NoError(t, err)
	p2, err := PlanarMetric{}.Fit(m, reversed)
	require.NoError(t, err)
	requireVec(t, p1.Normal, p2.Normal, 1e-9)
	require.InDelta(t, p1.Offset, p2.Offset, 1e-9)

	n1, err := NormalMetric{}.Fit(m, faces)
	require.NoError(t, err)
	n2, err := NormalMetric{}.Fit(m, reversed)
	require.NoError(t, err)
	requireVec(t, n1, n2, 1e-12)

	c1, err := PointMetric{}.Fit(m, faces)
	require.NoError(t, err)
	c2, err := PointMetric{}.Fit(m, reversed)
	require.NoError(t, err)
	requireVec(t, c1, c2, 1e-12)
}

func TestFitNormalFallsBackWhenNormalsCancel(t *testing.T) {
	m := geometry.NewCube(1)
	// bottom and top sides: the mean normal vanishes
	n, err := NormalMetric{}.Fit(m, []int{0, 1, 2, 3})
	require.NoError(t, err)
	requireVec(t, geometry.Vec3(0, 0, 1), n, 1e-9)
	require.InDelta(t, 0, NormalMetric{}.Error(m, 2, n), 1e-9)
}

func TestFitCentroid(t *testing.T) {
	m := geometry.NewGrid(2, 2, 1, nil)
	c, err := PointMetric{}.Fit(m, allFaces(m))
	require.NoError(t, err)
	requireVec(t, geometry.Vec3(1, 1, 0), c, 1e-12)
}

func TestFitMeanPlane(t *testing.T) {
	m := geometry.NewCube(2)
	pl, err := fitMeanPlane(m, []int{10, 11})
	require.NoError(t, err)
	requireVec(t, geometry.Vec3(1, 0, 0), pl.Normal, 1e-12)
	require.InDelta(t, 0, pl.SignedDistance(geometry.Vec3(2, 1, 1)), 1e-12)

	_, err = fitMeanPlane(m, []int{0, 1, 2, 3})
	require.True(t, errors.Is(err, ErrDegenerateInput))
}

func TestFitDegenerateInput(t *testing.T) {
	flat, err := geometry.NewMesh([]geometry.Vector3{
		geometry.Vec3(0, 0, 0), geometry.Vec3(1, 0, 0), geometry.Vec3(2, 0, 0),
	}, [][3]int{{0, 1, 2}})
	require.NoError(t, err)
	cube := geometry.NewCube(1)

	tests := []struct {
		name  string
		m     *geometry.Mesh
		faces []int
	}{
		{"no faces", cube, nil},
		{"zero area", flat, []int{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PlanarMetric{}.Fit(tt.m, tt.faces)
			require.True(t, errors.Is(err, ErrDegenerateInput), "planar: %v", err)
			_, err = NormalMetric{}.Fit(tt.m, tt.faces)
			require.True(t, errors.Is(err, ErrDegenerateInput), "normal: %v", err)
			_, err = PointMetric{}.Fit(tt.m, tt.faces)
			require.True(t, errors.Is(err, ErrDegenerateInput), "point: %v", err)
		})
	}
}

func TestMetricErrorsAreNonNegative(t *testing.T) {
	m := geometry.NewGrid(4, 4, 0.5, wavy)
	pl := geometry.PlaneFromPointNormal(geometry.Vec3(0.3, 0.1, 0.2), r3.Unit(geometry.Vec3(0.2, -0.1, 1)))
	n := r3.Unit(geometry.Vec3(0.1, 0.3, 1))
	p := geometry.Vec3(1, 1, 0.5)
	for f := 0; f < m.NumFaces(); f++ {
		require.GreaterOrEqual(t, PlanarMetric{}.Error(m, f, pl), 0.0)
		require.GreaterOrEqual(t, NormalMetric{}.Error(m, f, n), 0.0)
		require.GreaterOrEqual(t, PointMetric{}.Error(m, f, p), 0.0)
		require.False(t, math.IsNaN(PlanarMetric{}.Error(m, f, pl)))
	}
}
