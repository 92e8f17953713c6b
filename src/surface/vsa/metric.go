package vsa

import (
	"meshapprox/src/surface/geometry"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrorMetric measures how badly a face is represented by a proxy. Errors
// are non-negative and zero when the face lies in (or at) the proxy.
type ErrorMetric[P any] interface {
	Error(m *geometry.Mesh, f int, px P) float64
}

// ProxyFitter computes the proxy that best represents a set of faces. The
// result must not depend on the order of faces. Fitters return
// ErrDegenerateInput for an empty or zero-area support.
type ProxyFitter[P any] interface {
	Fit(m *geometry.Mesh, faces []int) (P, error)
}

// Metric pairs an error metric with the fitter that minimizes it.
type Metric[P any] interface {
	ErrorMetric[P]
	ProxyFitter[P]
}

// PlanarMetric is the L2 metric: the integral over the triangle of the
// squared distance to a plane proxy.
type PlanarMetric struct{}

func (PlanarMetric) Error(m *geometry.Mesh, f int, pl geometry.Plane) float64 {
	p := m.FacePoints(f)
	d0, d1, d2 := pl.SignedDistance(p[0]), pl.SignedDistance(p[1]), pl.SignedDistance(p[2])
	s := d0 + d1 + d2
	return m.Area(f) * (s*s + d0*d0 + d1*d1 + d2*d2) / 12
}

func (PlanarMetric) Fit(m *geometry.Mesh, faces []int) (geometry.Plane, error) {
	return fitPlane(m, faces)
}

// NormalMetric is the L21 metric: the area weighted squared deviation of
// the face normal from a unit normal proxy.
type NormalMetric struct{}

func (NormalMetric) Error(m *geometry.Mesh, f int, n geometry.Vector3) float64 {
	return m.Area(f) * r3.Norm2(r3.Sub(m.Normal(f), n))
}

func (NormalMetric) Fit(m *geometry.Mesh, faces []int) (geometry.Vector3, error) {
	return fitNormal(m, faces)
}

// PointMetric is the compact metric: the squared distance from the face
// centroid to a point proxy. It yields roughly isotropic regions.
type PointMetric struct{}

func (PointMetric) Error(m *geometry.Mesh, f int, p geometry.Vector3) float64 {
	return r3.Norm2(r3.Sub(m.Centroid(f), p))
}

func (PointMetric) Fit(m *geometry.Mesh, faces []int) (geometry.Vector3, error) {
	return fitCentroid(m, faces)
}
