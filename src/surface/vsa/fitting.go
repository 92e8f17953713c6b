package vsa

import (
	"math"

	"meshapprox/src/surface/geometry"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// minSamples is the number of faces every fitter needs.
const minSamples = 1

// moments accumulates the area weighted first and second moments of a
// set of triangles.
type moments struct {
	area     float64
	centroid geometry.Vector3 // area weighted sum, divide by area
	normal   geometry.Vector3 // area weighted sum
	second   [6]float64       // xx, xy, xz, yy, yz, zz of the exact triangle integral
}

func accumulate(m *geometry.Mesh, faces []int, withSecond bool) moments {
	var mo moments
	for _, f := range faces {
		a := m.Area(f)
		if a <= 0 {
			continue
		}
		mo.area += a
		mo.centroid = r3.Add(mo.centroid, r3.Scale(a, m.Centroid(f)))
		mo.normal = r3.Add(mo.normal, r3.Scale(a, m.Normal(f)))
		if !withSecond {
			continue
		}
		// ∫ x xᵀ dA = A/12 (Σ pᵢpᵢᵀ + s sᵀ) with s = p₀+p₁+p₂
		p := m.FacePoints(f)
		s := r3.Add(r3.Add(p[0], p[1]), p[2])
		w := a / 12
		for _, q := range [4]geometry.Vector3{p[0], p[1], p[2], s} {
			mo.second[0] += w * q.X * q.X
			mo.second[1] += w * q.X * q.Y
			mo.second[2] += w * q.X * q.Z
			mo.second[3] += w * q.Y * q.Y
			mo.second[4] += w * q.Y * q.Z
			mo.second[5] += w * q.Z * q.Z
		}
	}
	return mo
}

func checkSupport(faces []int, mo moments) error {
	if len(faces) < minSamples {
		return newError(ErrDegenerateInput, "%d faces, need %d", len(faces), minSamples)
	}
	if mo.area <= geometry.Epsilon {
		return newError(ErrDegenerateInput, "%d faces with zero total area", len(faces))
	}
	return nil
}

// fitPlane returns the least-squares plane of the faces: it passes through
// the area weighted centroid and its normal is the eigenvector of the
// smallest eigenvalue of the area weighted triangle covariance. The normal
// is oriented along the mean face normal.
func fitPlane(m *geometry.Mesh, faces []int) (geometry.Plane, error) {
	mo := accumulate(m, faces, true)
	if err := checkSupport(faces, mo); err != nil {
		return geometry.Plane{}, err
	}
	c := r3.Scale(1/mo.area, mo.centroid)
	cov := mat.NewSymDense(3, []float64{
		mo.second[0] - mo.area*c.X*c.X, mo.second[1] - mo.area*c.X*c.Y, mo.second[2] - mo.area*c.X*c.Z,
		mo.second[1] - mo.area*c.X*c.Y, mo.second[3] - mo.area*c.Y*c.Y, mo.second[4] - mo.area*c.Y*c.Z,
		mo.second[2] - mo.area*c.X*c.Z, mo.second[4] - mo.area*c.Y*c.Z, mo.second[5] - mo.area*c.Z*c.Z,
	})
	n, ok := eigenvector(cov, 0)
	if !ok {
		// exact fallback: the mean normal plane
		n = r3.Unit(mo.normal)
		if !geometry.IsFinite(n) {
			return geometry.Plane{}, newError(ErrDegenerateInput, "no plane through %d faces", len(faces))
		}
	}
	if r3.Dot(n, mo.normal) < 0 {
		n = r3.Scale(-1, n)
	}
	return geometry.PlaneFromPointNormal(c, n), nil
}

// fitMeanPlane returns the plane through the area weighted centroid along
// the normalized mean face normal.
func fitMeanPlane(m *geometry.Mesh, faces []int) (geometry.Plane, error) {
	mo := accumulate(m, faces, false)
	if err := checkSupport(faces, mo); err != nil {
		return geometry.Plane{}, err
	}
	n := r3.Unit(mo.normal)
	if !geometry.IsFinite(n) {
		return geometry.Plane{}, newError(ErrDegenerateInput, "face normals cancel out")
	}
	return geometry.PlaneFromPointNormal(r3.Scale(1/mo.area, mo.centroid), n), nil
}

// fitNormal returns the normalized area weighted mean normal. When the
// normals cancel out it falls back to the dominant eigenvector of the area
// weighted covariance of the face normals.
func fitNormal(m *geometry.Mesh, faces []int) (geometry.Vector3, error) {
	mo := accumulate(m, faces, false)
	if err := checkSupport(faces, mo); err != nil {
		return geometry.Vector3{}, err
	}
	if n := r3.Unit(mo.normal); geometry.IsFinite(n) {
		return n, nil
	}

	var c [6]float64
	for _, f := range faces {
		a, n := m.Area(f), m.Normal(f)
		c[0] += a * n.X * n.X
		c[1] += a * n.X * n.Y
		c[2] += a * n.X * n.Z
		c[3] += a * n.Y * n.Y
		c[4] += a * n.Y * n.Z
		c[5] += a * n.Z * n.Z
	}
	cov := mat.NewSymDense(3, []float64{
		c[0], c[1], c[2],
		c[1], c[3], c[4],
		c[2], c[4], c[5],
	})
	n, ok := eigenvector(cov, 2)
	if !ok {
		return geometry.Vector3{}, newError(ErrDegenerateInput, "no dominant normal for %d faces", len(faces))
	}
	// pick the sign that makes the largest component positive
	if math.Abs(n.X) >= math.Abs(n.Y) && math.Abs(n.X) >= math.Abs(n.Z) {
		if n.X < 0 {
			n = r3.Scale(-1, n)
		}
	} else if math.Abs(n.Y) >= math.Abs(n.Z) {
		if n.Y < 0 {
			n = r3.Scale(-1, n)
		}
	} else if n.Z < 0 {
		n = r3.Scale(-1, n)
	}
	return n, nil
}

// fitCentroid returns the area weighted centroid.
func fitCentroid(m *geometry.Mesh, faces []int) (geometry.Vector3, error) {
	mo := accumulate(m, faces, false)
	if err := checkSupport(faces, mo); err != nil {
		return geometry.Vector3{}, err
	}
	return r3.Scale(1/mo.area, mo.centroid), nil
}

// eigenvector returns the unit eigenvector of the i-th smallest eigenvalue
// of a symmetric 3x3 matrix.
func eigenvector(s *mat.SymDense, i int) (geometry.Vector3, bool) {
	var es mat.EigenSym
	if !es.Factorize(s, true) {
		return geometry.Vector3{}, false
	}
	var vecs mat.Dense
	es.VectorsTo(&vecs)
	v := r3.Unit(geometry.Vec3(vecs.At(0, i), vecs.At(1, i), vecs.At(2, i)))
	return v, geometry.IsFinite(v)
}
