package geometry

// Face is a triangle of the mesh. Area, Centroid and Normal are computed
// once when the mesh is built.
type Face struct {
	Halfedge int
	Area     float64
	Centroid Vector3
	Normal   Vector3
}

func newFace(h int, a, b, c Vector3) Face {
	return Face{
		Halfedge: h,
		Area:     TriangleArea(a, b, c),
		Centroid: TriangleCentroid(a, b, c),
		Normal:   TriangleNormal(a, b, c),
	}
}
