package geometry

type Vertex struct {
	Point Vector3

	// Halfedge is a half-edge pointing to this vertex. Boundary vertices
	// keep a border half-edge here; isolated vertices hold -1.
	Halfedge int
}
