package geometry

// Halfedge is one oriented side of a mesh edge. Half-edges of a face form a
// counter-clockwise cycle through Next. Border half-edges have no face
// (Face == -1) and cycle around the mesh boundary.
type Halfedge struct {
	Next     int
	Prev     int
	Opposite int
	Vertex   int // target
	Face     int
}

func (e Halfedge) IsBorder() bool {
	return e.Face < 0
}

func (e Halfedge) GetTargetVertex() int {
	return e.Vertex
}
