package geometry

// Mesh is an index based half-edge triangle mesh. A Mesh is not modified
// after construction and may be shared.
type Mesh struct {
	Vertices  []Vertex
	Halfedges []Halfedge
	Faces     []Face
}

func (m *Mesh) NumVertices() int { return len(m.Vertices) }
func (m *Mesh) NumFaces() int { return len(m.Faces) }
func (m *Mesh) NumHalfedges() int { return len(m.Halfedges) }

func (m *Mesh) Next(h int) int { return m.Halfedges[h].Next }
func (m *Mesh) Prev(h int) int { return m.Halfedges[h].Prev }
func (m *Mesh) Opposite(h int) int { return m.Halfedges[h].Opposite }
func (m *Mesh) Target(h int) int { return m.Halfedges[h].GetTargetVertex() }
func (m *Mesh) Source(h int) int { return m.Halfedges[m.Halfedges[h].Prev].Vertex }

// FaceOf returns the face left of h, or -1 for a border half-edge.
func (m *Mesh) FaceOf(h int) int { return m.Halfedges[h].Face }
func (m *Mesh) IsBorder(h int) bool { return m.Halfedges[h].IsBorder() }
func (m *Mesh) FaceHalfedge(f int) int { return m.Faces[f].Halfedge }

func (m *Mesh) Point(v int) Vector3 { return m.Vertices[v].Point }
func (m *Mesh) Area(f int) float64 { return m.Faces[f].Area }
func (m *Mesh) Centroid(f int) Vector3 { return m.Faces[f].Centroid }
func (m *Mesh) Normal(f int) Vector3 { return m.Faces[f].Normal }

// FaceVertices returns the vertices of f in counter-clockwise order.
func (m *Mesh) FaceVertices(f int) [3]int {
	h := m.FaceHalfedge(f)
	return [3]int{m.Source(h), m.Target(h), m.Target(m.Next(h))}
}

func (m *Mesh) FacePoints(f int) [3]Vector3 {
	vs := m.FaceVertices(f)
	return [3]Vector3{m.Point(vs[0]), m.Point(vs[1]), m.Point(vs[2])}
}

// FaceNeighbors returns the faces across the three edges of f, in the
// order of its half-edges. Border edges yield -1.
func (m *Mesh) FaceNeighbors(f int) [3]int {
	h := m.Faces[f].Halfedge
	var out [3]int
	for i := 0; i < 3; i++ {
		out[i] = m.Halfedges[m.Halfedges[h].Opposite].Face
		h = m.Halfedges[h].Next
	}
	return out
}

// IncomingHalfedges returns the half-edges pointing to v, circulating
// around the vertex. Border half-edges are included.
func (m *Mesh) IncomingHalfedges(v int) []int {
	start := m.Vertices[v].Halfedge
	if start < 0 {
		return nil
	}
	var out []int
	h := start
	for i := 0; i < len(m.Halfedges); i++ {
		out = append(out, h)
		h = m.Halfedges[m.Halfedges[h].Next].Opposite
		if h == start {
			break
		}
	}
	return out
}

// IsBoundaryVertex reports whether v lies on a border loop.
func (m *Mesh) IsBoundaryVertex(v int) bool {
	h := m.Vertices[v].Halfedge
	return h >= 0 && m.Halfedges[h].Face < 0
}
