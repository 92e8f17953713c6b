package geometry

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMesh = errors.New("geometry: invalid mesh")
	ErrNonManifold = errors.New("geometry: non-manifold mesh")
)

type directedEdge struct {
	from, to int
}

// NewMesh builds a half-edge mesh from points and counter-clockwise
// triangles. Edges without a twin get border half-edges linked into
// boundary loops.
func NewMesh(points []Vector3, triangles [][3]int) (*Mesh, error) {
	m := &Mesh{
		Vertices:  make([]Vertex, len(points)),
		Halfedges: make([]Halfedge, 0, 3*len(triangles)+len(points)),
		Faces:     make([]Face, 0, len(triangles)),
	}
	for i, p := range points {
		if !IsFinite(p) {
			return nil, fmt.Errorf("%w: vertex %d is not finite", ErrInvalidMesh, i)
		}
		m.Vertices[i] = Vertex{Point: p, Halfedge: -1}
	}

	edges := make(map[directedEdge]int, 3*len(triangles))
	for f, t := range triangles {
		for k := 0; k < 3; k++ {
			if t[k] < 0 || t[k] >= len(points) {
				return nil, fmt.Errorf("%w: face %d references vertex %d", ErrInvalidMesh, f, t[k])
			}
		}
		if t[0] == t[1] || t[1] == t[2] || t[2] == t[0] {
			return nil, fmt.Errorf("%w: face %d repeats a vertex", ErrInvalidMesh, f)
		}
		base := len(m.Halfedges)
		for k := 0; k < 3; k++ {
			e := directedEdge{t[k], t[(k+1)%3]}
			if _, dup := edges[e]; dup {
				return nil, fmt.Errorf("%w: edge %d->%d used twice", ErrNonManifold, e.from, e.to)
			}
			edges[e] = base + k
			m.Halfedges = append(m.Halfedges, Halfedge{
				Next:     base + (k+1)%3,
				Prev:     base + (k+2)%3,
				Opposite: -1,
				Vertex:   e.to,
				Face:     f,
			})
		}
		m.Faces = append(m.Faces, newFace(base, points[t[0]], points[t[1]], points[t[2]]))
	}

	interior := len(m.Halfedges)
	for h := 0; h < interior; h++ {
		if m.Halfedges[h].Opposite >= 0 {
			continue
		}
		from, to := m.Source(h), m.Halfedges[h].Vertex
		if o, ok := edges[directedEdge{to, from}]; ok {
			m.Halfedges[h].Opposite = o
			m.Halfedges[o].Opposite = h
			continue
		}
		b := len(m.Halfedges)
		m.Halfedges = append(m.Halfedges, Halfedge{Next: -1, Prev: -1, Opposite: h, Vertex: from, Face: -1})
		m.Halfedges[h].Opposite = b
	}

	// Link border half-edges: the successor of a border half-edge is the
	// border half-edge leaving its target.
	leaving := make(map[int]int)
	for b := interior; b < len(m.Halfedges); b++ {
		src := m.Halfedges[m.Halfedges[b].Opposite].Vertex
		if _, dup := leaving[src]; dup {
			return nil, fmt.Errorf("%w: vertex %d joins two boundary fans", ErrNonManifold, src)
		}
		leaving[src] = b
	}
	for b := interior; b < len(m.Halfedges); b++ {
		next, ok := leaving[m.Halfedges[b].Vertex]
		if !ok {
			return nil, fmt.Errorf("%w: open boundary at vertex %d", ErrNonManifold, m.Halfedges[b].Vertex)
		}
		m.Halfedges[b].Next = next
		m.Halfedges[next].Prev = b
	}

	for h, e := range m.Halfedges {
		v := &m.Vertices[e.Vertex]
		if v.Halfedge < 0 || e.Face < 0 {
			v.Halfedge = h
		}
	}
	return m, nil
}

// FromCoords builds a mesh from flat coordinates, stride floats per vertex
// with x, y, z first, and flat triangle indices.
func FromCoords(coords []float64, stride int, indices []int) (*Mesh, error) {
	if stride < 3 {
		return nil, fmt.Errorf("%w: stride %d is smaller than 3", ErrInvalidMesh, stride)
	}
	if len(coords)%stride != 0 || len(indices)%3 != 0 {
		return nil, fmt.Errorf("%w: %d coordinates, %d indices", ErrInvalidMesh, len(coords), len(indices))
	}
	points := make([]Vector3, len(coords)/stride)
	for i := range points {
		points[i] = Vec3(coords[i*stride], coords[i*stride+1], coords[i*stride+2])
	}
	triangles := make([][3]int, len(indices)/3)
	for i := range triangles {
		triangles[i] = [3]int{indices[3*i], indices[3*i+1], indices[3*i+2]}
	}
	return NewMesh(points, triangles)
}
