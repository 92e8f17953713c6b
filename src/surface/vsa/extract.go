package vsa

import (
	"log/slog"
	"math"
	"sort"

	"meshapprox/src/surface/geometry"

	"gonum.org/v1/gonum/spatial/r3"
)

// SharpTurnAngle is the turning angle, in radians, above which a vertex on
// a region border becomes an anchor.
const SharpTurnAngle = math.Pi / 8

// Result is the simplified mesh extracted from a partition.
type Result struct {
	// AnchorPoints holds one point per anchor, in increasing order of
	// AnchorVertices.
	AnchorPoints   []geometry.Vector3
	AnchorVertices []int

	// Polygons lists every region border as a cycle of anchor indices.
	// PolygonProxies holds the proxy each polygon bounds and Holes the
	// indices of the polygons that wind clockwise around their proxy.
	// Hole polygons are not triangulated. The outer polygon of a ring
	// shaped region is triangulated as if it were filled, so its triangles
	// overlap the regions it encloses.
	Polygons       [][]int
	PolygonProxies []int
	Holes          []int

	// Triangles is a flat list of anchor index triples.
	Triangles []int
}

func (r *Result) NumTriangles() int { return len(r.Triangles) / 3 }

// ExtractMesh builds the simplified mesh of the current partition. Border
// vertices where three regions meet, or where the border turns sharply,
// become anchors. More anchors are added until no border vertex lies
// farther than chordError from the chord joining its two anchors. Each
// anchor is placed on the planes of its regions, fitted by least squares
// when pcaPlane is set and through the mean normal otherwise.
//
// On error no result is returned and the partition is left untouched.
func (a *Approximation[P]) ExtractMesh(chordError float64, pcaPlane bool) (res *Result, err error) {
	defer func() {
		if err != nil {
			res = nil
		}
	}()
	defer checkError(&err)

	if err := a.checkPartition(); err != nil {
		return nil, err
	}
	if chordError < 0 {
		chordError = 0
	}

	x := &extractor{
		m:      a.mesh,
		assign: a.assign,
		log:    a.log,
	}
	x.planes, x.valid = a.extractionPlanes(pcaPlane)

	chains, err := x.chains()
	if err != nil {
		return nil, err
	}
	anchor := x.anchors(chains)
	x.subdivide(chains, anchor, chordError)

	res = x.build(chains, anchor)
	a.log.Info("vsa: extracted mesh", "anchors", len(res.AnchorVertices), "polygons", len(res.Polygons), "triangles", res.NumTriangles())
	return res, nil
}

func (a *Approximation[P]) extractionPlanes(pca bool) ([]geometry.Plane, []bool) {
	fit := fitMeanPlane
	if pca {
		fit = fitPlane
	}
	planes := make([]geometry.Plane, len(a.proxies))
	valid := make([]bool, len(a.proxies))
	for id, faces := range a.regions() {
		if a.proxies[id] == nil {
			continue
		}
		pl, err := fit(a.mesh, faces)
		if err == nil && !pl.IsValid() {
			err = newError(ErrDegenerateInput, "plane of proxy %d is not finite", id)
		}
		if err != nil {
			a.log.Warn("vsa: no extraction plane", "proxy", id, "err", err)
			continue
		}
		planes[id], valid[id] = pl, true
	}
	return planes, valid
}

// chain is a closed loop of border half-edges of one region. Its vertices
// are the sources of its half-edges.
type chain struct {
	proxy int
	edges []int
}

type extractor struct {
	m      *geometry.Mesh
	assign []int
	planes []geometry.Plane
	valid  []bool
	log    *slog.Logger
}

// region returns the proxy of the face left of h, or -1 outside the mesh.
func (x *extractor) region(h int) int {
	f := x.m.FaceOf(h)
	if f < 0 {
		return -1
	}
	return x.assign[f]
}

// isBoundary reports whether h is an interior half-edge whose opposite
// lies in another region or outside the mesh.
func (x *extractor) isBoundary(h int) bool {
	return !x.m.IsBorder(h) && x.region(h) != x.region(x.m.Opposite(h))
}

// nextBoundary returns the border half-edge of the same region that leaves
// the target of e, turning around the vertex inside the region.
func (x *extractor) nextBoundary(e int) (int, error) {
	c := x.m.Next(e)
	for i := 0; i < x.m.NumHalfedges(); i++ {
		if x.isBoundary(c) {
			return c, nil
		}
		c = x.m.Next(x.m.Opposite(c))
	}
	return -1, newError(ErrInvalidPartition, "no border leaves vertex %d", x.m.Target(e))
}

func (x *extractor) chains() ([]chain, error) {
	n := x.m.NumHalfedges()
	visited := make([]bool, n)
	var out []chain
	for h := 0; h < n; h++ {
		if visited[h] || !x.isBoundary(h) {
			continue
		}
		c := chain{proxy: x.region(h)}
		for e := h; ; {
			if visited[e] {
				return nil, newError(ErrInvalidPartition, "border of proxy %d does not close at half-edge %d", c.proxy, h)
			}
			visited[e] = true
			c.edges = append(c.edges, e)

			next, err := x.nextBoundary(e)
			if err != nil {
				return nil, err
			}
			if next == h {
				break
			}
			e = next
		}
		out = append(out, c)
	}
	return out, nil
}

func (x *extractor) vertices(c chain) []int {
	vs := make([]int, len(c.edges))
	for i, e := range c.edges {
		vs[i] = x.m.Source(e)
	}
	return vs
}

// anchors marks the vertices where three or more regions meet, where more
// than two border edges meet, or where a border turns sharply. Every chain
// gets at least three anchors when it has three distinct vertices.
func (x *extractor) anchors(chains []chain) []bool {
	anchor := make([]bool, x.m.NumVertices())
	for v := range anchor {
		regions := make(map[int]bool)
		borders := 0
		for _, h := range x.m.IncomingHalfedges(v) {
			id := x.region(h)
			if id >= 0 {
				regions[id] = true
			}
			if id != x.region(x.m.Opposite(h)) {
				borders++
			}
		}
		// the outside of an open mesh counts as a region
		n := len(regions)
		if x.m.IsBoundaryVertex(v) {
			n++
		}
		if n >= 3 || borders > 2 {
			anchor[v] = true
		}
	}

	for _, c := range chains {
		vs := x.vertices(c)
		for i, v := range vs {
			if anchor[v] {
				continue
			}
			prev := x.m.Point(vs[(i+len(vs)-1)%len(vs)])
			next := x.m.Point(vs[(i+1)%len(vs)])
			if turnAngle(prev, x.m.Point(v), next) > SharpTurnAngle {
				anchor[v] = true
			}
		}
	}

	for _, c := range chains {
		x.ensureAnchors(x.vertices(c), anchor)
	}
	return anchor
}

// turnAngle returns the angle between the directions b-a and c-b.
func turnAngle(a, b, c geometry.Vector3) float64 {
	d1, d2 := r3.Sub(b, a), r3.Sub(c, b)
	l := r3.Norm(d1) * r3.Norm(d2)
	if l <= geometry.Epsilon {
		return 0
	}
	cos := r3.Dot(d1, d2) / l
	return math.Acos(math.Max(-1, math.Min(1, cos)))
}

// ensureAnchors promotes chain vertices until the chain has three distinct
// anchors: the lowest vertex first when none exists, then the vertex
// farthest from the anchors already chosen.
func (x *extractor) ensureAnchors(vs []int, anchor []bool) {
	distinct := make(map[int]bool)
	var have []int
	for _, v := range vs {
		if !distinct[v] {
			distinct[v] = true
			if anchor[v] {
				have = append(have, v)
			}
		}
	}
	if len(distinct) < 3 {
		return
	}
	if len(have) == 0 {
		low := vs[0]
		for _, v := range vs {
			low = min(low, v)
		}
		anchor[low] = true
		have = append(have, low)
	}
	for len(have) < 3 {
		far, farDist := -1, -1.0
		for _, v := range vs {
			if anchor[v] {
				continue
			}
			d := math.Inf(1)
			for _, w := range have {
				d = math.Min(d, r3.Norm(r3.Sub(x.m.Point(v), x.m.Point(w))))
			}
			if d > farDist || (d == farDist && v < far) {
				far, farDist = v, d
			}
		}
		anchor[far] = true
		have = append(have, far)
	}
}

// subdivide adds anchors until every border vertex lies within chordError
// of the chord between the anchors around it. Anchors are shared between
// chains, so the loop runs until no chain changes.
func (x *extractor) subdivide(chains []chain, anchor []bool, chordError float64) {
	for changed := true; changed; {
		changed = false
		for _, c := range chains {
			if x.subdivideChain(x.vertices(c), anchor, chordError) {
				changed = true
			}
		}
	}
}

func (x *extractor) subdivideChain(vs []int, anchor []bool, chordError float64) bool {
	var at []int
	for i, v := range vs {
		if anchor[v] {
			at = append(at, i)
		}
	}
	if len(at) == 0 {
		return false
	}
	changed := false
	for k, i := range at {
		j := at[(k+1)%len(at)]
		if j <= i {
			j += len(vs)
		}
		a, b := x.m.Point(vs[i]), x.m.Point(vs[j%len(vs)])
		far, farDist := -1, chordError
		for s := i + 1; s < j; s++ {
			v := vs[s%len(vs)]
			d := geometry.SegmentDistance(x.m.Point(v), a, b)
			if d > farDist || (far >= 0 && d == farDist && v < far) {
				far, farDist = v, d
			}
		}
		if far >= 0 && !anchor[far] {
			anchor[far] = true
			changed = true
		}
	}
	return changed
}

// anchorPoint places v at the mean of its projections onto the planes of
// the regions around it.
func (x *extractor) anchorPoint(v int) geometry.Vector3 {
	p := x.m.Point(v)
	seen := make(map[int]bool)
	var sum geometry.Vector3
	n := 0
	for _, h := range x.m.IncomingHalfedges(v) {
		id := x.region(h)
		if id < 0 || seen[id] || !x.valid[id] {
			continue
		}
		seen[id] = true
		sum = r3.Add(sum, x.planes[id].Project(p))
		n++
	}
	if n == 0 {
		return p
	}
	return r3.Scale(1/float64(n), sum)
}

func (x *extractor) build(chains []chain, anchor []bool) *Result {
	res := &Result{}
	index := make([]int, len(anchor))
	for v, ok := range anchor {
		index[v] = -1
		if ok {
			index[v] = len(res.AnchorVertices)
			res.AnchorVertices = append(res.AnchorVertices, v)
			res.AnchorPoints = append(res.AnchorPoints, x.anchorPoint(v))
		}
	}

	sort.SliceStable(chains, func(i, j int) bool { return chains[i].proxy < chains[j].proxy })
	for _, c := range chains {
		var poly []int
		for _, v := range x.vertices(c) {
			if i := index[v]; i >= 0 && (len(poly) == 0 || poly[len(poly)-1] != i) {
				poly = append(poly, i)
			}
		}
		if len(poly) > 1 && poly[0] == poly[len(poly)-1] {
			poly = poly[:len(poly)-1]
		}
		k := len(res.Polygons)
		res.Polygons = append(res.Polygons, poly)
		res.PolygonProxies = append(res.PolygonProxies, c.proxy)

		if len(poly) < 3 {
			continue
		}
		if !x.valid[c.proxy] {
			x.log.Warn("vsa: polygon left open", "proxy", c.proxy, "reason", "no plane")
			continue
		}
		tris, hole := triangulate(res.AnchorPoints, poly, x.planes[c.proxy].Normal)
		if hole {
			x.log.Warn("vsa: hole left open", "proxy", c.proxy, "anchors", len(poly))
			res.Holes = append(res.Holes, k)
			continue
		}
		res.Triangles = append(res.Triangles, tris...)
	}
	return res
}
