package vsa

import (
	"fmt"
	"math"
	"math/rand"
)

// Seed discards the current partition and builds a new one with the given
// method until target is met. innerIterations relaxation steps follow
// every proxy added by the incremental and hierarchical methods. It returns
// the number of proxies. On error the previous partition is kept.
func (a *Approximation[P]) Seed(method SeedMethod, target Target, innerIterations int) (int, error) {
	if a.mesh == nil || a.mesh.NumFaces() == 0 {
		return 0, ErrNoMesh
	}
	if !target.valid() || target.MaxProxies < 0 || target.MinErrorDrop < 0 || target.MinErrorDrop >= 1 {
		return 0, newError(ErrInvalidTarget, "max proxies %d, min error drop %v", target.MaxProxies, target.MinErrorDrop)
	}

	saved, savedInitial := a.snapshot(), a.initialError
	a.reset()
	a.rng = rand.New(rand.NewSource(a.opts.RandomSeed))

	err := a.seed(method, target, innerIterations)
	if err == nil {
		err = a.checkPartition()
	}
	if err != nil {
		a.restore(saved)
		a.initialError = savedInitial
		return 0, err
	}
	a.log.Info("vsa: seeded", "method", method, "proxies", a.NumProxies(), "error", a.TotalError(), "initial_error", a.initialError)
	return a.NumProxies(), nil
}

func (a *Approximation[P]) seed(method SeedMethod, target Target, inner int) error {
	initial, err := a.wholeMeshError()
	if err != nil {
		return err
	}
	a.initialError = initial

	switch method {
	case Random:
		a.seedRandom(target)
	case Incremental:
		a.seedIncremental(target, inner)
	case Hierarchical:
		a.seedHierarchical(target, inner)
	default:
		return fmt.Errorf("vsa: unknown seeding method %d", int(method))
	}
	return nil
}

// wholeMeshError is the error of a single proxy fitted to every face.
func (a *Approximation[P]) wholeMeshError() (float64, error) {
	faces := make([]int, a.mesh.NumFaces())
	for f := range faces {
		faces[f] = f
	}
	fit, err := a.metric.Fit(a.mesh, faces)
	if err != nil {
		return 0, err
	}
	sum := 0.0
	for _, f := range faces {
		sum += a.metric.Error(a.mesh, f, fit)
	}
	return sum, nil
}

func (a *Approximation[P]) reached(t Target) bool {
	if t.MaxProxies > 0 && a.NumProxies() >= t.MaxProxies {
		return true
	}
	return t.MinErrorDrop > 0 && a.TotalError() <= t.MinErrorDrop*a.initialError
}

// seedRandom grows regions breadth first from distinct random faces. When
// only an error drop is targeted, the number of seeds doubles until the
// target is met.
func (a *Approximation[P]) seedRandom(t Target) {
	n := a.mesh.NumFaces()
	perm := a.rng.Perm(n)
	limit := n
	if t.MaxProxies > 0 && t.MaxProxies < n {
		limit = t.MaxProxies
	}
	k := limit
	if t.MinErrorDrop > 0 {
		k = 1
	}
	for {
		a.clear()
		a.floodSeeds(perm[:k])
		a.refit(nil)
		if k >= limit || a.reached(t) {
			return
		}
		k = min(2*k, limit)
	}
}

// floodSeeds creates a proxy per seed and assigns every face to the seed
// closest in face adjacency steps, the first to reach a face winning.
// Components of the mesh without a seed get one at their lowest face.
func (a *Approximation[P]) floodSeeds(seeds []int) {
	frontier := make([]int, 0, len(seeds))
	for _, f := range seeds {
		a.newProxy(f)
		frontier = append(frontier, f)
	}
	a.flood(frontier)
	for f := range a.assign {
		if a.assign[f] < 0 {
			a.log.Debug("vsa: seeding unreached component", "face", f)
			a.newProxy(f)
			a.flood([]int{f})
		}
	}
}

func (a *Approximation[P]) flood(frontier []int) {
	for len(frontier) > 0 {
		f := frontier[0]
		frontier = frontier[1:]
		for _, g := range a.mesh.FaceNeighbors(f) {
			if g >= 0 && a.assign[g] < 0 {
				a.assign[g] = a.assign[f]
				frontier = append(frontier, g)
			}
		}
	}
}

// wholeProxy assigns every face to one new proxy.
func (a *Approximation[P]) wholeProxy() {
	id := len(a.proxies)
	a.proxies = append(a.proxies, &proxy[P]{id: id})
	for f := range a.assign {
		a.assign[f] = id
	}
	a.refit(nil)
}

// seedIncremental starts from one proxy and keeps seeding a new proxy at
// the worst represented face.
func (a *Approximation[P]) seedIncremental(t Target, inner int) {
	a.wholeProxy()
	for i := 0; i < a.mesh.NumFaces() && !a.reached(t); i++ {
		f := a.worstFace(nil)
		if f < 0 {
			break
		}
		a.newProxy(f)
		a.relax(inner)
	}
}

// seedHierarchical starts from one proxy and keeps splitting the proxy of
// largest total error in two.
func (a *Approximation[P]) seedHierarchical(t Target, inner int) {
	a.wholeProxy()
	for i := 0; i < a.mesh.NumFaces() && !a.reached(t); i++ {
		id := a.worstProxy()
		if id < 0 {
			break
		}
		a.bisect(id)
		a.relax(inner)
	}
}

// worstFace returns the face of largest error among proxies that keep at
// least one face after losing it and are not excluded, lowest face first
// on ties. It returns -1 when there is none.
func (a *Approximation[P]) worstFace(excluded map[int]bool) int {
	counts := a.faceCounts()
	worst, worstErr := -1, math.Inf(-1)
	for f, id := range a.assign {
		if counts[id] < 2 || excluded[id] {
			continue
		}
		if e := a.fitError(f); e > worstErr {
			worst, worstErr = f, e
		}
	}
	return worst
}

// worstProxy returns the splittable proxy of largest total error.
func (a *Approximation[P]) worstProxy() int {
	counts := a.faceCounts()
	sums := make([]float64, len(a.proxies))
	for f, id := range a.assign {
		sums[id] += a.fitError(f)
	}
	worst, worstErr := -1, math.Inf(-1)
	for id, px := range a.proxies {
		if px == nil || counts[id] < 2 {
			continue
		}
		if sums[id] > worstErr {
			worst, worstErr = id, sums[id]
		}
	}
	return worst
}

func (a *Approximation[P]) faceCounts() []int {
	counts := make([]int, len(a.proxies))
	for _, id := range a.assign {
		if id >= 0 {
			counts[id]++
		}
	}
	return counts
}

// bisect splits the region of proxy id between its seed and its worst
// face. Both halves grow by increasing error inside the region only.
func (a *Approximation[P]) bisect(id int) {
	faces := a.regions()[id]
	in := make(map[int]bool, len(faces))
	for _, f := range faces {
		in[f] = true
	}

	s1 := a.proxies[id].seed
	if !in[s1] {
		s1 = faces[0]
	}
	s2, worstErr := -1, math.Inf(-1)
	for _, f := range faces {
		if f == s1 {
			continue
		}
		if e := a.fitError(f); e > worstErr {
			s2, worstErr = f, e
		}
	}

	for _, f := range faces {
		a.assign[f] = -1
	}
	a.assign[s1] = id
	a.fitProxy(id, []int{s1})
	child := a.newProxy(s2)

	q := &growQueue{}
	offer := func(f int) {
		for _, g := range a.mesh.FaceNeighbors(f) {
			if g >= 0 && in[g] && a.assign[g] < 0 {
				q.push(a.faceError(g, a.assign[f]), g, a.assign[f])
			}
		}
	}
	offer(s1)
	offer(s2)
	for q.Len() > 0 {
		c := q.pop()
		if a.assign[c.face] >= 0 {
			continue
		}
		a.assign[c.face] = c.proxy
		offer(c.face)
	}
	for _, f := range faces {
		if a.assign[f] < 0 {
			a.assign[f] = id
		}
	}
	a.refit(map[int]bool{id: true, child: true})
	a.log.Debug("vsa: split proxy", "proxy", id, "child", child, "faces", len(faces))
}
