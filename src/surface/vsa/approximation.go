package vsa

import (
	"log/slog"
	"math"
	"math/rand"

	"meshapprox/src/surface/geometry"
)

type proxy[P any] struct {
	id     int
	seed   int // face of least error in the region
	fit    P
	fitted bool
}

// ProxyInfo summarizes one live proxy.
type ProxyInfo struct {
	ID     int
	Seed   int
	Faces  int
	Area   float64
	Error  float64
	Fitted bool
}

// Approximation partitions the faces of a mesh into regions, each
// represented by a proxy of type P, and refines the partition with Lloyd
// iterations. An Approximation is not safe for concurrent use.
//
// Proxies live in an arena indexed by id. Retired ids stay empty and are
// not handed out again until the next Seed or SetMesh.
type Approximation[P any] struct {
	mesh   *geometry.Mesh
	metric Metric[P]
	opts   Options
	log    *slog.Logger
	rng    *rand.Rand

	proxies []*proxy[P]
	assign  []int // face -> proxy id, -1 before seeding

	// initialError is the error of one proxy fitted to the whole mesh.
	initialError float64
}

func NewApproximation[P any](m *geometry.Mesh, metric Metric[P], opts Options) *Approximation[P] {
	opts = opts.withDefaults()
	a := &Approximation[P]{
		metric: metric,
		opts:   opts,
		log:    opts.Logger,
	}
	a.SetMesh(m)
	return a
}

// SetMesh discards every proxy and assignment and binds a new mesh.
func (a *Approximation[P]) SetMesh(m *geometry.Mesh) {
	a.mesh = m
	a.reset()
}

func (a *Approximation[P]) reset() {
	a.initialError = 0
	a.clear()
}

// clear drops every proxy and unassigns every face.
func (a *Approximation[P]) clear() {
	a.proxies = nil
	a.assign = nil
	if a.mesh != nil {
		a.assign = make([]int, a.mesh.NumFaces())
		for i := range a.assign {
			a.assign[i] = -1
		}
	}
}

func (a *Approximation[P]) Mesh() *geometry.Mesh { return a.mesh }

func (a *Approximation[P]) seeded() bool {
	return a.mesh != nil && len(a.assign) > 0 && a.assign[0] >= 0
}

// NumProxies returns the number of live proxies.
func (a *Approximation[P]) NumProxies() int {
	n := 0
	for _, px := range a.proxies {
		if px != nil {
			n++
		}
	}
	return n
}

// ProxyIDs returns the ids of the live proxies in increasing order.
func (a *Approximation[P]) ProxyIDs() []int {
	ids := make([]int, 0, len(a.proxies))
	for _, px := range a.proxies {
		if px != nil {
			ids = append(ids, px.id)
		}
	}
	return ids
}

// Proxy returns the fitted proxy with the given id.
func (a *Approximation[P]) Proxy(id int) (P, bool) {
	if id < 0 || id >= len(a.proxies) || a.proxies[id] == nil || !a.proxies[id].fitted {
		var zero P
		return zero, false
	}
	return a.proxies[id].fit, true
}

// ProxyMap returns a copy of the face to proxy id assignment.
func (a *Approximation[P]) ProxyMap() []int {
	return append([]int(nil), a.assign...)
}

// Proxies returns a summary of every live proxy, ordered by id.
func (a *Approximation[P]) Proxies() []ProxyInfo {
	infos := make([]ProxyInfo, len(a.proxies))
	for f, id := range a.assign {
		if id < 0 || id >= len(infos) {
			continue
		}
		infos[id].Faces++
		infos[id].Area += a.mesh.Area(f)
		infos[id].Error += a.fitError(f)
	}
	out := make([]ProxyInfo, 0, len(infos))
	for id, px := range a.proxies {
		if px == nil {
			continue
		}
		info := infos[id]
		info.ID, info.Seed, info.Fitted = id, px.seed, px.fitted
		out = append(out, info)
	}
	return out
}

// TotalError sums the error of every face against its proxy. Faces of a
// proxy that could not be fitted contribute nothing.
func (a *Approximation[P]) TotalError() float64 {
	sum := 0.0
	for f := range a.assign {
		sum += a.fitError(f)
	}
	return sum
}

// fitError is the error of f against its own proxy, 0 when unfitted.
func (a *Approximation[P]) fitError(f int) float64 {
	id := a.assign[f]
	if id < 0 || a.proxies[id] == nil || !a.proxies[id].fitted {
		return 0
	}
	return a.metric.Error(a.mesh, f, a.proxies[id].fit)
}

// faceError is the error of f against proxy id, +Inf when the proxy is
// retired or unfitted.
func (a *Approximation[P]) faceError(f, id int) float64 {
	if id < 0 || id >= len(a.proxies) || a.proxies[id] == nil || !a.proxies[id].fitted {
		return math.Inf(1)
	}
	return a.metric.Error(a.mesh, f, a.proxies[id].fit)
}

// regions returns the faces of every proxy in increasing face order,
// indexed by proxy id.
func (a *Approximation[P]) regions() [][]int {
	out := make([][]int, len(a.proxies))
	for f, id := range a.assign {
		if id >= 0 {
			out[id] = append(out[id], f)
		}
	}
	return out
}

// newProxy creates a proxy seeded at face f, moves f into it and fits it.
func (a *Approximation[P]) newProxy(f int) int {
	id := len(a.proxies)
	a.proxies = append(a.proxies, &proxy[P]{id: id, seed: f})
	a.assign[f] = id
	a.fitProxy(id, []int{f})
	return id
}

func (a *Approximation[P]) fitProxy(id int, faces []int) {
	px := a.proxies[id]
	fit, err := a.metric.Fit(a.mesh, faces)
	if err != nil {
		if px.fitted || len(faces) > 0 {
			a.log.Warn("vsa: proxy left unfitted", "proxy", id, "faces", len(faces), "err", err)
		}
		px.fitted = false
		return
	}
	px.fit, px.fitted = fit, true

	best := math.Inf(1)
	for _, f := range faces {
		if e := a.metric.Error(a.mesh, f, fit); e < best {
			best, px.seed = e, f
		}
	}
}

// refit refits every live proxy in scope, or all of them when scope is nil.
func (a *Approximation[P]) refit(scope map[int]bool) {
	regions := a.regions()
	for id, px := range a.proxies {
		if px == nil || (scope != nil && !scope[id]) {
			continue
		}
		a.fitProxy(id, regions[id])
	}
}

// retireEmpty deletes proxies that lost all their faces.
func (a *Approximation[P]) retireEmpty() {
	count := make([]int, len(a.proxies))
	for _, id := range a.assign {
		if id >= 0 {
			count[id]++
		}
	}
	for id, px := range a.proxies {
		if px != nil && count[id] == 0 {
			a.log.Debug("vsa: retiring empty proxy", "proxy", id)
			a.proxies[id] = nil
		}
	}
}

type state[P any] struct {
	proxies []proxy[P]
	live    []bool
	assign  []int
}

func (a *Approximation[P]) snapshot() state[P] {
	s := state[P]{
		proxies: make([]proxy[P], len(a.proxies)),
		live:    make([]bool, len(a.proxies)),
		assign:  append([]int(nil), a.assign...),
	}
	for i, px := range a.proxies {
		if px != nil {
			s.proxies[i], s.live[i] = *px, true
		}
	}
	return s
}

func (a *Approximation[P]) restore(s state[P]) {
	a.proxies = make([]*proxy[P], len(s.proxies))
	for i := range s.proxies {
		if s.live[i] {
			px := s.proxies[i]
			a.proxies[i] = &px
		}
	}
	a.assign = s.assign
}

// checkPartition verifies that every face belongs to a live proxy.
func (a *Approximation[P]) checkPartition() error {
	if a.mesh == nil {
		return ErrNoMesh
	}
	for f, id := range a.assign {
		if id < 0 || id >= len(a.proxies) || a.proxies[id] == nil {
			return newError(ErrInvalidPartition, "face %d is assigned to proxy %d", f, id)
		}
	}
	return nil
}
