package vsa

import (
	"fmt"

	"meshapprox/src/surface/geometry"
)

// Approximator is the metric independent view of an Approximation.
type Approximator interface {
	SetMesh(m *geometry.Mesh)
	Mesh() *geometry.Mesh

	Seed(method SeedMethod, target Target, innerIterations int) (int, error)
	RunOneStep() int
	Run(maxIterations int) int

	AddProxiesFurthest(n int, excluded []int) int
	AddOneProxy() bool
	TeleportProxies(n int, excluded []int, considerError bool) int
	TeleportOneProxy() bool

	ExtractMesh(chordError float64, pcaPlane bool) (*Result, error)

	ProxyMap() []int
	ProxyIDs() []int
	NumProxies() int
	TotalError() float64
	Proxies() []ProxyInfo
}

var (
	_ Approximator = (*Approximation[geometry.Vector3])(nil)
	_ Approximator = (*Approximation[geometry.Plane])(nil)
)

// New returns an Approximator of m using one of the built-in metrics.
func New(m *geometry.Mesh, kind MetricKind, opts Options) (Approximator, error) {
	switch kind {
	case L21:
		return NewApproximation[geometry.Vector3](m, NormalMetric{}, opts), nil
	case L2:
		return NewApproximation[geometry.Plane](m, PlanarMetric{}, opts), nil
	case Compact:
		return NewApproximation[geometry.Vector3](m, PointMetric{}, opts), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrInvalidMetric, int(kind))
}

// Engine keeps a mesh across metric changes. Changing the metric, like
// changing the mesh, drops the partition.
type Engine struct {
	Approximator
	kind MetricKind
	opts Options
}

// NewEngine returns an engine for opts.Metric. The mesh may be set later.
func NewEngine(m *geometry.Mesh, opts Options) (*Engine, error) {
	a, err := New(m, opts.Metric, opts)
	if err != nil {
		return nil, err
	}
	return &Engine{Approximator: a, kind: opts.Metric, opts: opts}, nil
}

func (e *Engine) Metric() MetricKind { return e.kind }

func (e *Engine) SetMetric(kind MetricKind) error {
	a, err := New(e.Mesh(), kind, e.opts)
	if err != nil {
		return err
	}
	e.Approximator, e.kind = a, kind
	return nil
}

// Segment seeds and relaxes a partition of m as configured by opts and
// returns the proxy of every face.
func Segment(m *geometry.Mesh, opts Options) ([]int, error) {
	a, err := prepare(m, opts)
	if err != nil {
		return nil, err
	}
	return a.ProxyMap(), nil
}

// Approximate seeds and relaxes a partition of m as configured by opts and
// extracts its simplified mesh.
func Approximate(m *geometry.Mesh, opts Options) (*Result, error) {
	a, err := prepare(m, opts)
	if err != nil {
		return nil, err
	}
	return a.ExtractMesh(opts.ChordError, opts.PCAPlane)
}

func prepare(m *geometry.Mesh, opts Options) (Approximator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	a, err := New(m, opts.Metric, opts)
	if err != nil {
		return nil, err
	}
	if _, err := a.Seed(opts.Seeding, opts.Target(), opts.InnerIterations); err != nil {
		return nil, err
	}
	if opts.Iterations > 0 {
		a.Run(opts.Iterations)
	}
	return a, nil
}
