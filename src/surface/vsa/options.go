package vsa

import (
	"fmt"
	"log/slog"
	"strings"
)

// MetricKind selects one of the built-in metrics.
type MetricKind int

const (
	L21 MetricKind = iota
	L2
	Compact
)

var metricNames = [...]string{"l21", "l2", "compact"}

func (k MetricKind) String() string {
	if k < 0 || int(k) >= len(metricNames) {
		return fmt.Sprintf("MetricKind(%d)", int(k))
	}
	return metricNames[k]
}

func (k MetricKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *MetricKind) UnmarshalText(text []byte) error {
	for i, name := range metricNames {
		if strings.EqualFold(string(text), name) {
			*k = MetricKind(i)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidMetric, text)
}

// SeedMethod selects how the initial partition is built.
type SeedMethod int

const (
	Random SeedMethod = iota
	Incremental
	Hierarchical
)

var seedNames = [...]string{"random", "incremental", "hierarchical"}

func (s SeedMethod) String() string {
	if s < 0 || int(s) >= len(seedNames) {
		return fmt.Sprintf("SeedMethod(%d)", int(s))
	}
	return seedNames[s]
}

func (s SeedMethod) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *SeedMethod) UnmarshalText(text []byte) error {
	for i, name := range seedNames {
		if strings.EqualFold(string(text), name) {
			*s = SeedMethod(i)
			return nil
		}
	}
	return fmt.Errorf("vsa: unknown seeding method %q", text)
}

// Target bounds seeding. Seeding stops at MaxProxies proxies, or once the
// total error falls to MinErrorDrop times the error of a single proxy over
// the whole mesh. At least one of the two must be set.
type Target struct {
	MaxProxies   int
	MinErrorDrop float64
}

func (t Target) valid() bool {
	return t.MaxProxies > 0 || t.MinErrorDrop > 0
}

type Options struct {
	Metric       MetricKind `toml:"metric" yaml:"metric"`
	Seeding      SeedMethod `toml:"seeding" yaml:"seeding"`
	MaxProxies   int        `toml:"max_proxies" yaml:"max_proxies"`
	MinErrorDrop float64    `toml:"min_error_drop" yaml:"min_error_drop"`

	// InnerIterations is the number of relaxation steps run after each
	// proxy added during seeding.
	InnerIterations int `toml:"inner_iterations" yaml:"inner_iterations"`

	// Iterations is the number of relaxation steps run after seeding by
	// Segment and Approximate.
	Iterations int `toml:"iterations" yaml:"iterations"`

	// MaxIterations caps every call to Run.
	MaxIterations int `toml:"max_iterations" yaml:"max_iterations"`

	// LocalRelaxations is the number of restricted steps run after adding
	// or teleporting proxies.
	LocalRelaxations int `toml:"local_relaxations" yaml:"local_relaxations"`

	// MaxReassignPasses bounds the flood-fill reassignment of one step to
	// MaxReassignPasses * #faces face visits.
	MaxReassignPasses int `toml:"max_reassign_passes" yaml:"max_reassign_passes"`

	ChordError float64 `toml:"chord_error" yaml:"chord_error"`
	PCAPlane   bool    `toml:"pca_plane" yaml:"pca_plane"`
	RandomSeed int64   `toml:"random_seed" yaml:"random_seed"`

	Logger *slog.Logger `toml:"-" yaml:"-"`
}

func DefaultOptions() Options {
	return Options{
		Metric:            L21,
		Seeding:           Hierarchical,
		MaxProxies:        20,
		InnerIterations:   5,
		Iterations:        30,
		MaxIterations:     1000,
		LocalRelaxations:  5,
		MaxReassignPasses: 8,
		ChordError:        0.2,
		RandomSeed:        1,
	}
}

// withDefaults fills unset caps so no loop runs unbounded.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxIterations <= 0 {
		o.MaxIterations = d.MaxIterations
	}
	if o.MaxReassignPasses <= 0 {
		o.MaxReassignPasses = d.MaxReassignPasses
	}
	if o.LocalRelaxations < 0 {
		o.LocalRelaxations = 0
	}
	if o.InnerIterations < 0 {
		o.InnerIterations = 0
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

func (o Options) Target() Target {
	return Target{MaxProxies: o.MaxProxies, MinErrorDrop: o.MinErrorDrop}
}

func (o Options) Validate() error {
	if o.Metric < L21 || o.Metric > Compact {
		return fmt.Errorf("%w: %d", ErrInvalidMetric, int(o.Metric))
	}
	if o.Seeding < Random || o.Seeding > Hierarchical {
		return fmt.Errorf("vsa: unknown seeding method %d", int(o.Seeding))
	}
	if !o.Target().valid() {
		return fmt.Errorf("%w: set max_proxies or min_error_drop", ErrInvalidTarget)
	}
	if o.MinErrorDrop < 0 || o.MinErrorDrop >= 1 {
		return fmt.Errorf("%w: min_error_drop %v outside [0, 1)", ErrInvalidTarget, o.MinErrorDrop)
	}
	if o.ChordError < 0 {
		return fmt.Errorf("vsa: negative chord error %v", o.ChordError)
	}
	return nil
}
