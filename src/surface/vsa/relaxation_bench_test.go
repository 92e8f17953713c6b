package vsa

import (
	"testing"

	"meshapprox/src/surface/geometry"
)

func BenchmarkRunOneStep(b *testing.B) {
	m := geometry.NewGrid(40, 40, 0.25, wavy)
	a := NewApproximation[geometry.Plane](m, PlanarMetric{}, testOptions())
	if _, err := a.Seed(Random, Target{MaxProxies: 30}, 0); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		a.RunOneStep()
	}
}

func BenchmarkExtractMesh(b *testing.B) {
	m := geometry.NewGrid(40, 40, 0.25, wavy)
	a := NewApproximation[geometry.Plane](m, PlanarMetric{}, testOptions())
	if _, err := a.Seed(Hierarchical, Target{MaxProxies: 30}, 2); err != nil {
		b.Fatal(err)
	}
	a.Run(10)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := a.ExtractMesh(0.05, true); err != nil {
			b.Fatal(err)
		}
	}
}
