package vsa

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"meshapprox/src/surface/geometry"

	"github.com/stretchr/testify/require"
)

// cubeSides assigns the two triangles of each cube side to one proxy.
var cubeSides = []int{0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5}

func testOptions() Options {
	o := DefaultOptions()
	o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return o
}

func wavy(x, y float64) float64 {
	return 0.3*math.Sin(1.3*x) + 0.2*math.Cos(0.9*y)
}

// fold returns a grid that is flat for x <= 2 and rises with slope 1
// beyond.
func fold() *geometry.Mesh {
	return geometry.NewGrid(4, 2, 1, func(x, _ float64) float64 {
		return math.Max(0, x-2)
	})
}

// setPartition installs one proxy per id used in assign and fits them.
func setPartition[P any](a *Approximation[P], assign []int) {
	n := 0
	for _, id := range assign {
		n = max(n, id+1)
	}
	a.proxies = make([]*proxy[P], n)
	for id := range a.proxies {
		a.proxies[id] = &proxy[P]{id: id}
	}
	a.assign = append([]int(nil), assign...)
	a.refit(nil)
}

// requirePartition checks that every face belongs to a live proxy and
// that every live proxy owns a face.
func requirePartition(t *testing.T, a Approximator, numFaces int) {
	t.Helper()
	assign := a.ProxyMap()
	require.Len(t, assign, numFaces)

	live := make(map[int]bool)
	for _, id := range a.ProxyIDs() {
		live[id] = true
	}
	used := make(map[int]bool)
	for f, id := range assign {
		require.True(t, live[id], "face %d is assigned to proxy %d", f, id)
		used[id] = true
	}
	require.Len(t, used, len(live))
}
