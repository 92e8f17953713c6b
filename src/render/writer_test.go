package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"testing"

	"meshapprox/src/surface/geometry"
	"meshapprox/src/surface/vsa"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square() *vsa.Result {
	return &vsa.Result{
		AnchorPoints: []geometry.Vector3{
			geometry.Vec3(0, 0, 0), geometry.Vec3(1, 0, 0),
			geometry.Vec3(1, 1, 0), geometry.Vec3(0, 1, 0.5),
		},
		AnchorVertices: []int{0, 2, 8, 6},
		Polygons:       [][]int{{0, 1, 2, 3}, {3, 2, 1}},
		PolygonProxies: []int{0, 1},
		Holes:          []int{1},
		Triangles:      []int{0, 1, 2, 0, 2, 3},
	}
}

func TestWriteOFF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOFF(&buf, square()))
	assert.Equal(t, "OFF\n4 2 0\n0 0 0\n1 0 0\n1 1 0\n0 1 0.5\n3 0 1 2\n3 0 2 3\n", buf.String())

	m, err := geometry.ReadOFF(&buf)
	require.NoError(t, err)
	assert.Equal(t, 4, m.NumVertices())
	assert.Equal(t, 2, m.NumFaces())
}

func TestWritePolygonsOFF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePolygonsOFF(&buf, square()))

	r, g, b := ProxyColor(0)
	m, err := geometry.ReadOFF(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 2, m.NumFaces(), "the hole is skipped and the quad is split")
	assert.Contains(t, buf.String(), "\n4 0 1 2 3 ")
	assert.Contains(t, buf.String(), fmt.Sprintf(" %d %d %d\n", r, g, b))
}

func TestWriteSegmentation(t *testing.T) {
	m := geometry.NewCube(1)
	assign := []int{0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, -1}

	var buf bytes.Buffer
	require.NoError(t, WriteSegmentation(&buf, m, assign))

	back, err := geometry.ReadOFF(&buf)
	require.NoError(t, err)
	require.Equal(t, m.NumFaces(), back.NumFaces())
	for f := 0; f < m.NumFaces(); f++ {
		assert.Equal(t, m.FaceVertices(f), back.FaceVertices(f))
	}

	err = WriteSegmentation(io.Discard, m, assign[:3])
	require.True(t, errors.Is(err, ErrMismatch))
}

type failingWriter struct{}

var errDiskFull = errors.New("disk full")

func (failingWriter) Write([]byte) (int, error) { return 0, errDiskFull }

func TestWriteErrors(t *testing.T) {
	err := WriteOFF(failingWriter{}, square())
	require.True(t, errors.Is(err, errDiskFull), "got %v", err)
	require.Contains(t, err.Error(), "writer.go")

	require.Error(t, WriteOFF(io.Discard, nil))
}

func TestProxyColor(t *testing.T) {
	r, g, b := ProxyColor(-1)
	assert.Equal(t, [3]uint8{128, 128, 128}, [3]uint8{r, g, b})

	seen := make(map[[3]uint8]bool)
	for id := 0; id < 16; id++ {
		r, g, b := ProxyColor(id)
		c := [3]uint8{r, g, b}
		assert.False(t, seen[c], "id %d repeats a color", id)
		seen[c] = true

		r2, g2, b2 := ProxyColor(id)
		assert.Equal(t, c, [3]uint8{r2, g2, b2})
	}
}
