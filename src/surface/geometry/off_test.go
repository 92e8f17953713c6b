package geometry

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const quadOFF = `OFF
# unit square as one quad
4 1 0
0 0 0
1 0 0
1 1 0
0 1 0
4 0 1 2 3 255 0 0
`

func TestReadOFF(t *testing.T) {
	m, err := ReadOFF(strings.NewReader(quadOFF))
	require.NoError(t, err)
	require.Equal(t, 4, m.NumVertices())
	require.Equal(t, 2, m.NumFaces())
	require.InDelta(t, 1.0, m.Area(0)+m.Area(1), 1e-12)
}

func TestReadOFFInlineCounts(t *testing.T) {
	m, err := ReadOFF(strings.NewReader("OFF 3 1 0\n0 0 0\n1 0 0\n0 1 0\n3 0 1 2\n"))
	require.NoError(t, err)
	require.Equal(t, 1, m.NumFaces())
}

func TestReadOFFErrors(t *testing.T) {
	for name, src := range map[string]string{
		"header":    "PLY\n3 1 0\n",
		"counts":    "OFF\nx y z\n",
		"truncated": "OFF\n3 1 0\n0 0 0\n",
		"polygon":   "OFF\n3 1 0\n0 0 0\n1 0 0\n0 1 0\n2 0 1\n",
		"index":     "OFF\n3 1 0\n0 0 0\n1 0 0\n0 1 0\n3 0 1 5\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ReadOFF(strings.NewReader(src))
			require.Error(t, err)
		})
	}
}

func TestReadOFFOversizedCounts(t *testing.T) {
	for name, src := range map[string]string{
		"vertices": "OFF\n100000000000000 0 0\n",
		"faces":    "OFF\n3 100000000000000 0\n0 0 0\n1 0 0\n0 1 0\n3 0 1 2\n",
		"overflow": "OFF\n99999999999999999999 1 0\n",
	} {
		t.Run(name, func(t *testing.T) {
			m, err := ReadOFF(strings.NewReader(src))
			require.Nil(t, m)
			require.True(t, errors.Is(err, ErrInvalidMesh), "got %v", err)
		})
	}

	_, err := ReadOFF(strings.NewReader("OFF\n3 1 0\n0 0 0\n"))
	require.True(t, errors.Is(err, ErrInvalidMesh))
	require.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}
