package geometry

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// maxPrealloc bounds the slices allocated from the header counts, which
// may be larger than the input actually holds.
const maxPrealloc = 1 << 20

// ReadOFF reads a mesh in Object File Format. Polygons with more than three
// vertices are split into triangle fans; per-face colors are ignored.
func ReadOFF(r io.Reader) (*Mesh, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	line := 0
	fields := func() ([]string, error) {
		for sc.Scan() {
			line++
			s := sc.Text()
			if i := strings.IndexByte(s, '#'); i >= 0 {
				s = s[:i]
			}
			if f := strings.Fields(s); len(f) > 0 {
				return f, nil
			}
		}
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, io.ErrUnexpectedEOF
	}

	head, err := fields()
	if err != nil {
		return nil, fmt.Errorf("off: header: %w", err)
	}
	if head[0] != "OFF" {
		return nil, fmt.Errorf("%w: off: unsupported header %q", ErrInvalidMesh, head[0])
	}
	counts := head[1:]
	if len(counts) == 0 {
		if counts, err = fields(); err != nil {
			return nil, fmt.Errorf("off: counts: %w", err)
		}
	}
	if len(counts) < 2 {
		return nil, fmt.Errorf("%w: off: line %d: expected vertex and face counts", ErrInvalidMesh, line)
	}
	nv, err1 := strconv.Atoi(counts[0])
	nf, err2 := strconv.Atoi(counts[1])
	if err1 != nil || err2 != nil || nv < 0 || nf < 0 {
		return nil, fmt.Errorf("%w: off: line %d: bad counts %q", ErrInvalidMesh, line, counts)
	}

	points := make([]Vector3, 0, min(nv, maxPrealloc))
	for i := 0; i < nv; i++ {
		f, err := fields()
		if err != nil {
			return nil, fmt.Errorf("%w: off: vertex %d of %d: %w", ErrInvalidMesh, i, nv, err)
		}
		if len(f) < 3 {
			return nil, fmt.Errorf("%w: off: line %d: vertex needs 3 coordinates", ErrInvalidMesh, line)
		}
		var xyz [3]float64
		for k := 0; k < 3; k++ {
			if xyz[k], err = strconv.ParseFloat(f[k], 64); err != nil {
				return nil, fmt.Errorf("%w: off: line %d: %v", ErrInvalidMesh, line, err)
			}
		}
		points = append(points, Vec3(xyz[0], xyz[1], xyz[2]))
	}

	triangles := make([][3]int, 0, min(nf, maxPrealloc))
	for i := 0; i < nf; i++ {
		f, err := fields()
		if err != nil {
			return nil, fmt.Errorf("%w: off: face %d of %d: %w", ErrInvalidMesh, i, nf, err)
		}
		k, err := strconv.Atoi(f[0])
		if err != nil || k < 3 || len(f) < k+1 {
			return nil, fmt.Errorf("%w: off: line %d: bad polygon", ErrInvalidMesh, line)
		}
		idx := make([]int, k)
		for j := range idx {
			if idx[j], err = strconv.Atoi(f[j+1]); err != nil {
				return nil, fmt.Errorf("%w: off: line %d: %v", ErrInvalidMesh, line, err)
			}
		}
		for j := 1; j+1 < k; j++ {
			triangles = append(triangles, [3]int{idx[0], idx[j], idx[j+1]})
		}
	}
	return NewMesh(points, triangles)
}
