// Package render writes approximation results as OFF files.
package render

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"

	"meshapprox/src/surface/geometry"
	"meshapprox/src/surface/vsa"
)

// offWriter keeps the first write error and skips everything after it.
type offWriter struct {
	w   *bufio.Writer
	err error
}

func newOFFWriter(w io.Writer) *offWriter {
	return &offWriter{w: bufio.NewWriter(w)}
}

func (o *offWriter) printf(format string, args ...any) {
	if o.err != nil {
		return
	}
	_, o.err = fmt.Fprintf(o.w, format, args...)
}

func (o *offWriter) header(vertices, faces int) {
	o.printf("OFF\n%d %d 0\n", vertices, faces)
}

func (o *offWriter) point(p geometry.Vector3) {
	o.printf("%s %s %s\n", formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z))
}

func (o *offWriter) flush() error {
	if o.err == nil {
		o.err = o.w.Flush()
	}
	return NewError(o.err)
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// WriteOFF writes the triangles of res over its anchor points.
func WriteOFF(w io.Writer, res *vsa.Result) (err error) {
	defer CheckError(&err)

	o := newOFFWriter(w)
	o.header(len(res.AnchorPoints), res.NumTriangles())
	for _, p := range res.AnchorPoints {
		o.point(p)
	}
	for k := 0; k+2 < len(res.Triangles); k += 3 {
		t := res.Triangles[k : k+3]
		o.printf("3 %d %d %d\n", t[0], t[1], t[2])
	}
	return o.flush()
}

// WritePolygonsOFF writes the border polygons of res as OFF faces, one per
// polygon that is not a hole, colored by proxy.
func WritePolygonsOFF(w io.Writer, res *vsa.Result) (err error) {
	defer CheckError(&err)

	holes := make(map[int]bool, len(res.Holes))
	for _, k := range res.Holes {
		holes[k] = true
	}
	var faces []int
	for k, poly := range res.Polygons {
		if !holes[k] && len(poly) >= 3 {
			faces = append(faces, k)
		}
	}

	o := newOFFWriter(w)
	o.header(len(res.AnchorPoints), len(faces))
	for _, p := range res.AnchorPoints {
		o.point(p)
	}
	for _, k := range faces {
		o.printf("%d", len(res.Polygons[k]))
		for _, i := range res.Polygons[k] {
			o.printf(" %d", i)
		}
		r, g, b := ProxyColor(res.PolygonProxies[k])
		o.printf(" %d %d %d\n", r, g, b)
	}
	return o.flush()
}

// WriteSegmentation writes m with every face colored by its proxy in
// assign. Unassigned faces are grey.
func WriteSegmentation(w io.Writer, m *geometry.Mesh, assign []int) (err error) {
	defer CheckError(&err)

	if len(assign) != m.NumFaces() {
		return NewError(fmt.Errorf("%w: %d assignments for %d faces", ErrMismatch, len(assign), m.NumFaces()))
	}
	o := newOFFWriter(w)
	o.header(m.NumVertices(), m.NumFaces())
	for v := 0; v < m.NumVertices(); v++ {
		o.point(m.Point(v))
	}
	for f, id := range assign {
		vs := m.FaceVertices(f)
		r, g, b := ProxyColor(id)
		o.printf("3 %d %d %d %d %d %d\n", vs[0], vs[1], vs[2], r, g, b)
	}
	return o.flush()
}

// ProxyColor returns a stable RGB color for a proxy id. Consecutive ids
// are spread around the hue circle by the golden angle.
func ProxyColor(id int) (r, g, b uint8) {
	if id < 0 {
		return 128, 128, 128
	}
	h := math.Mod(float64(id)*0.618033988749895, 1) * 6
	s, v := 0.65, 0.95
	i := math.Floor(h)
	f := h - i
	p, q, t := v*(1-s), v*(1-s*f), v*(1-s*(1-f))
	var rf, gf, bf float64
	switch int(i) % 6 {
	case 0:
		rf, gf, bf = v, t, p
	case 1:
		rf, gf, bf = q, v, p
	case 2:
		rf, gf, bf = p, v, t
	case 3:
		rf, gf, bf = p, q, v
	case 4:
		rf, gf, bf = t, p, v
	default:
		rf, gf, bf = v, p, q
	}
	return uint8(math.Round(rf * 255)), uint8(math.Round(gf * 255)), uint8(math.Round(bf * 255))
}
