package geometry

// NewCube returns the axis aligned cube [0, size]^3 as 12 outward facing
// triangles. Faces 2k and 2k+1 lie on the same side of the cube, in the
// order -z, +z, -y, +y, -x, +x.
func NewCube(size float64) *Mesh {
	points := make([]Vector3, 8)
	for i := range points {
		points[i] = Vec3(float64(i&1)*size, float64(i>>1&1)*size, float64(i>>2&1)*size)
	}
	triangles := [][3]int{
		{0, 2, 3}, {0, 3, 1},
		{4, 5, 7}, {4, 7, 6},
		{0, 1, 5}, {0, 5, 4},
		{2, 6, 7}, {2, 7, 3},
		{0, 4, 6}, {0, 6, 2},
		{1, 3, 7}, {1, 7, 5},
	}
	return mustMesh(points, triangles)
}

// NewGrid returns an nx by ny grid of square cells of the given size in the
// z = 0 plane, facing +z. Cell (i, j) holds faces 2(j*nx+i) and
// 2(j*nx+i)+1. Height, when not nil, displaces each vertex along z.
func NewGrid(nx, ny int, size float64, height func(x, y float64) float64) *Mesh {
	points := make([]Vector3, 0, (nx+1)*(ny+1))
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			x, y := float64(i)*size, float64(j)*size
			z := 0.0
			if height != nil {
				z = height(x, y)
			}
			points = append(points, Vec3(x, y, z))
		}
	}
	triangles := make([][3]int, 0, 2*nx*ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			a := j*(nx+1) + i
			b, c, d := a+1, a+nx+2, a+nx+1
			triangles = append(triangles, [3]int{a, b, c}, [3]int{a, c, d})
		}
	}
	return mustMesh(points, triangles)
}

func mustMesh(points []Vector3, triangles [][3]int) *Mesh {
	m, err := NewMesh(points, triangles)
	if err != nil {
		panic(err)
	}
	return m
}
