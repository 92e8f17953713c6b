package geometry

const (
	// Epsilon is the length, area or cosine below which a quantity is
	// treated as zero.
	Epsilon = 1e-12
)
