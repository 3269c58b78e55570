package mathutil

// Mat3 is a row-major 3×3 matrix holding the rotation-scale part of a node
// transform.
type Mat3 [9]float64

// Mat3Diag builds a scale matrix.
func Mat3Diag(x, y, z float64) Mat3 {
	return Mat3{x, 0, 0, 0, y, 0, 0, 0, z}
}

// Mat3Mul returns a × b.
func Mat3Mul(a, b Mat3) Mat3 {
	var m Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += a[r*3+k] * b[k*3+c]
			}
			m[r*3+c] = sum
		}
	}
	return m
}
