package spatial

import "math"

// Matrix3 is a 3×3 rotation matrix in row-major order.
type Matrix3 [3][3]float64

// Identity3 returns the identity matrix.
func Identity3() Matrix3 {
	return Matrix3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// RotationX returns the rotation by angle (radians) about the x axis.
func RotationX(angle float64) Matrix3 {
	sin, cos := math.Sincos(angle)
	return Matrix3{
		{1, 0, 0},
		{0, cos, -sin},
		{0, sin, cos},
	}
}

// RotationY returns the rotation by angle (radians) about the y axis.
func RotationY(angle float64) Matrix3 {
	sin, cos := math.Sincos(angle)
	return Matrix3{
		{cos, 0, sin},
		{0, 1, 0},
		{-sin, 0, cos},
	}
}

// RotationZ returns the rotation by angle (radians) about the z axis.
func RotationZ(angle float64) Matrix3 {
	sin, cos := math.Sincos(angle)
	return Matrix3{
		{cos, -sin, 0},
		{sin, cos, 0},
		{0, 0, 1},
	}
}

// Euler composes rotations about the fixed x, y and z axes (x first, then
// y, then z) into the single matrix Rz·Ry·Rx.
func Euler(x, y, z float64) Matrix3 {
	return RotationZ(z).Mul(RotationY(y)).Mul(RotationX(x))
}

func (m Matrix3) Mul(other Matrix3) Matrix3 {
	var result Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				result[i][j] += m[i][k] * other[k][j]
			}
		}
	}
	return result
}

// Apply rotates a 3-component vector.
func (m Matrix3) Apply(v Vector) Vector {
	result := make(Vector, 3)
	for i := 0; i < 3; i++ {
		result[i] = m[i][0]*v[0] + m[i][1]*v[1] + m[i][2]*v[2]
	}
	return result
}
