package tex

import (
	"image"

	"github.com/chewxy/math32"
)

// Matrix3 is a 3x3 float32 matrix stored row-major, ready to upload as a
// shader uniform. Points are row vectors multiplied on the left, so the
// translation lives in the last row:
//
//	| m[0] m[1] m[2] |
//	| m[3] m[4] m[5] |
//	| m[6] m[7] m[8] |
//
//	x' = x*m[0] + y*m[3] + m[6]
//	y' = x*m[1] + y*m[4] + m[7]
type Matrix3 [9]float32

// Identity3 returns the identity matrix.
func Identity3() Matrix3 {
	return Matrix3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// textureTransform maps texel coordinates of the logical image to
// normalized sample coordinates of the storage allocation. When upsideDown
// is set the Y axis is flipped around the logical content, so padding added
// by power-of-two rounding never becomes visible.
func textureTransform(storage, logical image.Point, upsideDown bool) Matrix3 {
	sw := float32(storage.X)
	sh := float32(storage.Y)
	if upsideDown {
		return Matrix3{
			1 / sw, 0, 0,
			0, -1 / sh, 0,
			0, float32(logical.Y) / sh, 1,
		}
	}
	return Matrix3{
		1 / sw, 0, 0,
		0, 1 / sh, 0,
		0, 0, 1,
	}
}

// Apply maps the point (x, y).
func (m Matrix3) Apply(x, y float32) (float32, float32) {
	return x*m[0] + y*m[3] + m[6], x*m[1] + y*m[4] + m[7]
}

// Multiply returns m followed by o (a point is first mapped by m, then by o).
func (m Matrix3) Multiply(o Matrix3) Matrix3 {
	var r Matrix3
	for i := range 3 {
		for j := range 3 {
			r[i*3+j] = m[i*3]*o[j] + m[i*3+1]*o[3+j] + m[i*3+2]*o[6+j]
		}
	}
	return r
}

// ScaleX returns the horizontal scale factor.
func (m Matrix3) ScaleX() float32 { return m[0] }

// ScaleY returns the vertical scale factor (negative when flipped).
func (m Matrix3) ScaleY() float32 { return m[4] }

// ApproxEqual reports whether every element differs by at most eps.
func (m Matrix3) ApproxEqual(o Matrix3, eps float32) bool {
	for i := range m {
		if math32.Abs(m[i]-o[i]) > eps {
			return false
		}
	}
	return true
}
