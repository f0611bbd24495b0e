// transform.go — Frame transform composition and projection.
package layout

import "math"

// Perspective is the viewing distance the tilted frame is projected with.
const Perspective = 1200

// Mat4 is a row-major 4×4 matrix acting on column vectors.
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul returns a·b; applying the product applies b first.
func (a Mat4) Mul(b Mat4) Mat4 {
	var out Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			var s float64
			for k := 0; k < 4; k++ {
				s += a[r*4+k] * b[k*4+c]
			}
			out[r*4+c] = s
		}
	}
	return out
}

// Apply transforms the point (x, y, z).
func (a Mat4) Apply(x, y, z float64) (float64, float64, float64) {
	return a[0]*x + a[1]*y + a[2]*z + a[3],
		a[4]*x + a[5]*y + a[6]*z + a[7],
		a[8]*x + a[9]*y + a[10]*z + a[11]
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// ScaleMat scales x and y uniformly.
func ScaleMat(s float64) Mat4 {
	m := Identity()
	m[0], m[5] = s, s
	return m
}

// RotateZMat rotates clockwise on screen (y grows downward).
func RotateZMat(deg float64) Mat4 {
	s, c := math.Sincos(radians(deg))
	m := Identity()
	m[0], m[1] = c, -s
	m[4], m[5] = s, c
	return m
}

// RotateXMat rotates about the horizontal axis.
func RotateXMat(deg float64) Mat4 {
	s, c := math.Sincos(radians(deg))
	m := Identity()
	m[5], m[6] = c, -s
	m[9], m[10] = s, c
	return m
}

// RotateYMat rotates about the vertical axis.
func RotateYMat(deg float64) Mat4 {
	s, c := math.Sincos(radians(deg))
	m := Identity()
	m[0], m[2] = c, s
	m[8], m[10] = -s, c
	return m
}

// Transform is the frame's composed transform about the frame center:
// scale ∘ rotateZ ∘ rotateX ∘ rotateY, viewed at Perspective.
type Transform struct {
	Scale       float64 `json:"scale"`
	RotateZ     float64 `json:"rotateZ"`
	RotateX     float64 `json:"rotateX"`
	RotateY     float64 `json:"rotateY"`
	Perspective float64 `json:"perspective"`
	Matrix      Mat4    `json:"matrix"`
}

// NewTransform composes the frame transform. The Y rotation is half the tilt.
func NewTransform(scalePercent, rotateDeg, tiltDeg float64) Transform {
	t := Transform{
		Scale:       scalePercent / 100,
		RotateZ:     rotateDeg,
		RotateX:     tiltDeg,
		RotateY:     tiltDeg / 2,
		Perspective: Perspective,
	}
	t.Matrix = ScaleMat(t.Scale).
		Mul(RotateZMat(t.RotateZ)).
		Mul(RotateXMat(t.RotateX)).
		Mul(RotateYMat(t.RotateY))
	return t
}

// Affine reports whether the transform stays in the screen plane.
func (t Transform) Affine() bool {
	return t.RotateX == 0 && t.RotateY == 0
}

// Project maps p through the transform about origin.
func (t Transform) Project(p, origin Point) Point {
	x, y, z := t.Matrix.Apply(p.X-origin.X, p.Y-origin.Y, 0)
	if t.Perspective > 0 {
		f := t.Perspective / (t.Perspective - z)
		x, y = x*f, y*f
	}
	return Point{origin.X + x, origin.Y + y}
}

// Quad returns the projected corners of box about its center, clockwise from
// the top-left.
func (t Transform) Quad(box Rect) [4]Point {
	o := box.Center()
	return [4]Point{
		t.Project(Point{box.X, box.Y}, o),
		t.Project(Point{box.X + box.W, box.Y}, o),
		t.Project(Point{box.X + box.W, box.Y + box.H}, o),
		t.Project(Point{box.X, box.Y + box.H}, o),
	}
}
