package model

import "math"

// Point represents a 2D point
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle in PDF user space (y grows upward).
// X0,Y0 is the lower-left corner and X1,Y1 the upper-right.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// RectFromPoints returns the smallest rectangle containing every point
func RectFromPoints(pts ...Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	r := Rect{X0: pts[0].X, Y0: pts[0].Y, X1: pts[0].X, Y1: pts[0].Y}
	for _, p := range pts[1:] {
		r.X0 = math.Min(r.X0, p.X)
		r.Y0 = math.Min(r.Y0, p.Y)
		r.X1 = math.Max(r.X1, p.X)
		r.Y1 = math.Max(r.Y1, p.Y)
	}
	return r
}

// Width returns X1 - X0
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns Y1 - Y0
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// IsEmpty reports whether the rectangle has no area
func (r Rect) IsEmpty() bool { return r.X1 <= r.X0 || r.Y1 <= r.Y0 }

// Union returns the smallest rectangle containing both. A zero Rect is
// treated as absent.
func (r Rect) Union(other Rect) Rect {
	if r == (Rect{}) {
		return other
	}
	if other == (Rect{}) {
		return r
	}
	return Rect{
		X0: math.Min(r.X0, other.X0),
		Y0: math.Min(r.Y0, other.Y0),
		X1: math.Max(r.X1, other.X1),
		Y1: math.Max(r.Y1, other.Y1),
	}
}

// Matrix is a 2D affine transformation [a b c d e f] as used by PDF
// operators: x' = a·x + c·y + e, y' = b·x + d·y + f.
type Matrix [6]float64

// Identity returns an identity matrix
func Identity() Matrix {
	return Matrix{1, 0, 0, 1, 0, 0}
}

// NewMatrix builds a matrix from six operands. ok is false when fewer than
// six values are given.
func NewMatrix(vals []float64) (m Matrix, ok bool) {
	if len(vals) < 6 {
		return Identity(), false
	}
	copy(m[:], vals[:6])
	return m, true
}

// Translate creates a translation matrix
func Translate(tx, ty float64) Matrix {
	return Matrix{1, 0, 0, 1, tx, ty}
}

// Scale creates a scaling matrix
func Scale(sx, sy float64) Matrix {
	return Matrix{sx, 0, 0, sy, 0, 0}
}

// Transform applies the matrix to a point
func (m Matrix) Transform(p Point) Point {
	return Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// Multiply returns m × other: the result applies m first, then other.
// The text rendering matrix is therefore Tm.Multiply(CTM).
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		m[0]*other[0] + m[1]*other[2],
		m[0]*other[1] + m[1]*other[3],
		m[2]*other[0] + m[3]*other[2],
		m[2]*other[1] + m[3]*other[3],
		m[4]*other[0] + m[5]*other[2] + other[4],
		m[4]*other[1] + m[5]*other[3] + other[5],
	}
}

// VerticalScale is the length of the transformed unit y vector, the factor
// a font size is multiplied by when rendered through m.
func (m Matrix) VerticalScale() float64 {
	return math.Hypot(m[2], m[3])
}
