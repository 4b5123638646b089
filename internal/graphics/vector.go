package graphics

import (
	"fmt"
	"math"
)

// Vector2 is a 2D point or size.
type Vector2 struct {
	X, Y float64
}

// Vec returns a Vector2.
func Vec(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

// Add returns v + o.
func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{v.X - o.X, v.Y - o.Y}
}

// Scale returns v multiplied by s.
func (v Vector2) Scale(s float64) Vector2 {
	return Vector2{v.X * s, v.Y * s}
}

// Dot returns the dot product of v and o.
func (v Vector2) Dot(o Vector2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Length returns the Euclidean length of v.
func (v Vector2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

func (v Vector2) String() string {
	return fmt.Sprintf("Vector2(%g, %g)", v.X, v.Y)
}
