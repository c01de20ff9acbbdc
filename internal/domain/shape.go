// Package domain defines core business entities and value objects for Inkboard.
//
// The domain layer is independent of infrastructure concerns and represents
// pure business logic and data structures: canvas shapes, tool calls, the
// interpretation result union and the UI-facing response envelope.
package domain

import "time"

// ShapeType enumerates the shape variants a canvas can hold.
type ShapeType string

const (
	ShapeRectangle     ShapeType = "rectangle"
	ShapeCircle        ShapeType = "circle"
	ShapeEllipse       ShapeType = "ellipse"
	ShapeTriangle      ShapeType = "triangle"
	ShapeDiamond       ShapeType = "diamond"
	ShapePentagon      ShapeType = "pentagon"
	ShapeHexagon       ShapeType = "hexagon"
	ShapeStar          ShapeType = "star"
	ShapeCloud         ShapeType = "cloud"
	ShapeHeart         ShapeType = "heart"
	ShapeParallelogram ShapeType = "parallelogram"
	ShapeTrapezoid     ShapeType = "trapezoid"
	ShapeLine          ShapeType = "line"
	ShapeArrow         ShapeType = "arrow"
	ShapeText          ShapeType = "text"
	ShapeImage         ShapeType = "image"
	ShapeFrame         ShapeType = "frame"
)

// Shape is a single vector element on the shared canvas.
//
// ID is globally unique and immutable after creation. UpdatedAt strictly
// increases on every mutation of the shape and is the sole ordering key for
// "most recent" target resolution and last-write-wins conflict resolution
// at the store boundary.
type Shape struct {
	ID          string    `json:"id" yaml:"id"`
	Type        ShapeType `json:"type" yaml:"type"`
	X           float64   `json:"x" yaml:"x"`
	Y           float64   `json:"y" yaml:"y"`
	W           float64   `json:"w" yaml:"w"`
	H           float64   `json:"h" yaml:"h"`
	Rotation    float64   `json:"rotation,omitempty" yaml:"rotation,omitempty"`
	Color       string    `json:"color,omitempty" yaml:"color,omitempty"`
	Stroke      string    `json:"stroke,omitempty" yaml:"stroke,omitempty"`
	StrokeWidth float64   `json:"stroke_width,omitempty" yaml:"stroke_width,omitempty"`
	Text        string    `json:"text,omitempty" yaml:"text,omitempty"`
	FontSize    float64   `json:"font_size,omitempty" yaml:"font_size,omitempty"`
	Group       string    `json:"group,omitempty" yaml:"group,omitempty"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
	UpdatedBy   string    `json:"updated_by,omitempty" yaml:"updated_by,omitempty"`
}

// Area returns the bounding-box area, used to rank shapes for
// largest/smallest selection criteria.
func (s Shape) Area() float64 {
	return s.W * s.H
}

// defaultGeometry maps each shape type to its creation size.
var defaultGeometry = map[ShapeType][2]float64{
	ShapeRectangle:     {200, 120},
	ShapeCircle:        {140, 140},
	ShapeEllipse:       {180, 110},
	ShapeTriangle:      {150, 130},
	ShapeDiamond:       {140, 140},
	ShapePentagon:      {150, 145},
	ShapeHexagon:       {160, 140},
	ShapeStar:          {150, 145},
	ShapeCloud:         {190, 120},
	ShapeHeart:         {150, 135},
	ShapeParallelogram: {190, 110},
	ShapeTrapezoid:     {180, 110},
	ShapeLine:          {200, 2},
	ShapeArrow:         {200, 2},
	ShapeText:          {160, 40},
	ShapeImage:         {240, 180},
	ShapeFrame:         {420, 300},
}

// DefaultSize returns the default width and height for a shape type.
// Unknown types fall back to the rectangle defaults.
func DefaultSize(t ShapeType) (w, h float64) {
	if g, ok := defaultGeometry[t]; ok {
		return g[0], g[1]
	}
	return 200, 120
}

// KnownShapeType reports whether t is one of the enumerated variants.
func KnownShapeType(t ShapeType) bool {
	_, ok := defaultGeometry[t]
	return ok
}
