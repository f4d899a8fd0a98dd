// Package geo holds the boundary geometry of a hunting ground.
package geo

import (
	"errors"
	"fmt"
)

// MinBoundaryPoints is the vertex count below which a boundary is not a polygon.
const MinBoundaryPoints = 3

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DefaultCenter frames the map when a ground has no boundary yet.
var DefaultCenter = Point{Lat: 49.8, Lng: 15.47}

var (
	ErrTooFewPoints = fmt.Errorf("boundary needs at least %d points", MinBoundaryPoints)
	ErrOutOfRange   = errors.New("coordinate out of range")
)

// IsValidBoundary reports whether points can define a polygon.
func IsValidBoundary(points []Point) bool {
	return len(points) >= MinBoundaryPoints
}

// Centroid is the arithmetic mean of the vertices, or DefaultCenter for none.
// It is derived on every read and never stored.
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return DefaultCenter
	}
	var lat, lng float64
	for _, p := range points {
		lat += p.Lat
		lng += p.Lng
	}
	n := float64(len(points))
	return Point{Lat: lat / n, Lng: lng / n}
}

// UndoLast returns points without the last vertex. The input is left untouched.
func UndoLast(points []Point) []Point {
	if len(points) == 0 {
		return []Point{}
	}
	out := make([]Point, len(points)-1)
	copy(out, points)
	return out
}

// InRange reports whether p is a valid latitude/longitude pair.
func (p Point) InRange() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Validate checks a boundary before it is saved. An empty boundary is valid
// and means "not drawn yet".
func Validate(points []Point) error {
	if len(points) == 0 {
		return nil
	}
	if !IsValidBoundary(points) {
		return ErrTooFewPoints
	}
	for i, p := range points {
		if !p.InRange() {
			return fmt.Errorf("%w: vertex %d (%g, %g)", ErrOutOfRange, i, p.Lat, p.Lng)
		}
	}
	return nil
}
