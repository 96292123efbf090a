package core

import (
	"fmt"
	"math"
)

// LatLon is a WGS84 coordinate in latitude-first order.
type LatLon struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// Valid reports whether the coordinate is within WGS84 bounds.
func (p LatLon) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

func (p LatLon) String() string {
	return fmt.Sprintf("%.5f,%.5f", p.Lat, p.Lon)
}

// Bounds is the rectangle enclosing a set of coordinates.
type Bounds struct {
	SouthWest LatLon `json:"south_west"`
	NorthEast LatLon `json:"north_east"`
}

// BoundsOf returns the bounds of points. ok is false when points is empty.
func BoundsOf(points []LatLon) (b Bounds, ok bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}
	b = Bounds{SouthWest: points[0], NorthEast: points[0]}
	for _, p := range points[1:] {
		b.SouthWest.Lat = math.Min(b.SouthWest.Lat, p.Lat)
		b.SouthWest.Lon = math.Min(b.SouthWest.Lon, p.Lon)
		b.NorthEast.Lat = math.Max(b.NorthEast.Lat, p.Lat)
		b.NorthEast.Lon = math.Max(b.NorthEast.Lon, p.Lon)
	}
	return b, true
}

// Center returns the midpoint of the bounds.
func (b Bounds) Center() LatLon {
	return LatLon{
		Lat: (b.SouthWest.Lat + b.NorthEast.Lat) / 2,
		Lon: (b.SouthWest.Lon + b.NorthEast.Lon) / 2,
	}
}

// Destination is a named waypoint from the destination catalog.
type Destination struct {
	Name   string `json:"name" yaml:"name"`
	Icon   string `json:"icon,omitempty" yaml:"icon"`
	LatLon `yaml:",inline"`
}

// InstructionKind discriminates Instruction.
type InstructionKind int

const (
	NextStep InstructionKind = iota
	Arrived
)

// ArrivedText is shown when a route has no further maneuver.
const ArrivedText = "Arrive at destination"

// Instruction is either the next maneuver's text or the arrival marker.
type Instruction struct {
	Kind InstructionKind `json:"kind"`
	Text string          `json:"text,omitempty"`
}

// NextStepInstruction returns a NextStep instruction, or Arrived if text is empty.
func NextStepInstruction(text string) Instruction {
	if text == "" {
		return Instruction{Kind: Arrived}
	}
	return Instruction{Kind: NextStep, Text: text}
}

func (i Instruction) String() string {
	if i.Kind == Arrived {
		return ArrivedText
	}
	return i.Text
}

// Step is one maneuver of a route.
type Step struct {
	Instruction string  `json:"instruction"`
	Name        string  `json:"name,omitempty"`
	Distance    float64 `json:"distance"`
	Duration    float64 `json:"duration"`
}

// RouteSnapshot is the installed result of a successful route request.
type RouteSnapshot struct {
	Distance float64     `json:"distance"` // meters
	Duration float64     `json:"duration"` // seconds
	Polyline []LatLon    `json:"polyline"`
	Steps    []Step      `json:"steps"`
	Next     Instruction `json:"next"`
}

// Bounds returns the bounds of the route polyline.
func (r *RouteSnapshot) Bounds() (Bounds, bool) {
	if r == nil {
		return Bounds{}, false
	}
	return BoundsOf(r.Polyline)
}
