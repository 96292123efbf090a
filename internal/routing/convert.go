package routing

import (
	"fmt"
	"strings"

	"github.com/tessro/convoy/internal/core"
	cerrors "github.com/tessro/convoy/internal/errors"
)

// FromLonLat converts a GeoJSON [lon, lat] position into a LatLon.
// This is the only place the axis order is swapped.
func FromLonLat(pos []float64) (core.LatLon, error) {
	if len(pos) < 2 {
		return core.LatLon{}, fmt.Errorf("position has %d coordinates, want 2", len(pos))
	}
	p := core.LatLon{Lat: pos[1], Lon: pos[0]}
	if !p.Valid() {
		return core.LatLon{}, fmt.Errorf("position %v out of range", pos)
	}
	return p, nil
}

// ToSnapshot builds a RouteSnapshot from the first route of resp.
func ToSnapshot(resp *RouteResponse) (*core.RouteSnapshot, error) {
	if resp == nil || len(resp.Routes) == 0 {
		return nil, cerrors.ErrNoRoute
	}
	route := resp.Routes[0]

	polyline := make([]core.LatLon, 0, len(route.Geometry.Coordinates))
	for _, pos := range route.Geometry.Coordinates {
		p, err := FromLonLat(pos)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", cerrors.ErrBadGeometry, err)
		}
		polyline = append(polyline, p)
	}
	if len(polyline) < 2 {
		return nil, cerrors.ErrBadGeometry
	}

	snap := &core.RouteSnapshot{
		Distance: route.Distance,
		Duration: route.Duration,
		Polyline: polyline,
	}

	if len(route.Legs) > 0 {
		leg := route.Legs[0]
		snap.Distance = leg.Distance
		snap.Duration = leg.Duration
		snap.Steps = make([]core.Step, 0, len(leg.Steps))
		for _, s := range leg.Steps {
			snap.Steps = append(snap.Steps, convertStep(s))
		}
	}

	snap.Next = nextInstruction(snap.Steps, leg0Steps(route))
	return snap, nil
}

func leg0Steps(r Route) []RouteStep {
	if len(r.Legs) == 0 {
		return nil
	}
	return r.Legs[0].Steps
}

func nextInstruction(steps []core.Step, raw []RouteStep) core.Instruction {
	if len(steps) == 0 || raw[0].Maneuver.Type == "arrive" {
		return core.Instruction{Kind: core.Arrived}
	}
	return core.NextStepInstruction(steps[0].Instruction)
}

func convertStep(s RouteStep) core.Step {
	text := s.Maneuver.Instruction
	if text == "" {
		text = describeManeuver(s.Maneuver.Type, s.Maneuver.Modifier, s.Name, s.Maneuver.Exit)
	}
	return core.Step{
		Instruction: text,
		Name:        s.Name,
		Distance:    s.Distance,
		Duration:    s.Duration,
	}
}

// describeManeuver renders a short English instruction for a maneuver.
func describeManeuver(kind, modifier, name string, exit int) string {
	onto := ""
	if name != "" {
		onto = " onto " + name
	}
	dir := modifier
	if dir == "" {
		dir = "straight"
	}

	switch kind {
	case "depart":
		if name != "" {
			return "Head out on " + name
		}
		return "Depart"
	case "arrive":
		return core.ArrivedText
	case "turn", "end of road":
		if dir == "straight" {
			return "Continue straight" + onto
		}
		if dir == "uturn" {
			return "Make a U-turn" + onto
		}
		return "Turn " + dir + onto
	case "continue", "new name":
		if dir == "straight" {
			return "Continue" + onto
		}
		return "Continue " + dir + onto
	case "merge":
		return "Merge " + dir + onto
	case "on ramp":
		return "Take the ramp " + dir + onto
	case "off ramp":
		return "Take the exit " + dir + onto
	case "fork":
		return "Keep " + dir + " at the fork" + onto
	case "roundabout", "rotary":
		if exit > 0 {
			return fmt.Sprintf("At the roundabout, take exit %d%s", exit, onto)
		}
		return "Enter the roundabout" + onto
	case "exit roundabout", "exit rotary":
		return "Exit the roundabout" + onto
	default:
		if kind == "" {
			return "Continue" + onto
		}
		return strings.ToUpper(kind[:1]) + kind[1:] + onto
	}
}
