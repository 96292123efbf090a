package routing

import (
	"errors"
	"testing"

	"github.com/tessro/convoy/internal/core"
	cerrors "github.com/tessro/convoy/internal/errors"
)

func TestFromLonLat(t *testing.T) {
	tests := []struct {
		name    string
		pos     []float64
		want    core.LatLon
		wantErr bool
	}{
		{"swaps axes", []float64{77.5946, 12.9716}, core.LatLon{Lat: 12.9716, Lon: 77.5946}, false},
		{"ignores altitude", []float64{-0.1, 51.5, 30}, core.LatLon{Lat: 51.5, Lon: -0.1}, false},
		{"too short", []float64{77.5}, core.LatLon{}, true},
		{"latitude out of range", []float64{12.97, 97.59}, core.LatLon{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromLonLat(tt.pos)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FromLonLat(%v) error = %v, wantErr %v", tt.pos, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("FromLonLat(%v) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}
}

func sampleResponse() *RouteResponse {
	return &RouteResponse{
		Code: "Ok",
		Routes: []Route{{
			Distance: 5100,
			Duration: 610,
			Geometry: Geometry{
				Type:        "LineString",
				Coordinates: [][]float64{{77.5946, 12.9716}, {77.6100, 12.9500}, {77.6245, 12.9352}},
			},
			Legs: []Leg{{
				Distance: 5000,
				Duration: 600,
				Steps: []RouteStep{
					{Distance: 4000, Duration: 500, Name: "MG Road", Maneuver: Maneuver{Type: "turn", Modifier: "right", Instruction: "Turn right"}},
					{Distance: 1000, Duration: 100, Name: "Hosur Road", Maneuver: Maneuver{Type: "turn", Modifier: "left"}},
					{Maneuver: Maneuver{Type: "arrive"}},
				},
			}},
		}},
	}
}

func TestToSnapshot(t *testing.T) {
	snap, err := ToSnapshot(sampleResponse())
	if err != nil {
		t.Fatalf("ToSnapshot() error = %v", err)
	}

	if snap.Distance != 5000 || snap.Duration != 600 {
		t.Errorf("distance/duration = %v/%v, want leg values 5000/600", snap.Distance, snap.Duration)
	}
	if len(snap.Polyline) != 3 {
		t.Fatalf("len(Polyline) = %d, want 3", len(snap.Polyline))
	}
	if snap.Polyline[0] != (core.LatLon{Lat: 12.9716, Lon: 77.5946}) {
		t.Errorf("Polyline[0] = %v, want lat-first origin", snap.Polyline[0])
	}
	if snap.Next.Kind != core.NextStep || snap.Next.Text != "Turn right" {
		t.Errorf("Next = %+v, want NextStep \"Turn right\"", snap.Next)
	}
	if got := snap.Steps[1].Instruction; got != "Turn left onto Hosur Road" {
		t.Errorf("Steps[1].Instruction = %q, want synthesized text", got)
	}
	if got := snap.Steps[2].Instruction; got != core.ArrivedText {
		t.Errorf("Steps[2].Instruction = %q, want %q", got, core.ArrivedText)
	}
}

func TestToSnapshotNoSteps(t *testing.T) {
	resp := sampleResponse()
	resp.Routes[0].Legs[0].Steps = nil

	snap, err := ToSnapshot(resp)
	if err != nil {
		t.Fatalf("ToSnapshot() error = %v", err)
	}
	if snap.Next.Kind != core.Arrived {
		t.Errorf("Next.Kind = %v, want Arrived", snap.Next.Kind)
	}
	if got := snap.Next.String(); got != "Arrive at destination" {
		t.Errorf("Next.String() = %q, want %q", got, "Arrive at destination")
	}
}

func TestToSnapshotErrors(t *testing.T) {
	tests := []struct {
		name string
		resp *RouteResponse
		want error
	}{
		{"nil response", nil, cerrors.ErrNoRoute},
		{"zero routes", &RouteResponse{Code: "Ok"}, cerrors.ErrNoRoute},
		{"single point", &RouteResponse{Routes: []Route{{Geometry: Geometry{Coordinates: [][]float64{{77.59, 12.97}}}}}}, cerrors.ErrBadGeometry},
		{"bad point", &RouteResponse{Routes: []Route{{Geometry: Geometry{Coordinates: [][]float64{{77.59}, {77.6, 12.9}}}}}}, cerrors.ErrBadGeometry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToSnapshot(tt.resp)
			if !errors.Is(err, tt.want) {
				t.Errorf("ToSnapshot() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDescribeManeuver(t *testing.T) {
	tests := []struct {
		kind, modifier, name string
		exit                 int
		want                 string
	}{
		{"depart", "", "MG Road", 0, "Head out on MG Road"},
		{"depart", "", "", 0, "Depart"},
		{"turn", "sharp left", "", 0, "Turn sharp left"},
		{"turn", "uturn", "", 0, "Make a U-turn"},
		{"new name", "straight", "Residency Road", 0, "Continue onto Residency Road"},
		{"fork", "slight right", "", 0, "Keep slight right at the fork"},
		{"roundabout", "right", "Brigade Road", 2, "At the roundabout, take exit 2 onto Brigade Road"},
		{"arrive", "", "", 0, "Arrive at destination"},
		{"notification", "", "", 0, "Notification"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := describeManeuver(tt.kind, tt.modifier, tt.name, tt.exit); got != tt.want {
				t.Errorf("describeManeuver(%q, %q, %q) = %q, want %q", tt.kind, tt.modifier, tt.name, got, tt.want)
			}
		})
	}
}
