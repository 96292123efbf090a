package routing

// RouteResponse is the body of a /route/v1 response.
type RouteResponse struct {
	Code      string     `json:"code"`
	Message   string     `json:"message,omitempty"`
	Routes    []Route    `json:"routes"`
	Waypoints []Waypoint `json:"waypoints"`
}

// Route is one candidate route.
type Route struct {
	Distance   float64  `json:"distance"`
	Duration   float64  `json:"duration"`
	Weight     float64  `json:"weight"`
	WeightName string   `json:"weight_name"`
	Geometry   Geometry `json:"geometry"`
	Legs       []Leg    `json:"legs"`
}

// Geometry is a GeoJSON LineString. Coordinates are [lon, lat] pairs.
type Geometry struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"`
}

// Leg is the part of a route between two waypoints.
type Leg struct {
	Distance float64     `json:"distance"`
	Duration float64     `json:"duration"`
	Summary  string      `json:"summary"`
	Steps    []RouteStep `json:"steps"`
}

// RouteStep is a single maneuver along a leg.
type RouteStep struct {
	Distance float64  `json:"distance"`
	Duration float64  `json:"duration"`
	Name     string   `json:"name"`
	Ref      string   `json:"ref,omitempty"`
	Mode     string   `json:"mode"`
	Maneuver Maneuver `json:"maneuver"`
}

// Maneuver describes the action at the start of a step.
type Maneuver struct {
	Type          string    `json:"type"`
	Modifier      string    `json:"modifier,omitempty"`
	Location      []float64 `json:"location"`
	BearingBefore int       `json:"bearing_before"`
	BearingAfter  int       `json:"bearing_after"`
	Exit          int       `json:"exit,omitempty"`
	// Instruction is set by services that render text server-side.
	Instruction string `json:"instruction,omitempty"`
}

// Waypoint is an input coordinate snapped to the road network.
type Waypoint struct {
	Name     string    `json:"name"`
	Location []float64 `json:"location"`
	Distance float64   `json:"distance"`
}
