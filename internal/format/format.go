// Package format renders distances, durations and playback clocks for display.
package format

import (
	"fmt"
	"math"
)

// Distance formats meters as kilometers with one decimal, e.g. "12.3 km".
// Undefined or negative input renders as "0.0 km".
func Distance(meters float64) string {
	if !usable(meters) {
		meters = 0
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}

// Duration formats seconds as whole minutes, rounded to the nearest minute.
// Undefined or negative input renders as "0 min".
func Duration(seconds float64) string {
	if !usable(seconds) {
		seconds = 0
	}
	return fmt.Sprintf("%d min", int(math.Round(seconds/60)))
}

// Clock formats seconds as mm:ss for playback progress. Undefined input renders as "00:00".
func Clock(seconds float64) string {
	if !usable(seconds) {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func usable(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
