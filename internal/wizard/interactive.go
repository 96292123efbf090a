package wizard

import (
	"os"

	"golang.org/x/term"

	"github.com/tessro/convoy/internal/core"
)

// Interactive provides interactive fallback functionality.
type Interactive struct {
	enabled      bool
	destinations []core.Destination
}

// NewInteractive creates a new interactive handler.
func NewInteractive(dests []core.Destination) *Interactive {
	return &Interactive{
		enabled:      true,
		destinations: dests,
	}
}

// SetEnabled enables or disables interactive mode.
func (i *Interactive) SetEnabled(enabled bool) {
	i.enabled = enabled
}

// IsTerminal returns true if stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// CanInteract returns true if interactive mode is available.
func (i *Interactive) CanInteract() bool {
	return i.enabled && IsTerminal()
}

// PromptDestination launches the destination picker if interactive mode is
// available. Returns nil if cancelled or not interactive.
func (i *Interactive) PromptDestination() (*core.Destination, error) {
	if !i.CanInteract() || len(i.destinations) == 0 {
		return nil, nil
	}
	return RunDestinationPicker(i.destinations)
}

// NeedsDestination returns true if a destination argument is required but missing.
func NeedsDestination(args []string) bool {
	return len(args) == 0
}
