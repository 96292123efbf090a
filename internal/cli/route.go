package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tessro/convoy/internal/browser"
	"github.com/tessro/convoy/internal/catalog"
	"github.com/tessro/convoy/internal/core"
	cerrors "github.com/tessro/convoy/internal/errors"
	"github.com/tessro/convoy/internal/format"
	"github.com/tessro/convoy/internal/navigation"
	"github.com/tessro/convoy/internal/routing"
	"github.com/tessro/convoy/internal/wizard"
)

var (
	routeOpen  bool
	routeSteps bool
)

var routeCmd = &cobra.Command{
	Use:   "route [destination]",
	Short: "Plan a route to a destination",
	Long: `Plan a route from the configured origin to a catalog destination.

Without an argument, an interactive picker is shown.

Examples:
  convoy route work
  convoy route mall --steps
  convoy route home --open`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRoute,
}

func init() {
	routeCmd.Flags().BoolVarP(&routeOpen, "open", "o", false, "open the route in a browser")
	routeCmd.Flags().BoolVarP(&routeSteps, "steps", "s", false, "list every step")
	rootCmd.AddCommand(routeCmd)
}

// routeOutput is the JSON shape of a planned route.
type routeOutput struct {
	Destination core.Destination    `json:"destination"`
	Distance    string              `json:"distance"`
	Duration    string              `json:"duration"`
	Next        string              `json:"next"`
	Route       *core.RouteSnapshot `json:"route"`
	URL         string              `json:"url"`
}

func runRoute(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	dest, err := resolveDestination(cat, args)
	if err != nil {
		return err
	}
	if dest == nil {
		return nil // picker cancelled
	}

	overlay := navigation.NewOverlay()
	nav, err := newNavigation(overlay)
	if err != nil {
		return err
	}
	defer nav.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	snap, err := nav.Plan(ctx, *dest)
	if err != nil {
		return err
	}
	if snap.State != navigation.Active || snap.Route == nil {
		err := snap.Err
		if err == nil {
			err = cerrors.ErrNoRoute
		}
		return cerrors.WithSuggestion(fmt.Errorf("route to %s: %w", dest.Name, err), cerrors.UserMessage(err))
	}

	link := routing.DirectionsURL(snap.Position, dest.LatLon)
	if routeOpen {
		if err := browser.Open(link); err != nil {
			logger.Warn().Err(err).Msg("could not open browser")
		}
	}

	if JSONOutput() {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(routeOutput{
			Destination: *dest,
			Distance:    format.Distance(snap.Route.Distance),
			Duration:    format.Duration(snap.Route.Duration),
			Next:        snap.Route.Next.String(),
			Route:       snap.Route,
			URL:         link,
		})
	}

	printRoute(*dest, snap.Route, link)
	return nil
}

func resolveDestination(cat *catalog.Catalog, args []string) (*core.Destination, error) {
	if !wizard.NeedsDestination(args) {
		d, err := cat.Destination(args[0])
		if err != nil {
			return nil, cerrors.WithSuggestion(err,
				"Known destinations: "+strings.Join(cat.DestinationNames(), ", "))
		}
		return &d, nil
	}

	interactive := wizard.NewInteractive(cat.Destinations)
	interactive.SetEnabled(!JSONOutput())
	if !interactive.CanInteract() {
		return nil, cerrors.WithSuggestion(
			fmt.Errorf("destination required"),
			"Pass one of: "+strings.Join(cat.DestinationNames(), ", "),
		)
	}
	return interactive.PromptDestination()
}

func printRoute(dest core.Destination, route *core.RouteSnapshot, link string) {
	fmt.Printf("📍 %s\n", dest.Name)
	fmt.Printf("  %s · %s\n", format.Distance(route.Distance), format.Duration(route.Duration))
	fmt.Printf("  Next: %s\n", route.Next)

	if routeSteps && len(route.Steps) > 0 {
		fmt.Println()
		t := NewTable("#", "INSTRUCTION", "DISTANCE", "TIME")
		for i, s := range route.Steps {
			t.Row(
				fmt.Sprintf("%d", i+1),
				TruncateString(s.Instruction, 50),
				format.Distance(s.Distance),
				format.Duration(s.Duration),
			)
		}
		t.Flush()
	}

	if Verbose() {
		fmt.Printf("\n  %s\n", link)
	}
}
