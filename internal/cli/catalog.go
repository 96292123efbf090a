package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tessro/convoy/internal/format"
	"github.com/tessro/convoy/internal/tui/styles"
)

var catalogCmd = &cobra.Command{
	Use:     "catalog",
	Aliases: []string{"ls"},
	Short:   "List tracks and destinations",
	Long:    `Show the track catalog and destinations every peer shares.`,
	RunE:    runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	if JSONOutput() {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cat)
	}

	fmt.Println("Tracks")
	t := NewTable("#", "TITLE", "ARTIST", "LENGTH")
	for i, track := range cat.Tracks {
		length := "-"
		if track.Duration > 0 {
			length = format.Clock(track.Duration)
		}
		t.Row(fmt.Sprintf("%d", i+1), TruncateString(track.Title, 40), TruncateString(track.Artist, 30), length)
	}
	t.Flush()

	fmt.Println()
	fmt.Println("Destinations")
	t = NewTable("", "NAME", "LOCATION")
	for _, d := range cat.Destinations {
		t.Row(styles.PlaceIcon(d.Icon), d.Name, d.LatLon.String())
	}
	t.Flush()

	return nil
}
