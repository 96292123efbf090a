package cli

import (
	"context"
	"time"

	"github.com/tessro/convoy/internal/catalog"
	"github.com/tessro/convoy/internal/channel"
	"github.com/tessro/convoy/internal/core"
	"github.com/tessro/convoy/internal/driver"
	cerrors "github.com/tessro/convoy/internal/errors"
	"github.com/tessro/convoy/internal/navigation"
	"github.com/tessro/convoy/internal/playback"
	"github.com/tessro/convoy/internal/routing"
)

// loadCatalog returns the configured catalog, or the built-in one.
func loadCatalog() (*catalog.Catalog, error) {
	if cfg.Catalog.File == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(cfg.Catalog.File)
	if err != nil {
		return nil, cerrors.WithSuggestion(err, "Check catalog.file in your config, or remove it to use the built-in catalog")
	}
	return cat, nil
}

// openChannel connects to the configured shared channel.
func openChannel(ctx context.Context) (channel.Channel, error) {
	ch, err := channel.Open(ctx, cfg.Channel, logger)
	if err != nil {
		return nil, cerrors.WithSuggestion(err, "Start a relay with 'convoy serve' or set channel.transport to memory")
	}
	return ch, nil
}

// newPlayback builds a controller driving a simulated device.
func newPlayback(ctx context.Context, ch channel.Channel, cat *catalog.Catalog) (*playback.Controller, error) {
	sim := driver.NewSim(driver.SimOptions{
		Tracks:     cat.Tracks,
		Volume:     cfg.Playback.Volume,
		RejectPlay: cfg.Playback.RejectPlay,
	})
	return playback.New(ctx, playback.Options{
		Tracks:  cat.Tracks,
		Channel: ch,
		Driver:  sim,
		Volume:  cfg.Playback.Volume,
		Logger:  logger,
	})
}

// origin returns the configured starting position.
func origin() core.LatLon {
	return core.LatLon{Lat: cfg.Navigation.OriginLat, Lon: cfg.Navigation.OriginLon}
}

// newRouter builds the routing client from config.
func newRouter() *routing.Router {
	timeout := time.Duration(cfg.Routing.Timeout) * time.Second
	return routing.NewFromConfig(cfg.Routing.BaseURL, cfg.Routing.Profile, timeout, logger)
}

// newNavigation builds a manager drawing onto overlay.
func newNavigation(overlay *navigation.Overlay) (*navigation.Manager, error) {
	return navigation.New(navigation.Options{
		Router:         newRouter(),
		Map:            overlay,
		Position:       origin(),
		Zoom:           cfg.Navigation.Zoom,
		FitPadding:     cfg.Navigation.FitPadding,
		RequestTimeout: time.Duration(cfg.Navigation.RequestTimeout) * time.Second,
		Logger:         logger,
	})
}
