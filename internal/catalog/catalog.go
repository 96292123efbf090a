// Package catalog loads the track and destination catalogs.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tessro/convoy/internal/core"
	cerrors "github.com/tessro/convoy/internal/errors"
)

//go:embed default.yaml
var defaultYAML []byte

// Catalog is the immutable set of tracks and destinations known to a peer.
type Catalog struct {
	Tracks       core.Tracks        `yaml:"tracks" json:"tracks"`
	Destinations []core.Destination `yaml:"destinations" json:"destinations"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("catalog: built-in catalog is invalid: %v", err))
	}
	return c
}

// Load reads a catalog from path, or returns the built-in one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog. Unknown fields are rejected.
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that both lists are non-empty and every entry is usable.
func (c *Catalog) Validate() error {
	var errs []error

	if len(c.Tracks) == 0 {
		errs = append(errs, fmt.Errorf("%w: no tracks", cerrors.ErrEmptyCatalog))
	}
	for i, t := range c.Tracks {
		if t.Title == "" {
			errs = append(errs, fmt.Errorf("tracks[%d]: title is required", i))
		}
		if t.Duration < 0 {
			errs = append(errs, fmt.Errorf("tracks[%d]: duration must not be negative", i))
		}
	}

	if len(c.Destinations) == 0 {
		errs = append(errs, fmt.Errorf("%w: no destinations", cerrors.ErrEmptyCatalog))
	}
	seen := make(map[string]bool)
	for i, d := range c.Destinations {
		if d.Name == "" {
			errs = append(errs, fmt.Errorf("destinations[%d]: name is required", i))
		}
		key := strings.ToLower(d.Name)
		if seen[key] {
			errs = append(errs, fmt.Errorf("destinations[%d]: duplicate name %q", i, d.Name))
		}
		seen[key] = true
		if !d.Valid() {
			errs = append(errs, fmt.Errorf("destinations[%d]: invalid coordinates %v", i, d.LatLon))
		}
	}

	return errors.Join(errs...)
}

// Destination looks up a destination by case-insensitive name.
func (c *Catalog) Destination(name string) (core.Destination, error) {
	for _, d := range c.Destinations {
		if strings.EqualFold(d.Name, name) {
			return d, nil
		}
	}
	return core.Destination{}, fmt.Errorf("%w: %q", cerrors.ErrUnknownPlace, name)
}

// DestinationNames returns the destination names in catalog order.
func (c *Catalog) DestinationNames() []string {
	names := make([]string, len(c.Destinations))
	for i, d := range c.Destinations {
		names[i] = d.Name
	}
	return names
}
