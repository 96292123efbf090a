// Package browser opens URLs in the user's web browser.
package browser

import (
	"fmt"
	"io"
	"net/url"

	"github.com/pkg/browser"
)

func init() {
	// Keep launcher chatter out of the terminal UI.
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

// Open opens rawURL in the default browser. Only http and https URLs are accepted.
func Open(rawURL string) error {
	if err := Validate(rawURL); err != nil {
		return err
	}
	return browser.OpenURL(rawURL)
}

// Validate reports whether rawURL can be handed to a browser.
func Validate(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open %q: unsupported scheme", rawURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid URL %q: missing host", rawURL)
	}
	return nil
}
