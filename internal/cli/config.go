package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/tessro/convoy/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for viewing and editing convoy configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration values.`,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long:  `Open the configuration file in your default editor.`,
	RunE:  runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long:  `Create a new configuration file with default values.`,
	RunE:  runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Supported keys:
  channel.transport         memory, websocket, redis or nats
  channel.url               Channel address
  channel.topic             Redis channel or NATS subject
  relay.listen              Relay listen address
  routing.base_url          OSRM base URL
  routing.profile           OSRM profile (driving, walking, cycling)
  navigation.origin_lat     Starting latitude
  navigation.origin_lon     Starting longitude
  navigation.request_timeout  Seconds before a route request fails
  playback.volume           Default volume (0-1)
  catalog.file              YAML catalog path
  tui.theme                 auto, latte, frappe, macchiato or mocha
  log.level                 debug, info, warn or error

Examples:
  convoy config set channel.transport redis
  convoy config set playback.volume 0.5`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configSetOriginCmd = &cobra.Command{
	Use:   "set-origin",
	Short: "Interactively select the starting position",
	Long:  `Shows a picker to use one of the catalog destinations as the navigation origin.`,
	RunE:  runConfigSetOrigin,
}

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindBool
)

// settableKeys maps each supported key to its TOML type.
var settableKeys = map[string]valueKind{
	"channel.transport":          kindString,
	"channel.url":                kindString,
	"channel.topic":              kindString,
	"channel.password":           kindString,
	"relay.listen":               kindString,
	"routing.base_url":           kindString,
	"routing.profile":            kindString,
	"routing.timeout":            kindInt,
	"navigation.origin_lat":      kindFloat,
	"navigation.origin_lon":      kindFloat,
	"navigation.zoom":            kindInt,
	"navigation.fit_padding":     kindInt,
	"navigation.request_timeout": kindInt,
	"playback.volume":            kindFloat,
	"playback.reject_play":       kindBool,
	"catalog.file":               kindString,
	"tail.interval":              kindInt,
	"tui.theme":                  kindString,
	"tui.refresh_interval":       kindInt,
	"log.level":                  kindString,
	"log.file":                   kindString,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configSetOriginCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(cfg)
	}

	// Pretty print as TOML
	encoder := toml.NewEncoder(os.Stdout)
	encoder.Indent = "  "
	return encoder.Encode(cfg)
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found at %s. Run 'convoy config init' first", configPath)
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"nano", "vim", "vi", "notepad"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Set EDITOR environment variable")
	}

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	return editorCmd.Run()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists at %s", configPath)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := writeConfigFile(configPath, config.Default()); err != nil {
		return err
	}

	if JSONOutput() {
		_ = json.NewEncoder(os.Stdout).Encode(map[string]string{
			"status": "created",
			"path":   configPath,
		})
	} else {
		fmt.Printf("Created config file: %s\n", configPath)
		fmt.Println("\nNext steps:")
		fmt.Println("  1. Run 'convoy serve' on one machine to start a relay")
		fmt.Println("  2. Point channel.url at it and run 'convoy ui' on every peer")
	}

	return nil
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultPath()
}

// writeConfigFile encodes v as TOML under a short header.
func writeConfigFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := encodeConfig(f, v); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func encodeConfig(w io.Writer, v any) error {
	_, _ = fmt.Fprintln(w, "# Convoy Configuration")
	_, _ = fmt.Fprintln(w, "")

	encoder := toml.NewEncoder(w)
	encoder.Indent = "  "
	return encoder.Encode(v)
}

// parseValue converts value to the TOML type registered for key.
func parseValue(key, value string) (any, error) {
	kind, ok := settableKeys[key]
	if !ok {
		return nil, fmt.Errorf("unknown key %q. Run 'convoy config set --help' for the list", key)
	}

	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("value must be an integer for %s", key)
		}
		return n, nil
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("value must be a number for %s", key)
		}
		return f, nil
	case kindBool:
		return value == "true" || value == "1" || value == "yes", nil
	default:
		return value, nil
	}
}

// setRaw stores typed under "section.field" in a decoded TOML document.
func setRaw(raw map[string]any, key string, typed any) error {
	section, field, ok := strings.Cut(key, ".")
	if !ok {
		return fmt.Errorf("invalid key format. Use 'section.key' (e.g., channel.url)")
	}

	sectionMap, ok := raw[section].(map[string]any)
	if !ok {
		sectionMap = make(map[string]any)
		raw[section] = sectionMap
	}
	sectionMap[field] = typed
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	return setConfigValues(map[string]string{args[0]: args[1]})
}

func setConfigValues(values map[string]string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found at %s. Run 'convoy config init' first", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	raw := make(map[string]any)
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	for key, value := range values {
		typed, err := parseValue(key, value)
		if err != nil {
			return err
		}
		if err := setRaw(raw, key, typed); err != nil {
			return err
		}
	}

	if err := writeConfigFile(configPath, raw); err != nil {
		return err
	}

	if JSONOutput() {
		_ = json.NewEncoder(os.Stdout).Encode(map[string]any{
			"status": "updated",
			"values": values,
		})
	} else {
		for key, value := range values {
			fmt.Printf("Set %s = %s\n", key, value)
		}
	}

	return nil
}

func runConfigSetOrigin(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	options := make([]huh.Option[int], 0, len(cat.Destinations))
	for i, d := range cat.Destinations {
		label := fmt.Sprintf("%s (%s)", d.Name, d.LatLon)
		options = append(options, huh.NewOption(label, i))
	}

	var selected int
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Select starting position").
				Description("Routes are planned from here").
				Options(options...).
				Value(&selected),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("selection cancelled: %w", err)
	}

	d := cat.Destinations[selected]
	return setConfigValues(map[string]string{
		"navigation.origin_lat": strconv.FormatFloat(d.Lat, 'f', -1, 64),
		"navigation.origin_lon": strconv.FormatFloat(d.Lon, 'f', -1, 64),
	})
}
