package wizard

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"posterplanner/pkg/placement"
)

var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrUnknownWall   = errors.New("unknown wall type")
)

// Config is everything the wizard steps collect before the canvas.
type Config struct {
	WallType  string `json:"wallType,omitempty"`
	Count     int    `json:"count"`
	Size      string `json:"size"`
	WallColor string `json:"wallColor"`
	Theme     string `json:"theme,omitempty"`
}

// storedConfig mirrors the JSON blob kept by the browser between steps.
// Count arrives as a string from select inputs.
type storedConfig struct {
	Count     json.RawMessage `json:"count"`
	Size      string          `json:"size"`
	WallColor string          `json:"wallColor"`
	Theme     string          `json:"theme"`
}

// ParseConfig decodes a stored poster configuration. Anything unreadable
// degrades to a Config without posters rather than an error.
func ParseConfig(wallType string, raw []byte) Config {
	cfg := Config{WallType: strings.TrimSpace(wallType)}
	if len(raw) == 0 {
		return cfg
	}
	var stored storedConfig
	if err := json.Unmarshal(raw, &stored); err != nil {
		wizardLog().Debug().Err(err).Msg("stored config unreadable")
		return cfg
	}
	cfg.Count = parseCount(stored.Count)
	cfg.Size = strings.TrimSpace(stored.Size)
	cfg.WallColor = strings.TrimSpace(stored.WallColor)
	cfg.Theme = strings.TrimSpace(stored.Theme)
	return cfg
}

// Stored encodes the poster answers in the shape ParseConfig reads back.
// The wall type travels separately.
func (c Config) Stored() ([]byte, error) {
	count, err := json.Marshal(strconv.Itoa(c.Count))
	if err != nil {
		return nil, fmt.Errorf("encode count: %w", err)
	}
	return json.Marshal(storedConfig{
		Count:     count,
		Size:      c.Size,
		WallColor: c.WallColor,
		Theme:     c.Theme,
	})
}

func parseCount(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// PosterSize parses Size ("<w>x<h>" in cm).
func (c Config) PosterSize() (int, int, bool) {
	w, h, found := strings.Cut(c.Size, "x")
	if !found {
		return 0, 0, false
	}
	width, err := strconv.Atoi(strings.TrimSpace(w))
	if err != nil || width <= 0 {
		return 0, 0, false
	}
	height, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil || height <= 0 {
		return 0, 0, false
	}
	return width, height, true
}

// Validate checks every field against the catalog.
func (c Config) Validate() error {
	if _, ok := LookupWallType(c.WallType); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownWall, c.WallType)
	}
	if c.Count < MinPosters || c.Count > MaxPosters {
		return fmt.Errorf("%w: count %d outside %d-%d", ErrInvalidConfig, c.Count, MinPosters, MaxPosters)
	}
	if !validSize(c.Size) {
		return fmt.Errorf("%w: size %q", ErrInvalidConfig, c.Size)
	}
	if _, ok := LookupWallColor(c.WallColor); !ok {
		return fmt.Errorf("%w: wall color %q", ErrInvalidConfig, c.WallColor)
	}
	if c.Theme != "" {
		if _, ok := LookupTheme(c.Theme); !ok {
			return fmt.Errorf("%w: theme %q", ErrInvalidConfig, c.Theme)
		}
	}
	return nil
}

// Space picks the coordinate space for the wall type. Anything but a corner
// wall is drawn flat on a board of the given size.
func (c Config) Space(canvasWidth, canvasHeight float64) placement.Space {
	if c.WallType == WallTypeCorner {
		return placement.NewCornerSpace()
	}
	return placement.NewFlatSpace(canvasWidth, canvasHeight)
}

// Layout builds the initial grid for the configuration. A count outside
// MinPosters..MaxPosters or a size missing from the catalog yields an
// empty layout.
func (c Config) Layout(canvasWidth, canvasHeight float64) placement.Layout {
	space := c.Space(canvasWidth, canvasHeight)
	if c.Count < MinPosters || c.Count > MaxPosters || !validSize(c.Size) {
		return placement.Empty(space)
	}
	w, h, ok := c.PosterSize()
	if !ok {
		return placement.Empty(space)
	}
	pw, ph := placement.ScaleSize(w, h)
	return placement.Grid(space, c.Count, pw, ph)
}

// WallHex resolves the wall color, falling back to white.
func (c Config) WallHex() string {
	if color, ok := LookupWallColor(c.WallColor); ok {
		return color.Hex
	}
	return DefaultWallHex
}

// ResolvedTheme resolves the theme, falling back to the default.
func (c Config) ResolvedTheme() Theme {
	if theme, ok := LookupTheme(c.Theme); ok {
		return theme
	}
	return DefaultTheme
}
