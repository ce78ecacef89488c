package wizard

import "slices"

const (
	WallTypeFlat   = "flat"
	WallTypeCorner = "corner"

	MinPosters = 1
	MaxPosters = 15
)

// WallTypeOption is a selectable wall layout.
type WallTypeOption struct {
	Type        string
	Title       string
	Description string
}

// SizeOption is a poster size in centimeters.
type SizeOption struct {
	Value string
	Label string
}

// ColorOption is a wall paint.
type ColorOption struct {
	Value string
	Label string
	Hex   string
}

// Theme pairs a poster fill with its frame color.
type Theme struct {
	ID          string
	Name        string
	Description string
	PosterColor string
	FrameColor  string
}

var WallTypes = []WallTypeOption{
	{
		Type:        WallTypeFlat,
		Title:       "Flat Wall",
		Description: "Clean, linear arrangements for hallways, bedrooms and living rooms.",
	},
	{
		Type:        WallTypeCorner,
		Title:       "Corner Wall",
		Description: "L-shaped layouts across two walls for offices and creative spaces.",
	},
}

var Sizes = []SizeOption{
	{Value: "20x30", Label: "20 x 30 cm"},
	{Value: "30x40", Label: "30 x 40 cm"},
	{Value: "40x50", Label: "40 x 50 cm"},
	{Value: "50x70", Label: "50 x 70 cm"},
	{Value: "60x80", Label: "60 x 80 cm"},
	{Value: "70x100", Label: "70 x 100 cm"},
}

var WallColors = []ColorOption{
	{Value: "white", Label: "White", Hex: "#FFFFFF"},
	{Value: "beige", Label: "Beige", Hex: "#F5F5DC"},
	{Value: "lightgray", Label: "Light Gray", Hex: "#D3D3D3"},
	{Value: "darkgray", Label: "Dark Gray", Hex: "#696969"},
	{Value: "cream", Label: "Cream", Hex: "#FFFDD0"},
	{Value: "offwhite", Label: "Off White", Hex: "#FAF0E6"},
	{Value: "lightblue", Label: "Light Blue", Hex: "#ADD8E6"},
	{Value: "lightgreen", Label: "Light Green", Hex: "#90EE90"},
}

var Themes = []Theme{
	{ID: "classic", Name: "Classic Dark", Description: "Traditional dark gray posters", PosterColor: "#4A4A4A", FrameColor: "#2A2A2A"},
	{ID: "modern", Name: "Modern Black", Description: "Sleek black frames", PosterColor: "#3A3A3A", FrameColor: "#1A1A1A"},
	{ID: "minimal", Name: "Minimal Gray", Description: "Light gray aesthetic", PosterColor: "#6A6A6A", FrameColor: "#4A4A4A"},
	{ID: "elegant", Name: "Elegant Charcoal", Description: "Sophisticated charcoal tones", PosterColor: "#505050", FrameColor: "#303030"},
}

// DefaultWallHex and DefaultTheme are used when a step was skipped.
const DefaultWallHex = "#FFFFFF"

var DefaultTheme = Themes[0]

// LookupWallColor returns the hex value for a wall color.
func LookupWallColor(value string) (ColorOption, bool) {
	i := slices.IndexFunc(WallColors, func(c ColorOption) bool { return c.Value == value })
	if i < 0 {
		return ColorOption{}, false
	}
	return WallColors[i], true
}

// LookupTheme returns a theme by id.
func LookupTheme(id string) (Theme, bool) {
	i := slices.IndexFunc(Themes, func(t Theme) bool { return t.ID == id })
	if i < 0 {
		return Theme{}, false
	}
	return Themes[i], true
}

// LookupWallType returns a wall type option.
func LookupWallType(value string) (WallTypeOption, bool) {
	i := slices.IndexFunc(WallTypes, func(w WallTypeOption) bool { return w.Type == value })
	if i < 0 {
		return WallTypeOption{}, false
	}
	return WallTypes[i], true
}

func validSize(value string) bool {
	return slices.ContainsFunc(Sizes, func(s SizeOption) bool { return s.Value == value })
}
