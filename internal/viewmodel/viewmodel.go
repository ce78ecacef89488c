package viewmodel

// Step is one entry of the wizard progress bar.
type Step struct {
	Number    int
	Label     string
	Completed bool
	Current   bool
}

// Option is a radio choice on a wizard step.
type Option struct {
	Value       string
	Label       string
	Description string
	Hex         string
	Selected    bool
}

// ThemeOption is a poster color theme choice.
type ThemeOption struct {
	Value       string
	Name        string
	Description string
	PosterColor string
	FrameColor  string
	Selected    bool
}

// Wizard holds what every wizard step page shares.
type Wizard struct {
	Title     string
	SessionID string
	Steps     []Step
	Error     string
}

// WallTypePage holds data for the first wizard step.
type WallTypePage struct {
	Wizard
	Options []Option
}

// PostersPage holds data for the poster count, size and wall color step.
type PostersPage struct {
	Wizard
	Count    int
	MinCount int
	MaxCount int
	Sizes    []Option
	Colors   []Option
}

// ColorsPage holds data for the theme step.
type ColorsPage struct {
	Wizard
	WallHex string
	Themes  []ThemeOption
}

// ReviewPage summarizes the collected answers.
type ReviewPage struct {
	Wizard
	WallType   string
	Count      int
	Size       string
	WallColor  string
	WallHex    string
	Theme      string
	ConfigJSON string
}

// Label is a distance annotation in board pixels.
type Label struct {
	Text string
	X    float64
	Y    float64
}

// Box is a flat-board poster.
type Box struct {
	ID       string
	X        float64
	Y        float64
	Width    float64
	Height   float64
	Dragging bool
}

// Polygon is a projected corner-board plane in SVG point syntax.
type Polygon struct {
	ID       string
	Points   string
	Fill     string
	Stroke   string
	Poster   bool
	Dragging bool
}

// Board holds data for the live board fragment that SSE swaps in.
type Board struct {
	SessionID   string
	Kind        string
	Width       float64
	Height      float64
	WallHex     string
	PosterColor string
	FrameColor  string
	Version     int
	Dragging    string
	Boxes       []Box
	Polygons    []Polygon
	Labels      []Label
}

// CanvasPage holds data for the interactive canvas page.
type CanvasPage struct {
	Title     string
	SessionID string
	WallType  string
	Count     int
	Size      string
	ThemeName string
	ShareURL  string
	Board     Board
}
