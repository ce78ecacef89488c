package placement

import "math"

// Kind names a coordinate space.
type Kind string

const (
	KindFlat   Kind = "flat"
	KindCorner Kind = "corner"
)

// Wall identifies one of the two planes of a corner board.
type Wall string

const (
	WallFront Wall = "front"
	WallSide  Wall = "side"
)

const (
	// PixelsPerCM is the board scale for real-world poster sizes.
	PixelsPerCM = 2

	DefaultCanvasWidth  = 800
	DefaultCanvasHeight = 600

	frontWallZ = -300
	sideWallZ  = 100
)

// Move is a pointer update. Flat spaces read it as an absolute pointer
// position on the board, corner spaces as a movement delta in screen pixels.
type Move struct {
	X float64
	Y float64
}

// Distances are edge-to-edge gaps in centimeters.
type Distances struct {
	Left   int `json:"left"`
	Right  int `json:"right"`
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
}

// Space is the coordinate-space strategy a Layout is bound to.
type Space interface {
	Kind() Kind
	// Place assigns plane data to the poster at index and clamps it into the space.
	Place(index int, p Poster) Poster
	// Move returns the clamped top-left position for p after m.
	Move(p Poster, m Move) (x, y float64)
	Distances(p Poster) Distances
}

// FlatSpace is a single board measured in pixels, origin at the top-left.
type FlatSpace struct {
	Width  float64
	Height float64
}

// NewFlatSpace returns a flat space, falling back to the default canvas
// for non-positive dimensions.
func NewFlatSpace(width, height float64) FlatSpace {
	if width <= 0 {
		width = DefaultCanvasWidth
	}
	if height <= 0 {
		height = DefaultCanvasHeight
	}
	return FlatSpace{Width: width, Height: height}
}

func (s FlatSpace) Kind() Kind { return KindFlat }

func (s FlatSpace) Place(_ int, p Poster) Poster {
	p.X = clamp(p.X, 0, s.Width-p.Width)
	p.Y = clamp(p.Y, 0, s.Height-p.Height)
	return p
}

// Move centers the poster under the pointer.
func (s FlatSpace) Move(p Poster, m Move) (float64, float64) {
	x := clamp(m.X-p.Width/2, 0, s.Width-p.Width)
	y := clamp(m.Y-p.Height/2, 0, s.Height-p.Height)
	return x, y
}

func (s FlatSpace) Distances(p Poster) Distances {
	return Distances{
		Left:   round(p.X / PixelsPerCM),
		Right:  round((s.Width - p.X - p.Width) / PixelsPerCM),
		Top:    round(p.Y / PixelsPerCM),
		Bottom: round((s.Height - p.Y - p.Height) / PixelsPerCM),
	}
}

// CornerSpace holds two perpendicular walls sharing one scene-space range.
// Y grows upwards, as in the scene graph.
type CornerSpace struct {
	MinX, MaxX float64
	MinY, MaxY float64
	// Gain converts screen pixels of pointer movement into scene units.
	Gain float64
	// UnitsPerCM converts scene units into reported centimeters.
	UnitsPerCM float64
}

// NewCornerSpace returns the default corner scene range.
func NewCornerSpace() CornerSpace {
	return CornerSpace{
		MinX:       -300,
		MaxX:       300,
		MinY:       -200,
		MaxY:       200,
		Gain:       2,
		UnitsPerCM: 10,
	}
}

func (s CornerSpace) Kind() Kind { return KindCorner }

// Place alternates walls by index parity.
func (s CornerSpace) Place(index int, p Poster) Poster {
	if index%2 == 0 {
		p.Wall = WallFront
		p.Z = frontWallZ
	} else {
		p.Wall = WallSide
		p.Z = sideWallZ
	}
	p.X = clamp(p.X, s.MinX, s.MaxX)
	p.Y = clamp(p.Y, s.MinY, s.MaxY)
	return p
}

// Move accumulates a screen delta; screen y points down, scene y up.
func (s CornerSpace) Move(p Poster, m Move) (float64, float64) {
	x := clamp(p.X+m.X*s.Gain, s.MinX, s.MaxX)
	y := clamp(p.Y-m.Y*s.Gain, s.MinY, s.MaxY)
	return x, y
}

func (s CornerSpace) Distances(p Poster) Distances {
	unit := s.UnitsPerCM
	if unit <= 0 {
		unit = 1
	}
	return Distances{
		Left:   round((p.X - s.MinX) / unit),
		Right:  round((s.MaxX - p.X) / unit),
		Top:    round((s.MaxY - p.Y) / unit),
		Bottom: round((p.Y - s.MinY) / unit),
	}
}

// clamp pins v into [lo, hi]. When hi < lo the lower bound wins, so a poster
// larger than its board sticks to the origin instead of leaving it.
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round(v float64) int {
	return int(math.Round(v))
}
