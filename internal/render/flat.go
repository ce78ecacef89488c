// Package render turns placement layouts into something a browser can draw
// and turns browser pointer input back into placement updates.
package render

import (
	"strconv"

	"posterplanner/pkg/placement"
)

// Label is a distance annotation anchored in board pixels.
type Label struct {
	Text string
	X    float64
	Y    float64
}

// Box is one poster drawn as an absolutely positioned rectangle.
type Box struct {
	ID       string
	X        float64
	Y        float64
	Width    float64
	Height   float64
	Dragging bool
	Labels   []Label
}

// Flat draws a single board.
type Flat struct {
	space placement.FlatSpace
}

// NewFlat returns a renderer for space.
func NewFlat(space placement.FlatSpace) Flat {
	return Flat{space: space}
}

// Width and Height are the board size in pixels.
func (f Flat) Width() float64  { return f.space.Width }
func (f Flat) Height() float64 { return f.space.Height }

// Boxes lays out every poster. Only the dragging poster carries labels,
// placed halfway across each gap.
func (f Flat) Boxes(l placement.Layout) []Box {
	posters := l.Posters()
	boxes := make([]Box, 0, len(posters))
	for _, p := range posters {
		b := Box{
			ID:       p.ID,
			X:        p.X,
			Y:        p.Y,
			Width:    p.Width,
			Height:   p.Height,
			Dragging: p.Dragging,
		}
		if p.Dragging {
			b.Labels = f.labels(p)
		}
		boxes = append(boxes, b)
	}
	return boxes
}

func (f Flat) labels(p placement.Poster) []Label {
	d := f.space.Distances(p)
	midY := p.Y + p.Height/2
	midX := p.X + p.Width/2
	return []Label{
		{Text: cm(d.Left), X: p.X/2 - 10, Y: midY},
		{Text: cm(d.Right), X: p.X + p.Width + (f.space.Width-p.X-p.Width)/2 - 10, Y: midY},
		{Text: cm(d.Top), X: midX - 10, Y: p.Y/2 - 10},
		{Text: cm(d.Bottom), X: midX - 10, Y: p.Y + p.Height + (f.space.Height-p.Y-p.Height)/2 - 10},
	}
}

// PointerRay is the ray straight into the board at (x, y).
func (f Flat) PointerRay(x, y float64) placement.Ray {
	return placement.Ray{Origin: [3]float64{x, y, -1}, Direction: [3]float64{0, 0, 1}}
}

// HitTester returns a hit tester for the posters of l. Later posters are
// drawn on top, and the dragging poster above all of them.
func (f Flat) HitTester(l placement.Layout) placement.HitTester {
	return flatHits(l.Posters())
}

type flatHits []placement.Poster

func (h flatHits) HitTest(r placement.Ray) (string, bool) {
	if r.Direction[2] == 0 {
		return "", false
	}
	x, y := r.Origin[0], r.Origin[1]
	for _, p := range h {
		if p.Dragging && contains(p, x, y) {
			return p.ID, true
		}
	}
	for i := len(h) - 1; i >= 0; i-- {
		if contains(h[i], x, y) {
			return h[i].ID, true
		}
	}
	return "", false
}

func contains(p placement.Poster, x, y float64) bool {
	return x >= p.X && x <= p.X+p.Width && y >= p.Y && y <= p.Y+p.Height
}

func cm(v int) string {
	return strconv.Itoa(v) + "cm"
}
