package handlers

import (
	"strconv"
	"strings"

	"posterplanner/internal/render"
	"posterplanner/internal/viewmodel"
	"posterplanner/internal/wizard"
	"posterplanner/pkg/placement"
)

const wallStroke = "#9A9A9A"

// boardRenderer picks the renderer matching a layout's space.
type boardRenderer struct {
	width  float64
	height float64
}

func newBoardRenderer(opts wizard.Options) boardRenderer {
	return boardRenderer{width: opts.CanvasWidth, height: opts.CanvasHeight}
}

func (b boardRenderer) flat(l placement.Layout) render.Flat {
	space, ok := l.Space().(placement.FlatSpace)
	if !ok {
		space = placement.NewFlatSpace(b.width, b.height)
	}
	return render.NewFlat(space)
}

func (b boardRenderer) corner() render.Corner {
	return render.NewCorner(b.width, b.height)
}

// hitTester resolves rays in the coordinates of the layout's renderer.
func (b boardRenderer) hitTester(l placement.Layout) placement.HitTester {
	if l.Space().Kind() == placement.KindCorner {
		return b.corner().Build(l)
	}
	return b.flat(l).HitTester(l)
}

// pointerRay turns a pointer position on the board into a pick ray.
func (b boardRenderer) pointerRay(l placement.Layout, x, y float64) placement.Ray {
	if l.Space().Kind() == placement.KindCorner {
		return b.corner().Build(l).PickRay(x, y)
	}
	return b.flat(l).PointerRay(x, y)
}

func (b boardRenderer) board(snapshot wizard.Snapshot) viewmodel.Board {
	l := snapshot.Layout
	data := viewmodel.Board{
		SessionID:   snapshot.ID,
		Kind:        string(l.Space().Kind()),
		Width:       b.width,
		Height:      b.height,
		WallHex:     snapshot.WallHex,
		PosterColor: snapshot.Theme.PosterColor,
		FrameColor:  snapshot.Theme.FrameColor,
		Version:     snapshot.Version,
		Dragging:    snapshot.Dragging,
	}
	if l.Space().Kind() == placement.KindCorner {
		b.cornerBoard(&data, l)
		return data
	}
	f := b.flat(l)
	data.Width, data.Height = f.Width(), f.Height()
	var dragging *viewmodel.Box
	for _, box := range f.Boxes(l) {
		vb := viewmodel.Box{
			ID:       box.ID,
			X:        box.X,
			Y:        box.Y,
			Width:    box.Width,
			Height:   box.Height,
			Dragging: box.Dragging,
		}
		data.Labels = append(data.Labels, toLabels(box.Labels)...)
		// SVG paints in document order, so the grabbed poster goes last.
		if box.Dragging {
			dragging = &vb
			continue
		}
		data.Boxes = append(data.Boxes, vb)
	}
	if dragging != nil {
		data.Boxes = append(data.Boxes, *dragging)
	}
	return data
}

func (b boardRenderer) cornerBoard(data *viewmodel.Board, l placement.Layout) {
	c := b.corner()
	scene := c.Build(l)
	for _, wall := range scene.Walls {
		outline, ok := scene.Outline(wall)
		if !ok {
			continue
		}
		fill := data.WallHex
		if wall.Wall == placement.WallSide {
			fill = shade(fill)
		}
		data.Polygons = append(data.Polygons, viewmodel.Polygon{
			ID:     wall.ID,
			Points: points(outline),
			Fill:   fill,
			Stroke: wallStroke,
		})
	}
	var dragging *viewmodel.Polygon
	for _, plane := range scene.Posters {
		outline, ok := scene.Outline(plane)
		if !ok {
			continue
		}
		poly := viewmodel.Polygon{
			ID:       plane.ID,
			Points:   points(outline),
			Fill:     data.PosterColor,
			Stroke:   data.FrameColor,
			Poster:   true,
			Dragging: plane.Dragging,
		}
		if plane.Dragging {
			dragging = &poly
			continue
		}
		data.Polygons = append(data.Polygons, poly)
	}
	if dragging != nil {
		data.Polygons = append(data.Polygons, *dragging)
	}
	data.Labels = toLabels(c.Labels(scene, l))
}

func toLabels(labels []render.Label) []viewmodel.Label {
	out := make([]viewmodel.Label, 0, len(labels))
	for _, label := range labels {
		out = append(out, viewmodel.Label{Text: label.Text, X: label.X, Y: label.Y})
	}
	return out
}

func points(outline [4]render.Point) string {
	parts := make([]string, 0, len(outline))
	for _, pt := range outline {
		parts = append(parts, strconv.FormatFloat(pt.X, 'f', 1, 64)+","+strconv.FormatFloat(pt.Y, 'f', 1, 64))
	}
	return strings.Join(parts, " ")
}

// shade darkens a #RRGGBB color so the side wall reads as turned away.
func shade(hex string) string {
	if len(hex) != 7 || hex[0] != '#' {
		return hex
	}
	out := []byte{'#'}
	for i := 1; i < 7; i += 2 {
		v := hexNibble(hex[i])<<4 | hexNibble(hex[i+1])
		v = v * 7 / 8
		out = append(out, hexDigit(v>>4), hexDigit(v&0xF))
	}
	return string(out)
}

func hexNibble(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return 0
}

func hexDigit(v int) byte {
	return "0123456789ABCDEF"[v&0xF]
}
