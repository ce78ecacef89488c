// Package placement is the drag-and-constrain model behind both poster boards.
//
// A Layout is a value: every operation returns a new Layout and leaves the
// receiver untouched, so callers can swap layouts wholesale under their own
// lock and hand old values to renderers safely.
package placement

import "strconv"

const (
	gridColumns = 3
	gridGutter  = 50
	gridOffset  = 100
)

// Poster is one rectangle on a board. X and Y are the top-left corner in the
// units of the layout's Space. Z and Wall are only set in corner spaces.
type Poster struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Dragging bool    `json:"isDragging"`
	Wall     Wall    `json:"onWall,omitempty"`
}

// Layout is an immutable set of posters bound to a Space.
type Layout struct {
	space   Space
	posters []Poster
}

// ScaleSize converts a poster size in centimeters to board pixels.
func ScaleSize(widthCM, heightCM int) (float64, float64) {
	return float64(widthCM * PixelsPerCM), float64(heightCM * PixelsPerCM)
}

// Grid lays count posters of the given pixel size in rows of three.
// The result only depends on its arguments.
func Grid(space Space, count int, width, height float64) Layout {
	if count < 0 {
		count = 0
	}
	posters := make([]Poster, 0, count)
	for i := 0; i < count; i++ {
		col := i % gridColumns
		row := i / gridColumns
		p := Poster{
			ID:     "poster-" + strconv.Itoa(i),
			X:      gridOffset + float64(col)*(width+gridGutter),
			Y:      gridOffset + float64(row)*(height+gridGutter),
			Width:  width,
			Height: height,
		}
		posters = append(posters, space.Place(i, p))
	}
	return Layout{space: space, posters: posters}
}

// Empty returns a layout without posters.
func Empty(space Space) Layout {
	return Layout{space: space}
}

// Space returns the coordinate space of the layout.
func (l Layout) Space() Space {
	return l.space
}

// Len returns the number of posters.
func (l Layout) Len() int {
	return len(l.posters)
}

// Posters returns a copy of the posters in layout order.
func (l Layout) Posters() []Poster {
	return append([]Poster(nil), l.posters...)
}

// Poster looks up a poster by id.
func (l Layout) Poster(id string) (Poster, bool) {
	i := l.index(id)
	if i < 0 {
		return Poster{}, false
	}
	return l.posters[i], true
}

// Dragging returns the poster currently grabbed, if any.
func (l Layout) Dragging() (Poster, bool) {
	for _, p := range l.posters {
		if p.Dragging {
			return p, true
		}
	}
	return Poster{}, false
}

// BeginDrag grabs the poster with id and releases any other grab.
// Unknown ids leave the layout as it is.
func (l Layout) BeginDrag(id string) Layout {
	if l.index(id) < 0 {
		return l
	}
	next := l.clone()
	for i := range next.posters {
		next.posters[i].Dragging = next.posters[i].ID == id
	}
	return next
}

// UpdateDrag moves the grabbed poster. Without a grab it is a no-op.
func (l Layout) UpdateDrag(m Move) Layout {
	i := -1
	for j, p := range l.posters {
		if p.Dragging {
			i = j
			break
		}
	}
	if i < 0 || l.space == nil {
		return l
	}
	next := l.clone()
	p := next.posters[i]
	p.X, p.Y = l.space.Move(p, m)
	next.posters[i] = p
	return next
}

// EndDrag releases every grab.
func (l Layout) EndDrag() Layout {
	if _, ok := l.Dragging(); !ok {
		return l
	}
	next := l.clone()
	for i := range next.posters {
		next.posters[i].Dragging = false
	}
	return next
}

// Distances derives the gaps between a poster and the board edges.
func (l Layout) Distances(id string) (Distances, bool) {
	p, ok := l.Poster(id)
	if !ok || l.space == nil {
		return Distances{}, false
	}
	return l.space.Distances(p), true
}

func (l Layout) index(id string) int {
	for i, p := range l.posters {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (l Layout) clone() Layout {
	return Layout{space: l.space, posters: l.Posters()}
}
