package placement

// Ray is a pick ray in the renderer's world space.
type Ray struct {
	Origin    [3]float64 `json:"origin"`
	Direction [3]float64 `json:"direction"`
}

// HitTester resolves a pick ray to the poster it hits first.
// Renderers implement it so the model never depends on a drawing technology.
type HitTester interface {
	HitTest(r Ray) (id string, ok bool)
}

// BeginDragAt grabs whatever poster the ray hits. A miss releases any grab,
// matching a pointer-down on empty wall.
func (l Layout) BeginDragAt(h HitTester, r Ray) (Layout, bool) {
	id, ok := h.HitTest(r)
	if !ok {
		return l.EndDrag(), false
	}
	next := l.BeginDrag(id)
	_, grabbed := next.Dragging()
	return next, grabbed
}
