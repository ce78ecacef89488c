package placement

import (
	"math"
	"reflect"
	"testing"
)

func flatGrid(count int) Layout {
	w, h := ScaleSize(40, 60)
	return Grid(NewFlatSpace(800, 600), count, w, h)
}

func draggingCount(l Layout) int {
	n := 0
	for _, p := range l.Posters() {
		if p.Dragging {
			n++
		}
	}
	return n
}

func TestGrid_ThreeColumns(t *testing.T) {
	l := flatGrid(3)
	if l.Len() != 3 {
		t.Fatalf("Len %d, want 3", l.Len())
	}
	wantX := []float64{100, 230, 360}
	for i, p := range l.Posters() {
		if p.X != wantX[i] || p.Y != 100 {
			t.Errorf("poster %d at (%v,%v), want (%v,100)", i, p.X, p.Y, wantX[i])
		}
		if p.Width != 80 || p.Height != 120 {
			t.Errorf("poster %d size %vx%v, want 80x120", i, p.Width, p.Height)
		}
		if p.Dragging {
			t.Errorf("poster %d should not be dragging", i)
		}
	}
	ids := []string{"poster-0", "poster-1", "poster-2"}
	for i, p := range l.Posters() {
		if p.ID != ids[i] {
			t.Errorf("ID %q, want %q", p.ID, ids[i])
		}
	}
}

func TestGrid_SecondRow(t *testing.T) {
	l := flatGrid(4)
	p, ok := l.Poster("poster-3")
	if !ok {
		t.Fatal("poster-3 missing")
	}
	if p.X != 100 || p.Y != 270 {
		t.Errorf("poster-3 at (%v,%v), want (100,270)", p.X, p.Y)
	}
}

func TestGrid_Deterministic(t *testing.T) {
	a := flatGrid(7)
	b := flatGrid(7)
	if !reflect.DeepEqual(a.Posters(), b.Posters()) {
		t.Error("Grid should be deterministic")
	}
}

func TestGrid_NonPositiveCount(t *testing.T) {
	if l := flatGrid(0); l.Len() != 0 {
		t.Errorf("Len %d, want 0", l.Len())
	}
	if l := flatGrid(-2); l.Len() != 0 {
		t.Errorf("Len %d, want 0", l.Len())
	}
}

func TestGrid_ClampsOverflowingRows(t *testing.T) {
	w, h := ScaleSize(70, 100)
	space := NewFlatSpace(800, 600)
	l := Grid(space, 15, w, h)
	for _, p := range l.Posters() {
		if p.X < 0 || p.X > space.Width-p.Width || p.Y < 0 || p.Y > space.Height-p.Height {
			t.Errorf("%s at (%v,%v) outside board", p.ID, p.X, p.Y)
		}
	}
}

func TestBeginDrag_OnlyOneDragging(t *testing.T) {
	l := flatGrid(3).BeginDrag("poster-1").BeginDrag("poster-2")
	if n := draggingCount(l); n != 1 {
		t.Fatalf("dragging count %d, want 1", n)
	}
	p, ok := l.Dragging()
	if !ok || p.ID != "poster-2" {
		t.Errorf("dragging %q, want poster-2", p.ID)
	}
}

func TestBeginDrag_UnknownID(t *testing.T) {
	l := flatGrid(3).BeginDrag("poster-0")
	next := l.BeginDrag("nope")
	if !reflect.DeepEqual(l.Posters(), next.Posters()) {
		t.Error("unknown id should leave layout unchanged")
	}
}

func TestBeginDrag_DoesNotMutateReceiver(t *testing.T) {
	l := flatGrid(2)
	_ = l.BeginDrag("poster-0").UpdateDrag(Move{X: 0, Y: 0})
	if draggingCount(l) != 0 {
		t.Error("receiver should stay untouched")
	}
	p, _ := l.Poster("poster-0")
	if p.X != 100 || p.Y != 100 {
		t.Errorf("receiver poster moved to (%v,%v)", p.X, p.Y)
	}
}

func TestUpdateDrag_ClampsToCanvas(t *testing.T) {
	l := flatGrid(1).BeginDrag("poster-0")

	l = l.UpdateDrag(Move{X: 0, Y: 0})
	p, _ := l.Poster("poster-0")
	if p.X != 0 || p.Y != 0 {
		t.Errorf("pointer (0,0) -> (%v,%v), want (0,0)", p.X, p.Y)
	}

	l = l.UpdateDrag(Move{X: 900, Y: 900})
	p, _ = l.Poster("poster-0")
	if p.X != 720 || p.Y != 480 {
		t.Errorf("pointer (900,900) -> (%v,%v), want (720,480)", p.X, p.Y)
	}
}

func TestUpdateDrag_CentersUnderPointer(t *testing.T) {
	l := flatGrid(1).BeginDrag("poster-0").UpdateDrag(Move{X: 400, Y: 300})
	p, _ := l.Poster("poster-0")
	if p.X != 360 || p.Y != 240 {
		t.Errorf("got (%v,%v), want (360,240)", p.X, p.Y)
	}
}

func TestUpdateDrag_OnlyDraggedPosterMoves(t *testing.T) {
	before := flatGrid(3)
	after := before.BeginDrag("poster-1").UpdateDrag(Move{X: 500, Y: 400})
	for _, id := range []string{"poster-0", "poster-2"} {
		a, _ := before.Poster(id)
		b, _ := after.Poster(id)
		if a != b {
			t.Errorf("%s changed: %+v -> %+v", id, a, b)
		}
	}
}

func TestUpdateDrag_NoDragIsNoop(t *testing.T) {
	l := flatGrid(2)
	next := l.UpdateDrag(Move{X: 10, Y: 10})
	if !reflect.DeepEqual(l.Posters(), next.Posters()) {
		t.Error("UpdateDrag without a grab should not move anything")
	}
}

func TestUpdateDrag_PosterLargerThanCanvas(t *testing.T) {
	l := Grid(NewFlatSpace(100, 100), 1, 150, 80).BeginDrag("poster-0")
	l = l.UpdateDrag(Move{X: 90, Y: 90})
	p, _ := l.Poster("poster-0")
	if p.X != 0 {
		t.Errorf("X %v, want 0 for oversized poster", p.X)
	}
	if p.Y != 20 {
		t.Errorf("Y %v, want 20", p.Y)
	}
}

func TestUpdateDrag_ClampInvariant(t *testing.T) {
	space := NewFlatSpace(800, 600)
	l := Grid(space, 5, 120, 160).BeginDrag("poster-3")
	moves := []Move{{-50, -50}, {10, 590}, {795, 3}, {400, 300}, {1e6, -1e6}, {0.5, 0.25}}
	for _, m := range moves {
		l = l.UpdateDrag(m)
		for _, p := range l.Posters() {
			if p.X < 0 || p.X > space.Width-p.Width || p.Y < 0 || p.Y > space.Height-p.Height {
				t.Fatalf("after %+v, %s at (%v,%v) outside board", m, p.ID, p.X, p.Y)
			}
		}
	}
}

func TestEndDrag_ClearsAll(t *testing.T) {
	l := flatGrid(4).BeginDrag("poster-2").EndDrag()
	if n := draggingCount(l); n != 0 {
		t.Errorf("dragging count %d, want 0", n)
	}
	if _, ok := l.Dragging(); ok {
		t.Error("Dragging should report none")
	}
}

func TestBeginDragSequences_AtMostOne(t *testing.T) {
	l := flatGrid(6)
	for _, id := range []string{"poster-0", "poster-5", "x", "poster-2", "poster-2", "poster-4"} {
		l = l.BeginDrag(id)
		if n := draggingCount(l); n > 1 {
			t.Fatalf("after BeginDrag(%q) %d posters dragging", id, n)
		}
	}
}

func TestDistances_Flat(t *testing.T) {
	l := flatGrid(1)
	d, ok := l.Distances("poster-0")
	if !ok {
		t.Fatal("Distances should find poster-0")
	}
	want := Distances{Left: 50, Right: 310, Top: 50, Bottom: 190}
	if d != want {
		t.Errorf("Distances %+v, want %+v", d, want)
	}
	if _, ok := l.Distances("missing"); ok {
		t.Error("Distances should not find an unknown poster")
	}
}

func TestDistances_SumToCanvas(t *testing.T) {
	space := NewFlatSpace(800, 600)
	l := Grid(space, 3, 80, 120).BeginDrag("poster-1")
	for _, m := range []Move{{0, 0}, {123.4, 77.7}, {401, 299}, {799, 599}, {333.3, 444.4}} {
		l = l.UpdateDrag(m)
		for _, p := range l.Posters() {
			d := space.Distances(p)
			horizontal := float64(d.Left) + p.Width/PixelsPerCM + float64(d.Right)
			vertical := float64(d.Top) + p.Height/PixelsPerCM + float64(d.Bottom)
			if math.Abs(horizontal-space.Width/PixelsPerCM) > 1 {
				t.Errorf("%s horizontal sum %v cm, want %v±1", p.ID, horizontal, space.Width/PixelsPerCM)
			}
			if math.Abs(vertical-space.Height/PixelsPerCM) > 1 {
				t.Errorf("%s vertical sum %v cm, want %v±1", p.ID, vertical, space.Height/PixelsPerCM)
			}
		}
	}
}

func TestEmpty(t *testing.T) {
	l := Empty(NewFlatSpace(0, 0))
	if l.Len() != 0 {
		t.Errorf("Len %d, want 0", l.Len())
	}
	if l.Space().Kind() != KindFlat {
		t.Errorf("Kind %q, want flat", l.Space().Kind())
	}
	if l.UpdateDrag(Move{X: 1}).Len() != 0 {
		t.Error("UpdateDrag on empty layout should stay empty")
	}
}
