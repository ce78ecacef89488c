package render

import (
	"math"
	"testing"

	"posterplanner/pkg/placement"
)

func cornerScene(t *testing.T) (Corner, placement.Layout, Scene) {
	t.Helper()
	c := NewCorner(800, 600)
	l := placement.Grid(placement.NewCornerSpace(), 2, 80, 120)
	return c, l, c.Build(l)
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-3
}

func TestCorner_BuildPlacesPostersOnWalls(t *testing.T) {
	_, _, s := cornerScene(t)
	if len(s.Walls) != 2 {
		t.Fatalf("got %d walls, want 2", len(s.Walls))
	}
	if len(s.Posters) != 2 {
		t.Fatalf("got %d posters, want 2", len(s.Posters))
	}

	front := s.Posters[0].Model.Col(3)
	if !near(float64(front.X()), 1) || !near(float64(front.Y()), 1) || !near(float64(front.Z()), -2.99) {
		t.Errorf("front poster center %v, want (1,1,-2.99)", front)
	}
	side := s.Posters[1].Model.Col(3)
	if !near(float64(side.X()), -3.99) || !near(float64(side.Y()), 1) || !near(float64(side.Z()), -1.3) {
		t.Errorf("side poster center %v, want (-3.99,1,-1.3)", side)
	}
	if s.Posters[1].Wall != placement.WallSide {
		t.Errorf("poster-1 wall %q, want side", s.Posters[1].Wall)
	}
}

func TestCorner_SidePosterLiesInWallPlane(t *testing.T) {
	_, _, s := cornerScene(t)
	for _, corner := range s.Posters[1].Corners() {
		if !near(float64(corner.X()), -3.99) {
			t.Errorf("side corner x %v, want -3.99", corner.X())
		}
	}
}

func TestCorner_HitTest(t *testing.T) {
	_, _, s := cornerScene(t)
	cases := []struct {
		name   string
		ray    placement.Ray
		wantID string
		wantOK bool
	}{
		{"front", placement.Ray{Origin: [3]float64{1, 1, 10}, Direction: [3]float64{0, 0, -1}}, "poster-0", true},
		{"side", placement.Ray{Origin: [3]float64{10, 1, -1.3}, Direction: [3]float64{-1, 0, 0}}, "poster-1", true},
		{"miss", placement.Ray{Origin: [3]float64{3, -2, 10}, Direction: [3]float64{0, 0, -1}}, "", false},
		{"away", placement.Ray{Origin: [3]float64{1, 1, 10}, Direction: [3]float64{0, 0, 1}}, "", false},
		{"zero", placement.Ray{Origin: [3]float64{1, 1, 10}}, "", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			id, ok := s.HitTest(c.ray)
			if id != c.wantID || ok != c.wantOK {
				t.Errorf("HitTest = %q,%t want %q,%t", id, ok, c.wantID, c.wantOK)
			}
		})
	}
}

func TestCorner_PickRayRoundTrip(t *testing.T) {
	_, _, s := cornerScene(t)
	for _, plane := range s.Posters {
		center := plane.Model.Col(3).Vec3()
		pt, ok := s.Project(center)
		if !ok {
			t.Fatalf("%s center behind camera", plane.ID)
		}
		id, hit := s.HitTest(s.PickRay(pt.X, pt.Y))
		if !hit || id != plane.ID {
			t.Errorf("pick at %s center = %q,%t", plane.ID, id, hit)
		}
	}
}

func TestCorner_PickRayCenterLooksAtOrigin(t *testing.T) {
	_, _, s := cornerScene(t)
	r := s.PickRay(400, 300)
	eye := [3]float64{5, 3, 8}
	n := math.Sqrt(eye[0]*eye[0] + eye[1]*eye[1] + eye[2]*eye[2])
	for i := range eye {
		if math.Abs(r.Direction[i]+eye[i]/n) > 1e-3 {
			t.Fatalf("direction %v, want towards origin", r.Direction)
		}
	}
}

func TestCorner_LabelsFollowDragging(t *testing.T) {
	c, l, s := cornerScene(t)
	if labels := c.Labels(s, l); labels != nil {
		t.Errorf("labels %v without a drag", labels)
	}
	l = l.BeginDrag("poster-0")
	s = c.Build(l)
	labels := c.Labels(s, l)
	if len(labels) != 2 {
		t.Fatalf("got %d labels, want 2", len(labels))
	}
	if labels[0].Text != "← 40cm · 20cm →" {
		t.Errorf("horizontal label %q", labels[0].Text)
	}
	if labels[1].Text != "↑ 10cm · 30cm ↓" {
		t.Errorf("vertical label %q", labels[1].Text)
	}
}
