package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"posterplanner/pkg/placement"
)

const (
	// sceneScale maps scene units to world units.
	sceneScale = 1.0 / 100

	wallWidth  = 8
	wallHeight = 6
	frontWallZ = -3
	sideWallX  = -4
	sideWallZ  = 1
	// wallOffset lifts posters off their wall to avoid z-fighting.
	wallOffset = 0.01

	fovDegrees = 60
	nearPlane  = 0.1
	farPlane   = 100
)

var (
	cameraEye    = mgl32.Vec3{5, 3, 8}
	cameraTarget = mgl32.Vec3{0, 0, 0}
	cameraUp     = mgl32.Vec3{0, 1, 0}
)

// Point is a projected point in viewport pixels.
type Point struct {
	X float64
	Y float64
}

// Plane is a rectangle in the scene graph: a wall or a poster.
type Plane struct {
	ID       string
	Wall     placement.Wall
	Model    mgl32.Mat4
	Width    float32
	Height   float32
	Dragging bool
}

// Corners returns the four world-space corners of the plane,
// counter-clockwise from bottom-left.
func (p Plane) Corners() [4]mgl32.Vec3 {
	hw, hh := p.Width/2, p.Height/2
	local := [4]mgl32.Vec4{
		{-hw, -hh, 0, 1},
		{hw, -hh, 0, 1},
		{hw, hh, 0, 1},
		{-hw, hh, 0, 1},
	}
	var out [4]mgl32.Vec3
	for i, v := range local {
		out[i] = p.Model.Mul4x1(v).Vec3()
	}
	return out
}

// Corner draws two perpendicular walls meeting at the back-left edge.
type Corner struct {
	viewportWidth  float64
	viewportHeight float64
}

// NewCorner returns a renderer for a viewport of the given pixel size.
func NewCorner(viewportWidth, viewportHeight float64) Corner {
	if viewportWidth <= 0 {
		viewportWidth = placement.DefaultCanvasWidth
	}
	if viewportHeight <= 0 {
		viewportHeight = placement.DefaultCanvasHeight
	}
	return Corner{viewportWidth: viewportWidth, viewportHeight: viewportHeight}
}

// Scene is the scene graph of one layout seen through the fixed camera.
type Scene struct {
	Walls   []Plane
	Posters []Plane
	View    mgl32.Mat4
	Proj    mgl32.Mat4

	width  float64
	height float64
}

// Build places every poster of l on its wall. Poster X and Y are the plane
// center in scene units; on the side wall X runs towards the corner.
func (c Corner) Build(l placement.Layout) Scene {
	s := Scene{
		Walls: []Plane{
			{
				ID:     "wall-front",
				Wall:   placement.WallFront,
				Model:  mgl32.Translate3D(0, 0, frontWallZ),
				Width:  wallWidth,
				Height: wallHeight,
			},
			{
				ID:     "wall-side",
				Wall:   placement.WallSide,
				Model:  mgl32.Translate3D(sideWallX, 0, sideWallZ).Mul4(mgl32.HomogRotate3DY(math.Pi / 2)),
				Width:  wallWidth,
				Height: wallHeight,
			},
		},
		View:   mgl32.LookAtV(cameraEye, cameraTarget, cameraUp),
		Proj:   mgl32.Perspective(mgl32.DegToRad(fovDegrees), float32(c.viewportWidth/c.viewportHeight), nearPlane, farPlane),
		width:  c.viewportWidth,
		height: c.viewportHeight,
	}
	for _, p := range l.Posters() {
		s.Posters = append(s.Posters, posterPlane(p))
	}
	return s
}

func posterPlane(p placement.Poster) Plane {
	x := float32(p.X * sceneScale)
	y := float32(p.Y * sceneScale)
	z := float32(p.Z * sceneScale)
	var model mgl32.Mat4
	if p.Wall == placement.WallSide {
		model = mgl32.Translate3D(sideWallX+wallOffset, y, z-x).Mul4(mgl32.HomogRotate3DY(math.Pi / 2))
	} else {
		model = mgl32.Translate3D(x, y, z+wallOffset)
	}
	return Plane{
		ID:       p.ID,
		Wall:     p.Wall,
		Model:    model,
		Width:    float32(p.Width * sceneScale),
		Height:   float32(p.Height * sceneScale),
		Dragging: p.Dragging,
	}
}

// Project maps a world point to viewport pixels. Points behind the camera
// report false.
func (s Scene) Project(world mgl32.Vec3) (Point, bool) {
	clip := s.Proj.Mul4(s.View).Mul4x1(world.Vec4(1))
	if clip.W() <= 0 {
		return Point{}, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	return Point{
		X: (float64(ndc.X()) + 1) / 2 * s.width,
		Y: (1 - float64(ndc.Y())) / 2 * s.height,
	}, true
}

// Outline projects the corners of a plane. It reports false if any corner
// is behind the camera.
func (s Scene) Outline(p Plane) ([4]Point, bool) {
	var out [4]Point
	for i, corner := range p.Corners() {
		pt, ok := s.Project(corner)
		if !ok {
			return out, false
		}
		out[i] = pt
	}
	return out, true
}

// PickRay un-projects a viewport pixel into a world-space ray from the near plane.
func (s Scene) PickRay(px, py float64) placement.Ray {
	ndcX := float32(2*px/s.width - 1)
	ndcY := float32(1 - 2*py/s.height)
	inv := s.Proj.Mul4(s.View).Inv()
	near := unproject(inv, mgl32.Vec4{ndcX, ndcY, -1, 1})
	far := unproject(inv, mgl32.Vec4{ndcX, ndcY, 1, 1})
	return toRay(near, far.Sub(near).Normalize())
}

func unproject(inv mgl32.Mat4, ndc mgl32.Vec4) mgl32.Vec3 {
	v := inv.Mul4x1(ndc)
	return v.Vec3().Mul(1 / v.W())
}

// HitTest returns the nearest poster the ray passes through.
func (s Scene) HitTest(r placement.Ray) (string, bool) {
	origin, dir := fromRay(r)
	if dir.Len() == 0 {
		return "", false
	}
	best := float32(math.Inf(1))
	hit := ""
	for _, p := range s.Posters {
		t, ok := intersect(p, origin, dir)
		if ok && t < best {
			best, hit = t, p.ID
		}
	}
	return hit, hit != ""
}

// intersect tests the ray against the plane's quad in its local frame.
func intersect(p Plane, origin, dir mgl32.Vec3) (float32, bool) {
	inv := p.Model.Inv()
	o := inv.Mul4x1(origin.Vec4(1)).Vec3()
	d := inv.Mul4x1(dir.Vec4(0)).Vec3()
	if d.Z() == 0 {
		return 0, false
	}
	t := -o.Z() / d.Z()
	if t < 0 {
		return 0, false
	}
	at := o.Add(d.Mul(t))
	if abs32(at.X()) > p.Width/2 || abs32(at.Y()) > p.Height/2 {
		return 0, false
	}
	return t, true
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func fromRay(r placement.Ray) (mgl32.Vec3, mgl32.Vec3) {
	return mgl32.Vec3{float32(r.Origin[0]), float32(r.Origin[1]), float32(r.Origin[2])},
		mgl32.Vec3{float32(r.Direction[0]), float32(r.Direction[1]), float32(r.Direction[2])}
}

func toRay(origin, dir mgl32.Vec3) placement.Ray {
	return placement.Ray{
		Origin:    [3]float64{float64(origin.X()), float64(origin.Y()), float64(origin.Z())},
		Direction: [3]float64{float64(dir.X()), float64(dir.Y()), float64(dir.Z())},
	}
}

// Labels returns the distance annotation of a dragging corner poster,
// anchored below its projected outline.
func (c Corner) Labels(s Scene, l placement.Layout) []Label {
	p, ok := l.Dragging()
	if !ok {
		return nil
	}
	d, _ := l.Distances(p.ID)
	for _, plane := range s.Posters {
		if plane.ID != p.ID {
			continue
		}
		outline, visible := s.Outline(plane)
		if !visible {
			return nil
		}
		x := (outline[0].X + outline[1].X) / 2
		y := math.Max(outline[0].Y, outline[1].Y) + 14
		return []Label{
			{Text: "← " + cm(d.Left) + " · " + cm(d.Right) + " →", X: x, Y: y},
			{Text: "↑ " + cm(d.Top) + " · " + cm(d.Bottom) + " ↓", X: x, Y: y + 16},
		}
	}
	return nil
}
