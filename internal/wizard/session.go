package wizard

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"posterplanner/pkg/placement"
	"posterplanner/pkg/realtime"
)

const (
	StepWallType = 1
	StepPosters  = 2
	StepColors   = 3

	DefaultDragTimeout = 10 * time.Second
	DefaultSessionTTL  = 2 * time.Hour
)

// Options tune a session. Zero values fall back to defaults.
type Options struct {
	CanvasWidth  float64
	CanvasHeight float64
	DragTimeout  time.Duration
	SessionTTL   time.Duration
}

func (o Options) withDefaults() Options {
	if o.CanvasWidth <= 0 {
		o.CanvasWidth = placement.DefaultCanvasWidth
	}
	if o.CanvasHeight <= 0 {
		o.CanvasHeight = placement.DefaultCanvasHeight
	}
	if o.DragTimeout <= 0 {
		o.DragTimeout = DefaultDragTimeout
	}
	if o.SessionTTL <= 0 {
		o.SessionTTL = DefaultSessionTTL
	}
	return o
}

// Session holds one wizard run: the collected answers and, once the canvas
// opens, the poster layout being arranged.
type Session struct {
	mu        sync.Mutex
	ID        string
	CreatedAt time.Time

	opts        Options
	config      Config
	step        int
	layout      placement.Layout
	initialized bool
	version     int
	idle        realtime.Idle
	drag        realtime.Idle
}

// NewSession starts an empty wizard run.
func NewSession(opts Options) *Session {
	opts = opts.withDefaults()
	now := time.Now().UTC()
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		opts:      opts,
		idle:      realtime.Idle{Timeout: opts.SessionTTL},
		drag:      realtime.Idle{Timeout: opts.DragTimeout},
	}
	s.idle.Touch(now)
	s.layout = placement.Empty(s.config.Space(opts.CanvasWidth, opts.CanvasHeight))
	return s
}

// SetWallType records the first step.
func (s *Session) SetWallType(wallType string) error {
	if _, ok := LookupWallType(wallType); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownWall, wallType)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	if s.config.WallType != wallType {
		s.initialized = false
	}
	s.config.WallType = wallType
	s.advanceLocked(StepWallType)
	return nil
}

// SetPosters records count, size and wall color.
func (s *Session) SetPosters(count int, size, wallColor string) error {
	if count < MinPosters || count > MaxPosters {
		return fmt.Errorf("%w: count %d outside %d-%d", ErrInvalidConfig, count, MinPosters, MaxPosters)
	}
	if !validSize(size) {
		return fmt.Errorf("%w: size %q", ErrInvalidConfig, size)
	}
	if _, ok := LookupWallColor(wallColor); !ok {
		return fmt.Errorf("%w: wall color %q", ErrInvalidConfig, wallColor)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	if s.config.Count != count || s.config.Size != size {
		s.initialized = false
	}
	s.config.Count = count
	s.config.Size = size
	s.config.WallColor = wallColor
	s.advanceLocked(StepPosters)
	return nil
}

// SetTheme records the poster color theme.
func (s *Session) SetTheme(theme string) error {
	if _, ok := LookupTheme(theme); !ok {
		return fmt.Errorf("%w: theme %q", ErrInvalidConfig, theme)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	s.config.Theme = theme
	s.advanceLocked(StepColors)
	s.version++
	return nil
}

// Config returns the collected answers.
func (s *Session) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// Step returns the furthest completed wizard step.
func (s *Session) Step() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// InitializeLayout replaces the answers with cfg and lays out a fresh grid.
// An incomplete cfg yields an empty board.
func (s *Session) InitializeLayout(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	s.config = cfg
	s.step = completedStep(cfg)
	s.resetLocked()
}

// EnsureLayout lays out the grid from the current answers unless a layout
// already exists. It reports whether a new grid was built.
func (s *Session) EnsureLayout() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	if s.initialized {
		return false
	}
	s.resetLocked()
	return true
}

// ResetLayout puts every poster back on the initial grid.
func (s *Session) ResetLayout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	s.resetLocked()
}

func (s *Session) resetLocked() {
	s.layout = s.config.Layout(s.opts.CanvasWidth, s.opts.CanvasHeight)
	s.initialized = true
	s.version++
}

// PointerDown grabs a poster. It reports whether a poster is now dragging.
func (s *Session) PointerDown(id string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idle.Touch(now)
	next := s.layout.BeginDrag(id)
	p, ok := next.Dragging()
	if !ok || p.ID != id {
		return false
	}
	s.layout = next
	s.drag.Touch(now)
	s.version++
	return true
}

// Grab is the outcome of PointerDownAt.
type Grab struct {
	// ID is the grabbed poster, empty on a miss.
	ID string
	// Changed reports whether the board changed: a hit, or a miss that
	// released an earlier grab.
	Changed bool
}

// Hit reports whether the ray grabbed a poster.
func (g Grab) Hit() bool {
	return g.ID != ""
}

// PointerDownAt grabs whatever poster the ray hits.
func (s *Session) PointerDownAt(h placement.HitTester, r placement.Ray, now time.Time) Grab {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idle.Touch(now)
	_, wasDragging := s.layout.Dragging()
	next, ok := s.layout.BeginDragAt(h, r)
	s.layout = next
	if !ok {
		if wasDragging {
			s.version++
		}
		return Grab{Changed: wasDragging}
	}
	s.version++
	s.drag.Touch(now)
	p, _ := next.Dragging()
	return Grab{ID: p.ID, Changed: true}
}

// PointerMove moves the grabbed poster. It reports whether anything moved.
func (s *Session) PointerMove(m placement.Move, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idle.Touch(now)
	before, ok := s.layout.Dragging()
	if !ok {
		return false
	}
	s.layout = s.layout.UpdateDrag(m)
	s.drag.Touch(now)
	after, _ := s.layout.Poster(before.ID)
	if after.X == before.X && after.Y == before.Y {
		return false
	}
	s.version++
	return true
}

// PointerUp releases any grab. Pointer-leave is routed here too.
func (s *Session) PointerUp(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idle.Touch(now)
	return s.endDragLocked()
}

func (s *Session) endDragLocked() bool {
	if _, ok := s.layout.Dragging(); !ok {
		return false
	}
	s.layout = s.layout.EndDrag()
	s.drag.LastActivity = time.Time{}
	s.version++
	return true
}

// Distances reports the edge gaps of a poster in centimeters.
func (s *Session) Distances(id string) (placement.Distances, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout.Distances(id)
}

// Layout returns the current layout value.
func (s *Session) Layout() placement.Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout
}

// NextTimer returns when the session needs attention next: a stale drag
// or the end of its lifetime.
func (s *Session) NextTimer(now time.Time) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, ok := s.idle.NextWake(now)
	if _, dragging := s.layout.Dragging(); dragging {
		if d, armed := s.drag.NextWake(now); armed && (!ok || d.Before(next)) {
			next, ok = d, true
		}
	}
	return next, ok
}

// Tick releases a drag that saw no pointer event within the drag timeout
// and reports whether the session itself went idle.
func (s *Session) Tick(now time.Time) (released bool, expired bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dragging := s.layout.Dragging(); dragging && s.drag.Expired(now) {
		released = s.endDragLocked()
	}
	return released, s.idle.Expired(now)
}

func (s *Session) touchLocked() {
	s.idle.Touch(time.Now().UTC())
}

func (s *Session) advanceLocked(step int) {
	if step > s.step {
		s.step = step
	}
}

func completedStep(cfg Config) int {
	step := 0
	if _, ok := LookupWallType(cfg.WallType); ok {
		step = StepWallType
	}
	if step == StepWallType && cfg.Count > 0 && cfg.Size != "" {
		step = StepPosters
	}
	if step == StepPosters && cfg.Theme != "" {
		step = StepColors
	}
	return step
}

// Snapshot captures the state needed for rendering.
type Snapshot struct {
	ID       string
	Config   Config
	Step     int
	Layout   placement.Layout
	Version  int
	WallHex  string
	Theme    Theme
	Dragging string
}

// Snapshot returns a consistent view of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	dragging := ""
	if p, ok := s.layout.Dragging(); ok {
		dragging = p.ID
	}
	return Snapshot{
		ID:       s.ID,
		Config:   s.config,
		Step:     s.step,
		Layout:   s.layout,
		Version:  s.version,
		WallHex:  s.config.WallHex(),
		Theme:    s.config.ResolvedTheme(),
		Dragging: dragging,
	}
}
