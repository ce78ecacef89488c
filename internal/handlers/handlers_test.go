package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"posterplanner/internal/wizard"
	"posterplanner/pkg/placement"
)

func newTestRouter(t *testing.T) (http.Handler, *wizard.Store) {
	t.Helper()
	store := wizard.NewStore(wizard.Options{})
	r := chi.NewRouter()
	r.Use(AccessLog)
	canvas := NewCanvasHandler(store, "https://walls.example")
	canvas.RegisterStream(r)
	NewHomeHandler(store).RegisterRoutes(r)
	NewWizardHandler(store).RegisterRoutes(r)
	canvas.RegisterRoutes(r)
	return r, store
}

func do(h http.Handler, method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func newSession(t *testing.T, store *wizard.Store) *wizard.Session {
	t.Helper()
	sess := store.CreateSession()
	t.Cleanup(func() { store.Delete(sess.ID) })
	return sess
}

// importLayout sends a stored configuration and returns the session.
func importLayout(t *testing.T, h http.Handler, store *wizard.Store, wallType, raw string) *wizard.Session {
	t.Helper()
	sess := newSession(t, store)
	req := httptest.NewRequest(http.MethodPost, "/s/"+sess.ID+"/config?wallType="+wallType, strings.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("import status %d, want 303", rec.Code)
	}
	return sess
}

func distancesOf(t *testing.T, h http.Handler, id, poster string) placement.Distances {
	t.Helper()
	rec := do(h, http.MethodGet, "/s/"+id+"/distances/"+poster, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("distances status %d, want 200", rec.Code)
	}
	var d placement.Distances
	if err := json.NewDecoder(rec.Body).Decode(&d); err != nil {
		t.Fatalf("decode distances: %v", err)
	}
	return d
}

func TestHome(t *testing.T) {
	h, _ := newTestRouter(t)
	rec := do(h, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `action="/sessions"`) {
		t.Error("home page should post to /sessions")
	}
}

func TestCreateSession(t *testing.T) {
	h, store := newTestRouter(t)
	rec := do(h, http.MethodPost, "/sessions", url.Values{})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status %d, want 303", rec.Code)
	}
	loc := rec.Header().Get("Location")
	id := strings.TrimSuffix(strings.TrimPrefix(loc, "/s/"), "/wall-type")
	if _, ok := store.GetSession(id); !ok {
		t.Fatalf("Location %q does not name a live session", loc)
	}
	store.Delete(id)
}

func TestWizardFlow(t *testing.T) {
	h, store := newTestRouter(t)
	sess := newSession(t, store)
	base := "/s/" + sess.ID

	if rec := do(h, http.MethodGet, base+"/posters", nil); rec.Code != http.StatusSeeOther {
		t.Errorf("posters before wall type: status %d, want 303", rec.Code)
	}

	rec := do(h, http.MethodPost, base+"/wall-type", url.Values{"wallType": {"round"}})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad wall type status %d, want 400", rec.Code)
	}
	rec = do(h, http.MethodPost, base+"/wall-type", url.Values{"wallType": {"flat"}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != base+"/posters" {
		t.Fatalf("wall type: status %d location %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = do(h, http.MethodGet, base+"/posters", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `name="count"`) {
		t.Fatalf("posters page status %d", rec.Code)
	}
	rec = do(h, http.MethodPost, base+"/posters", url.Values{"count": {"16"}, "size": {"30x40"}, "wallColor": {"white"}})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("16 posters status %d, want 400", rec.Code)
	}
	rec = do(h, http.MethodPost, base+"/posters", url.Values{"count": {"3"}, "size": {"30x40"}, "wallColor": {"beige"}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != base+"/colors" {
		t.Fatalf("posters: status %d location %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = do(h, http.MethodGet, base+"/colors", nil)
	if !strings.Contains(rec.Body.String(), `fill="#F5F5DC"`) {
		t.Error("colors page should preview the beige wall")
	}
	rec = do(h, http.MethodPost, base+"/colors", url.Values{"theme": {"modern"}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != base+"/review" {
		t.Fatalf("colors: status %d location %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = do(h, http.MethodGet, base+"/review", nil)
	body := rec.Body.String()
	for _, want := range []string{"Modern Black", "3 posters, 30x40 cm", `href="canvas"`, "&#34;count&#34;:&#34;3&#34;"} {
		if !strings.Contains(body, want) {
			t.Errorf("review page missing %q", want)
		}
	}

	rec = do(h, http.MethodGet, base+"/canvas", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("canvas status %d", rec.Code)
	}
	if got := strings.Count(rec.Body.String(), "data-poster-id="); got != 3 {
		t.Errorf("canvas shows %d posters, want 3", got)
	}
	if !strings.Contains(rec.Body.String(), "https://walls.example"+base+"/canvas") {
		t.Error("canvas should link the share URL")
	}
}

func TestUnknownSession(t *testing.T) {
	h, _ := newTestRouter(t)
	for _, c := range []struct{ method, path string }{
		{http.MethodGet, "/s/nope/wall-type"},
		{http.MethodGet, "/s/nope/canvas"},
		{http.MethodGet, "/s/nope/board"},
		{http.MethodPost, "/s/nope/down"},
		{http.MethodPost, "/s/nope/up"},
		{http.MethodGet, "/s/nope/distances/poster-0"},
		{http.MethodGet, "/s/nope/stream"},
	} {
		rec := do(h, c.method, c.path, url.Values{})
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s %s status %d, want 404", c.method, c.path, rec.Code)
		}
	}
}

func TestImportConfig(t *testing.T) {
	h, store := newTestRouter(t)
	sess := importLayout(t, h, store, "flat", `{"count":"3","size":"40x50","wallColor":"white","theme":"classic"}`)
	if n := sess.Layout().Len(); n != 3 {
		t.Fatalf("layout has %d posters, want 3", n)
	}
	d := distancesOf(t, h, sess.ID, "poster-0")
	want := placement.Distances{Left: 50, Right: 310, Top: 50, Bottom: 200}
	if d != want {
		t.Errorf("distances %+v, want %+v", d, want)
	}

	broken := importLayout(t, h, store, "flat", `{"count":`)
	if n := broken.Layout().Len(); n != 0 {
		t.Errorf("malformed config gave %d posters, want 0", n)
	}
	if rec := do(h, http.MethodGet, "/s/"+broken.ID+"/canvas", nil); rec.Code != http.StatusOK {
		t.Errorf("canvas for malformed config status %d, want 200", rec.Code)
	}

	for _, raw := range []string{
		`{"count":"500","size":"20x30"}`,
		`{"count":4611686018427387904,"size":"20x30"}`,
		`{"count":"3","size":"13x17"}`,
	} {
		out := importLayout(t, h, store, "corner", raw)
		if n := out.Layout().Len(); n != 0 {
			t.Errorf("config %s gave %d posters, want 0", raw, n)
		}
		if rec := do(h, http.MethodGet, "/s/"+out.ID+"/canvas", nil); rec.Code != http.StatusOK {
			t.Errorf("canvas for config %s status %d, want 200", raw, rec.Code)
		}
	}

	rec := do(h, http.MethodPost, "/s/"+sess.ID+"/config", url.Values{"other": {"x"}})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("form without config status %d, want 400", rec.Code)
	}
}

func TestFlatDrag(t *testing.T) {
	h, store := newTestRouter(t)
	sess := importLayout(t, h, store, "flat", `{"count":"3","size":"40x50"}`)
	base := "/s/" + sess.ID

	rec := do(h, http.MethodPost, base+"/down", url.Values{"id": {"poster-9"}})
	if rec.Code != http.StatusNoContent {
		t.Errorf("unknown poster status %d, want 204", rec.Code)
	}
	rec = do(h, http.MethodPost, base+"/down", url.Values{"id": {"poster-0"}})
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `data-dragging="poster-0"`) {
		t.Fatalf("down status %d", rec.Code)
	}
	if got := strings.Count(rec.Body.String(), `class="distance-label"`); got != 4 {
		t.Errorf("board shows %d labels, want 4", got)
	}

	if rec := do(h, http.MethodPost, base+"/move", url.Values{"dx": {"5"}}); rec.Code != http.StatusBadRequest {
		t.Errorf("move without x,y status %d, want 400", rec.Code)
	}
	rec = do(h, http.MethodPost, base+"/move", url.Values{"x": {"900"}, "y": {"900"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("move status %d, want 200", rec.Code)
	}
	if d := distancesOf(t, h, sess.ID, "poster-0"); d.Right != 0 || d.Bottom != 0 {
		t.Errorf("distances %+v, want right and bottom 0", d)
	}
	rec = do(h, http.MethodPost, base+"/move", url.Values{"x": {"900"}, "y": {"900"}})
	if rec.Code != http.StatusNoContent {
		t.Errorf("clamped move status %d, want 204", rec.Code)
	}

	if rec := do(h, http.MethodPost, base+"/up", url.Values{}); rec.Code != http.StatusOK {
		t.Errorf("up status %d, want 200", rec.Code)
	}
	if rec := do(h, http.MethodPost, base+"/up", url.Values{}); rec.Code != http.StatusNoContent {
		t.Errorf("second up status %d, want 204", rec.Code)
	}
	if rec := do(h, http.MethodPost, base+"/move", url.Values{"x": {"10"}, "y": {"10"}}); rec.Code != http.StatusNoContent {
		t.Errorf("move after up status %d, want 204", rec.Code)
	}

	rec = do(h, http.MethodPost, base+"/down", url.Values{"x": {"240"}, "y": {"150"}})
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `data-dragging="poster-1"`) {
		t.Errorf("down at x,y status %d, want poster-1 grabbed", rec.Code)
	}
	rec = do(h, http.MethodPost, base+"/down", url.Values{"x": {"5"}, "y": {"5"}})
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `data-dragging=""`) {
		t.Errorf("down on bare wall status %d, want the grab released", rec.Code)
	}
	if rec := do(h, http.MethodPost, base+"/down", url.Values{"x": {"5"}, "y": {"5"}}); rec.Code != http.StatusNoContent {
		t.Errorf("second down on bare wall status %d, want 204", rec.Code)
	}
	if rec := do(h, http.MethodPost, base+"/down", url.Values{"x": {"oops"}}); rec.Code != http.StatusBadRequest {
		t.Errorf("down without id or x,y status %d, want 400", rec.Code)
	}

	rec = do(h, http.MethodPost, base+"/reset", url.Values{})
	if rec.Code != http.StatusSeeOther {
		t.Errorf("reset status %d, want 303", rec.Code)
	}
	p, _ := sess.Layout().Poster("poster-0")
	if p.X != 100 || p.Y != 100 || p.Dragging {
		t.Errorf("poster-0 after reset %+v, want back at (100,100)", p)
	}

	if rec := do(h, http.MethodGet, base+"/distances/poster-7", nil); rec.Code != http.StatusNoContent {
		t.Errorf("unknown poster distances status %d, want 204", rec.Code)
	}
}

func TestCornerDrag(t *testing.T) {
	h, store := newTestRouter(t)
	sess := importLayout(t, h, store, "corner", `{"count":2,"size":"40x50","wallColor":"darkgray"}`)
	base := "/s/" + sess.ID

	rec := do(h, http.MethodGet, base+"/canvas", nil)
	if !strings.Contains(rec.Body.String(), `<svg class="board board-corner"`) {
		t.Fatal("corner canvas should render an svg board")
	}
	if got := strings.Count(rec.Body.String(), "<polygon"); got != 4 {
		t.Errorf("corner board has %d polygons, want 2 walls and 2 posters", got)
	}

	req := httptest.NewRequest(http.MethodPost, base+"/hit", strings.NewReader(`{"origin":[1,1,10],"direction":[0,0,-1]}`))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var hit struct {
		Hit bool   `json:"hit"`
		ID  string `json:"id"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&hit); err != nil {
		t.Fatalf("decode hit: %v", err)
	}
	if !hit.Hit || hit.ID != "poster-0" {
		t.Fatalf("hit %+v, want poster-0", hit)
	}
	version := sess.Snapshot().Version
	req = httptest.NewRequest(http.MethodPost, base+"/hit", strings.NewReader(`{"origin":[1,1,10],"direction":[0,0,-1]}`))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := sess.Snapshot().Version; got != version+1 {
		t.Errorf("regrab version %d, want %d", got, version+1)
	}

	rec = do(h, http.MethodPost, base+"/move", url.Values{"dx": {"10"}, "dy": {"5"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("move status %d, want 200", rec.Code)
	}
	p, _ := sess.Layout().Poster("poster-0")
	if p.X != 120 || p.Y != 90 {
		t.Errorf("poster-0 at (%v,%v), want (120,90)", p.X, p.Y)
	}
	if d := distancesOf(t, h, sess.ID, "poster-0"); d.Left != 42 || d.Top != 11 {
		t.Errorf("distances %+v, want left 42 top 11", d)
	}

	req = httptest.NewRequest(http.MethodPost, base+"/hit", strings.NewReader(`{"origin":`))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad ray status %d, want 400", rec.Code)
	}
}

func TestStream(t *testing.T) {
	h, store := newTestRouter(t)
	sess := importLayout(t, h, store, "flat", `{"count":"2","size":"20x30"}`)
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/s/"+sess.ID+"/stream", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type %q", ct)
	}

	lines := bufio.NewScanner(resp.Body)
	nextEvent := func() string {
		for lines.Scan() {
			if name, ok := strings.CutPrefix(lines.Text(), "event: "); ok {
				return name
			}
		}
		return ""
	}
	if got := nextEvent(); got != wizard.EventBoard {
		t.Fatalf("first event %q, want board", got)
	}

	do(h, http.MethodPost, "/s/"+sess.ID+"/down", url.Values{"id": {"poster-1"}})
	if got := nextEvent(); got != wizard.EventBoard {
		t.Fatalf("event after down %q, want board", got)
	}

	store.Delete(sess.ID)
	if got := nextEvent(); got != wizard.EventClosed {
		t.Fatalf("event after delete %q, want closed", got)
	}
}
