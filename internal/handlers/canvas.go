package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"posterplanner/internal/viewmodel"
	"posterplanner/internal/wizard"
	"posterplanner/pkg/placement"
	"posterplanner/views/components"
	"posterplanner/views/pages"
)

const maxRayBytes = 4 << 10

type CanvasHandler struct {
	store    *wizard.Store
	renderer boardRenderer
	baseURL  string
}

// NewCanvasHandler serves the interactive board. baseURL prefixes share
// links; empty means the request host.
func NewCanvasHandler(store *wizard.Store, baseURL string) *CanvasHandler {
	return &CanvasHandler{
		store:    store,
		renderer: newBoardRenderer(store.Options()),
		baseURL:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
	}
}

func (h *CanvasHandler) RegisterRoutes(r chi.Router) {
	r.Get("/s/{id}/canvas", h.canvasPage)
	r.Get("/s/{id}/board", h.boardFragment)
	r.Post("/s/{id}/reset", h.reset)
	r.Post("/s/{id}/down", h.pointerDown)
	r.Post("/s/{id}/hit", h.pointerHit)
	r.Post("/s/{id}/move", h.pointerMove)
	r.Post("/s/{id}/up", h.pointerUp)
	r.Get("/s/{id}/distances/{posterID}", h.distances)
}

// RegisterStream mounts the SSE endpoint. It is kept apart from the other
// routes so request timeouts do not cut the stream.
func (h *CanvasHandler) RegisterStream(r chi.Router) {
	r.Get("/s/{id}/stream", h.stream)
}

func (h *CanvasHandler) canvasPage(w http.ResponseWriter, r *http.Request) {
	sess, ok := lookupSession(h.store, w, r)
	if !ok {
		return
	}
	if sess.EnsureLayout() {
		h.store.Publish(sess.ID, wizard.EventBoard)
	}
	snapshot := sess.Snapshot()
	cfg := snapshot.Config
	render(w, r, pages.CanvasPage(viewmodel.CanvasPage{
		Title:     pageTitle,
		SessionID: sess.ID,
		WallType:  cfg.WallType,
		Count:     snapshot.Layout.Len(),
		Size:      cfg.Size,
		ThemeName: snapshot.Theme.Name,
		ShareURL:  h.shareURL(r, sess.ID),
		Board:     h.renderer.board(snapshot),
	}))
}

func (h *CanvasHandler) boardFragment(w http.ResponseWriter, r *http.Request) {
	sess, ok := lookupSession(h.store, w, r)
	if !ok {
		return
	}
	render(w, r, components.Board(h.renderer.board(sess.Snapshot())))
}

func (h *CanvasHandler) reset(w http.ResponseWriter, r *http.Request) {
	sess, ok := lookupSession(h.store, w, r)
	if !ok {
		return
	}
	sess.ResetLayout()
	h.store.Publish(sess.ID, wizard.EventBoard)
	if r.Header.Get("Hx-Request") == "true" {
		h.respondBoard(w, r, sess, true)
		return
	}
	http.Redirect(w, r, sessionURL(sess.ID, "canvas"), http.StatusSeeOther)
}

// pointerDown grabs a poster by id, or by hit testing x,y on the board.
func (h *CanvasHandler) pointerDown(w http.ResponseWriter, r *http.Request) {
	sess, ok := lookupSession(h.store, w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	now := time.Now().UTC()
	if id := strings.TrimSpace(r.FormValue("id")); id != "" {
		changed := sess.PointerDown(id, now)
		h.afterPointer(w, r, sess, changed)
		return
	}
	x, okX := parseFloat(r.FormValue("x"))
	y, okY := parseFloat(r.FormValue("y"))
	if !okX || !okY {
		http.Error(w, "id or x,y required", http.StatusBadRequest)
		return
	}
	l := sess.Layout()
	grab := sess.PointerDownAt(h.renderer.hitTester(l), h.renderer.pointerRay(l, x, y), now)
	h.afterPointer(w, r, sess, grab.Changed)
}

// pointerHit grabs the poster a world-space pick ray hits.
func (h *CanvasHandler) pointerHit(w http.ResponseWriter, r *http.Request) {
	sess, ok := lookupSession(h.store, w, r)
	if !ok {
		return
	}
	var ray placement.Ray
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRayBytes))
	if err := dec.Decode(&ray); err != nil {
		http.Error(w, "invalid ray", http.StatusBadRequest)
		return
	}
	grab := sess.PointerDownAt(h.renderer.hitTester(sess.Layout()), ray, time.Now().UTC())
	if grab.Changed {
		h.store.Publish(sess.ID, wizard.EventBoard)
		h.store.Wake(sess.ID)
	}
	writeJSON(w, map[string]any{
		"hit": grab.Hit(),
		"id":  grab.ID,
	})
}

// pointerMove reads x,y as the pointer position on a flat board and dx,dy
// as the pointer movement on a corner board.
func (h *CanvasHandler) pointerMove(w http.ResponseWriter, r *http.Request) {
	sess, ok := lookupSession(h.store, w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	xKey, yKey := "x", "y"
	if sess.Layout().Space().Kind() == placement.KindCorner {
		xKey, yKey = "dx", "dy"
	}
	x, okX := parseFloat(r.FormValue(xKey))
	y, okY := parseFloat(r.FormValue(yKey))
	if !okX || !okY {
		http.Error(w, xKey+","+yKey+" required", http.StatusBadRequest)
		return
	}
	changed := sess.PointerMove(placement.Move{X: x, Y: y}, time.Now().UTC())
	h.afterPointer(w, r, sess, changed)
}

// pointerUp ends a drag. The board also sends it on pointer-leave.
func (h *CanvasHandler) pointerUp(w http.ResponseWriter, r *http.Request) {
	sess, ok := lookupSession(h.store, w, r)
	if !ok {
		return
	}
	changed := sess.PointerUp(time.Now().UTC())
	h.afterPointer(w, r, sess, changed)
}

func (h *CanvasHandler) distances(w http.ResponseWriter, r *http.Request) {
	sess, ok := lookupSession(h.store, w, r)
	if !ok {
		return
	}
	d, ok := sess.Distances(chi.URLParam(r, "posterID"))
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, d)
}

func (h *CanvasHandler) afterPointer(w http.ResponseWriter, r *http.Request, sess *wizard.Session, changed bool) {
	if changed {
		h.store.Publish(sess.ID, wizard.EventBoard)
		h.store.Wake(sess.ID)
	}
	h.respondBoard(w, r, sess, changed)
}

// respondBoard answers pointer requests with the new board, or 204 when
// nothing changed.
func (h *CanvasHandler) respondBoard(w http.ResponseWriter, r *http.Request, sess *wizard.Session, changed bool) {
	if !changed {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	render(w, r, components.Board(h.renderer.board(sess.Snapshot())))
}

func (h *CanvasHandler) stream(w http.ResponseWriter, r *http.Request) {
	sess, ok := lookupSession(h.store, w, r)
	if !ok {
		return
	}
	hub, ok := h.store.Broadcaster(sess.ID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	sendBoard := func() {
		html, err := renderToString(r, components.Board(h.renderer.board(sess.Snapshot())))
		if err != nil {
			handlerLog().Error().Err(err).Str("session", sess.ID).Msg("render board")
			return
		}
		writeSSE(w, wizard.EventBoard, html)
		flusher.Flush()
	}

	sendBoard()

	keepAlive := time.NewTicker(25 * time.Second)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, open := <-sub:
			if !open || event == wizard.EventClosed {
				writeSSE(w, wizard.EventClosed, "session expired")
				flusher.Flush()
				return
			}
			switch event {
			case wizard.EventBoard, wizard.EventConfig:
				sendBoard()
			}
		case <-keepAlive.C:
			_, _ = w.Write([]byte(": keepalive\n\n"))
			flusher.Flush()
		}
	}
}

func (h *CanvasHandler) shareURL(r *http.Request, id string) string {
	path := sessionURL(id, "canvas")
	if h.baseURL != "" {
		return h.baseURL + path
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + path
}
