package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"posterplanner/internal/wizard"
	"posterplanner/views/pages"
)

type HomeHandler struct {
	store *wizard.Store
}

func NewHomeHandler(store *wizard.Store) *HomeHandler {
	return &HomeHandler{store: store}
}

func (h *HomeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.home)
	r.Post("/sessions", h.createSession)
}

func (h *HomeHandler) home(w http.ResponseWriter, r *http.Request) {
	render(w, r, pages.HomePage())
}

func (h *HomeHandler) createSession(w http.ResponseWriter, r *http.Request) {
	sess := h.store.CreateSession()
	http.Redirect(w, r, sessionURL(sess.ID, "wall-type"), http.StatusSeeOther)
}

func sessionURL(id, page string) string {
	return "/s/" + id + "/" + page
}

// lookupSession resolves {id} or answers 404.
func lookupSession(store *wizard.Store, w http.ResponseWriter, r *http.Request) (*wizard.Session, bool) {
	sess, err := store.Lookup(chi.URLParam(r, "id"))
	if errors.Is(err, wizard.ErrSessionNotFound) {
		http.NotFound(w, r)
		return nil, false
	}
	if err != nil {
		handlerLog().Error().Err(err).Msg("session lookup")
		http.Error(w, "session lookup failed", http.StatusInternalServerError)
		return nil, false
	}
	return sess, true
}
