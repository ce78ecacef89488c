package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"posterplanner/internal/viewmodel"
	"posterplanner/internal/wizard"
	"posterplanner/views/pages"
)

const (
	pageTitle      = "Poster Layout Planner"
	maxConfigBytes = 64 << 10
)

var stepLabels = []string{"Wall Type", "Posters", "Colors", "Review"}

type WizardHandler struct {
	store *wizard.Store
}

func NewWizardHandler(store *wizard.Store) *WizardHandler {
	return &WizardHandler{store: store}
}

func (h *WizardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/s/{id}/wall-type", h.wallTypePage)
	r.Post("/s/{id}/wall-type", h.submitWallType)
	r.Get("/s/{id}/posters", h.postersPage)
	r.Post("/s/{id}/posters", h.submitPosters)
	r.Get("/s/{id}/colors", h.colorsPage)
	r.Post("/s/{id}/colors", h.submitColors)
	r.Get("/s/{id}/review", h.reviewPage)
	r.Post("/s/{id}/config", h.importConfig)
}

func (h *WizardHandler) wallTypePage(w http.ResponseWriter, r *http.Request) {
	sess, ok := lookupSession(h.store, w, r)
	if !ok {
		return
	}
	render(w, r, pages.WallTypePage(buildWallTypePage(sess, "")))
}

func (h *WizardHandler) submitWallType(w http.ResponseWriter, r *http.Request) {
	sess, ok := lookupSession(h.store, w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if err := sess.SetWallType(r.FormValue("wallType")); err != nil {
		renderStatus(w, r, http.StatusBadRequest, pages.WallTypePage(buildWallTypePage(sess, "Please choose a wall type.")))
		return
	}
	h.store.Publish(sess.ID, wizard.EventConfig)
	http.Redirect(w, r, sessionURL(sess.ID, "posters"), http.StatusSeeOther)
}

func (h *WizardHandler) postersPage(w http.ResponseWriter, r *http.Request) {
	sess, ok := lookupSession(h.store, w, r)
	if !ok {
		return
	}
	if sess.Step() < wizard.StepWallType {
		http.Redirect(w, r, sessionURL(sess.ID, "wall-type"), http.StatusSeeOther)
		return
	}
	render(w, r, pages.PostersPage(buildPostersPage(sess, "")))
}

func (h *WizardHandler) submitPosters(w http.ResponseWriter, r *http.Request) {
	sess, ok := lookupSession(h.store, w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	count := parseInt(r.FormValue("count"), 0)
	err := sess.SetPosters(count, strings.TrimSpace(r.FormValue("size")), strings.TrimSpace(r.FormValue("wallColor")))
	if err != nil {
		renderStatus(w, r, http.StatusBadRequest, pages.PostersPage(buildPostersPage(sess, "Choose 1 to 15 posters, a size and a wall color.")))
		return
	}
	h.store.Publish(sess.ID, wizard.EventConfig)
	http.Redirect(w, r, sessionURL(sess.ID, "colors"), http.StatusSeeOther)
}

func (h *WizardHandler) colorsPage(w http.ResponseWriter, r *http.Request) {
	sess, ok := lookupSession(h.store, w, r)
	if !ok {
		return
	}
	if sess.Step() < wizard.StepPosters {
		http.Redirect(w, r, sessionURL(sess.ID, "posters"), http.StatusSeeOther)
		return
	}
	render(w, r, pages.ColorsPage(buildColorsPage(sess, "")))
}

func (h *WizardHandler) submitColors(w http.ResponseWriter, r *http.Request) {
	sess, ok := lookupSession(h.store, w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if err := sess.SetTheme(r.FormValue("theme")); err != nil {
		renderStatus(w, r, http.StatusBadRequest, pages.ColorsPage(buildColorsPage(sess, "Please choose a color theme.")))
		return
	}
	// The theme repaints an open board without moving posters.
	h.store.Publish(sess.ID, wizard.EventConfig)
	http.Redirect(w, r, sessionURL(sess.ID, "review"), http.StatusSeeOther)
}

func (h *WizardHandler) reviewPage(w http.ResponseWriter, r *http.Request) {
	sess, ok := lookupSession(h.store, w, r)
	if !ok {
		return
	}
	if sess.Step() < wizard.StepColors {
		http.Redirect(w, r, sessionURL(sess.ID, "colors"), http.StatusSeeOther)
		return
	}
	cfg := sess.Config()
	stored, err := cfg.Stored()
	if err != nil {
		handlerLog().Error().Err(err).Str("session", sess.ID).Msg("encode stored config")
	}
	color, _ := wizard.LookupWallColor(cfg.WallColor)
	render(w, r, pages.ReviewPage(viewmodel.ReviewPage{
		Wizard:     buildWizard(sess, len(stepLabels), ""),
		WallType:   cfg.WallType,
		Count:      cfg.Count,
		Size:       cfg.Size,
		WallColor:  color.Label,
		WallHex:    cfg.WallHex(),
		Theme:      cfg.ResolvedTheme().Name,
		ConfigJSON: string(stored),
	}))
}

// importConfig replaces the answers with a stored configuration blob and
// lays out a fresh board. Unreadable blobs give an empty board.
func (h *WizardHandler) importConfig(w http.ResponseWriter, r *http.Request) {
	sess, ok := lookupSession(h.store, w, r)
	if !ok {
		return
	}
	raw, err := readConfigBody(w, r)
	if err != nil {
		http.Error(w, "invalid config", http.StatusBadRequest)
		return
	}
	cfg := wizard.ParseConfig(r.URL.Query().Get("wallType"), raw)
	sess.InitializeLayout(cfg)
	handlerLog().Debug().Str("session", sess.ID).Int("count", cfg.Count).Msg("config imported")
	h.store.Publish(sess.ID, wizard.EventConfig)
	http.Redirect(w, r, sessionURL(sess.ID, "canvas"), http.StatusSeeOther)
}

func readConfigBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxConfigBytes)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		return io.ReadAll(r.Body)
	}
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	if !r.PostForm.Has("config") {
		return nil, errors.New("config field missing")
	}
	return []byte(r.PostForm.Get("config")), nil
}

func buildWizard(sess *wizard.Session, current int, errMsg string) viewmodel.Wizard {
	steps := make([]viewmodel.Step, 0, len(stepLabels))
	for i, label := range stepLabels {
		n := i + 1
		steps = append(steps, viewmodel.Step{
			Number:    n,
			Label:     label,
			Completed: n < current,
			Current:   n == current,
		})
	}
	return viewmodel.Wizard{
		Title:     pageTitle,
		SessionID: sess.ID,
		Steps:     steps,
		Error:     errMsg,
	}
}

func buildWallTypePage(sess *wizard.Session, errMsg string) viewmodel.WallTypePage {
	cfg := sess.Config()
	options := make([]viewmodel.Option, 0, len(wizard.WallTypes))
	for _, opt := range wizard.WallTypes {
		options = append(options, viewmodel.Option{
			Value:       opt.Type,
			Label:       opt.Title,
			Description: opt.Description,
			Selected:    opt.Type == cfg.WallType,
		})
	}
	return viewmodel.WallTypePage{
		Wizard:  buildWizard(sess, wizard.StepWallType, errMsg),
		Options: options,
	}
}

func buildPostersPage(sess *wizard.Session, errMsg string) viewmodel.PostersPage {
	cfg := sess.Config()
	sizes := make([]viewmodel.Option, 0, len(wizard.Sizes))
	for _, opt := range wizard.Sizes {
		sizes = append(sizes, viewmodel.Option{Value: opt.Value, Label: opt.Label, Selected: opt.Value == cfg.Size})
	}
	colors := make([]viewmodel.Option, 0, len(wizard.WallColors))
	for _, opt := range wizard.WallColors {
		colors = append(colors, viewmodel.Option{
			Value:    opt.Value,
			Label:    opt.Label,
			Hex:      opt.Hex,
			Selected: opt.Value == cfg.WallColor,
		})
	}
	return viewmodel.PostersPage{
		Wizard:   buildWizard(sess, wizard.StepPosters, errMsg),
		Count:    cfg.Count,
		MinCount: wizard.MinPosters,
		MaxCount: wizard.MaxPosters,
		Sizes:    sizes,
		Colors:   colors,
	}
}

func buildColorsPage(sess *wizard.Session, errMsg string) viewmodel.ColorsPage {
	cfg := sess.Config()
	themes := make([]viewmodel.ThemeOption, 0, len(wizard.Themes))
	for _, theme := range wizard.Themes {
		themes = append(themes, viewmodel.ThemeOption{
			Value:       theme.ID,
			Name:        theme.Name,
			Description: theme.Description,
			PosterColor: theme.PosterColor,
			FrameColor:  theme.FrameColor,
			Selected:    theme.ID == cfg.Theme,
		})
	}
	return viewmodel.ColorsPage{
		Wizard:  buildWizard(sess, wizard.StepColors, errMsg),
		WallHex: cfg.WallHex(),
		Themes:  themes,
	}
}
