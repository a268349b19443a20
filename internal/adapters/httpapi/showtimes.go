package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pgit34/mon-cine-montpellier/internal/app"
	"github.com/pgit34/mon-cine-montpellier/internal/domain"
	"github.com/pgit34/mon-cine-montpellier/internal/httpjson"
)

type ShowtimesHandler struct {
	showtimes *app.ShowtimeService
}

func NewShowtimesHandler(showtimes *app.ShowtimeService) *ShowtimesHandler {
	return &ShowtimesHandler{showtimes: showtimes}
}

func (h *ShowtimesHandler) Routes(r chi.Router) {
	r.Get("/showtimes", h.get)
	r.Get("/sources", h.sources)
	r.Get("/runs", h.runs)
	// Déclencheur opérateur : seule mutation possible du cache.
	r.Post("/refresh", h.refresh)
}

// get sert la projection filtrée du jeu en cache.
//
// Paramètres : day (exact, YYYY-MM-DD), cinema (répétable, exact),
// film (sous-chaîne insensible à la casse).
func (h *ShowtimesHandler) get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := domain.Filter{
		Day:      domain.Day(q.Get("day")),
		Film:     q.Get("film"),
		Theaters: q["cinema"],
	}

	dto := h.showtimes.Get(r.Context(), f)
	httpjson.Write(w, http.StatusOK, dto)
}

func (h *ShowtimesHandler) sources(w http.ResponseWriter, r *http.Request) {
	httpjson.Write(w, http.StatusOK, h.showtimes.Sources())
}

func (h *ShowtimesHandler) runs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := h.showtimes.Runs(r.Context(), limit)
	if err != nil {
		httpjson.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpjson.Write(w, http.StatusOK, runs)
}

func (h *ShowtimesHandler) refresh(w http.ResponseWriter, r *http.Request) {
	dto := h.showtimes.Refresh(r.Context())
	httpjson.Write(w, http.StatusOK, dto)
}
