package pages

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/campusmart/campusmart/components"
	"github.com/campusmart/campusmart/internal/apperror"
	"github.com/campusmart/campusmart/internal/auth"
	"github.com/campusmart/campusmart/internal/store"
)

// StaticPages are served without touching the database.
var StaticPages = map[string]string{
	"/post":     "post.html",
	"/sell":     "sell.html",
	"/cart":     "cart.html",
	"/register": "register.html",
}

type Handler struct {
	renderer *components.Renderer
}

func NewHandler(renderer *components.Renderer) *Handler {
	return &Handler{renderer: renderer}
}

// HandleIndex loads the names from the test table. index.html does not
// display them yet; the query still runs so a broken database shows up here.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	q, ok := store.FromContext(r.Context())
	if !ok {
		h.renderer.Error(w, r, apperror.Unavailable("Database unavailable", nil))
		return
	}

	names, err := q.ListTestNames(r.Context())
	if err != nil {
		h.renderer.Error(w, r, apperror.Internal("Failed to load names", err))
		return
	}
	slog.Debug("loaded test names", "count", len(names))

	h.renderer.Render(w, r, http.StatusOK, "index.html", nil)
}

// Static renders a template with an empty context.
func (h *Handler) Static(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.renderer.Render(w, r, http.StatusOK, name, nil)
	}
}

// HandleProfile shows the users row for the logged-in account. A login whose
// profile row is gone still renders, with no account.
func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	session := auth.GetSession(r.Context())
	if session == nil || !session.LoggedIn {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	q, ok := store.FromContext(r.Context())
	if !ok {
		h.renderer.Error(w, r, apperror.Unavailable("Database unavailable", nil))
		return
	}

	profile, err := q.GetProfile(r.Context(), session.ID)
	if errors.Is(err, sql.ErrNoRows) {
		slog.Warn("no profile row for session", "user_id", session.ID, "username", session.Username)
		h.renderer.Render(w, r, http.StatusOK, "profile.html", nil)
		return
	}
	if err != nil {
		h.renderer.Error(w, r, apperror.FromQuery("profile", err))
		return
	}

	h.renderer.Render(w, r, http.StatusOK, "profile.html", components.Context{"account": profile})
}
