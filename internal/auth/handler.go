package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/campusmart/campusmart/components"
	"github.com/campusmart/campusmart/internal/apperror"
	"github.com/campusmart/campusmart/internal/crypto"
	"github.com/campusmart/campusmart/internal/store"
)

// maxFormMemory bounds multipart form parts held in memory.
const maxFormMemory = 32 << 10

type Handler struct {
	renderer *components.Renderer
	signer   *crypto.HMACHasher
	secure   bool
}

func NewHandler(renderer *components.Renderer, signer *crypto.HMACHasher, secure bool) *Handler {
	return &Handler{
		renderer: renderer,
		signer:   signer,
		secure:   secure,
	}
}

func (h *Handler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "login.html", loginContext(r))
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.renderer.Error(w, r, apperror.Validation("", "Malformed form submission"))
		return
	}

	ve := &apperror.ValidationErrors{}
	if !r.PostForm.Has("username") {
		ve.Add("username", "Username is required")
	}
	if !r.PostForm.Has("password") {
		ve.Add("password", "Password is required")
	}
	if ve.HasErrors() {
		h.renderer.Error(w, r, ve.ToError())
		return
	}

	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")
	data := loginContext(r)

	q, ok := store.FromContext(r.Context())
	if !ok {
		h.renderer.Error(w, r, apperror.Unavailable("Database unavailable", nil))
		return
	}

	session, appErr := Login(r.Context(), q, username, password)
	if appErr != nil {
		if appErr.Type != apperror.TypeUnauthorized {
			h.renderer.Error(w, r, appErr)
			return
		}
		slog.Info("login failed", "username", username)
		data["msg"] = appErr.Message
		data["msg_level"] = "error"
		data["username"] = username
		h.renderer.Render(w, r, http.StatusOK, "login.html", data)
		return
	}

	if err := SetSessionCookie(w, *session, h.signer, h.secure); err != nil {
		h.renderer.Error(w, r, apperror.Internal("Failed to start session", err))
		return
	}
	slog.Info("login succeeded", "username", session.Username, "user_id", session.ID)

	// render the page as the new session so the header reflects the login
	r = r.WithContext(WithSession(r.Context(), session))
	data["msg"] = msgLoginSuccess
	data["msg_level"] = "success"
	h.renderer.Render(w, r, http.StatusOK, "login.html", data)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if s := GetSession(r.Context()); s != nil && s.LoggedIn {
		slog.Info("logout", "username", s.Username, "user_id", s.ID)
	}

	ClearSessionCookie(w, h.secure)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func loginContext(r *http.Request) components.Context {
	if IsLoggedIn(r.Context()) {
		return components.Context{"msg": msgLoggedIn, "msg_level": "info"}
	}
	return components.Context{"msg": msgAnonymous, "msg_level": "info"}
}
