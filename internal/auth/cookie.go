package auth

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/campusmart/campusmart/internal/crypto"
)

// SessionCookieName carries the signed session. The cookie has no Max-Age,
// so it lives until logout or until the browser discards it.
const SessionCookieName = "campusmart_session"

// Session is the whole of the server-side login state.
type Session struct {
	LoggedIn bool   `json:"loggedin,omitempty"`
	ID       string `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
}

func encodeSession(s Session, signer *crypto.HMACHasher) (string, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encoding session: %w", err)
	}
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	payload := base64.RawURLEncoding.EncodeToString(raw) + "|" + timestamp
	return payload + "|" + signer.Hash(payload), nil
}

func DecodeSession(cookieValue string, signer *crypto.HMACHasher) (Session, error) {
	parts := strings.SplitN(cookieValue, "|", 3)
	if len(parts) != 3 {
		return Session{}, fmt.Errorf("malformed session cookie")
	}
	data, timestamp, signature := parts[0], parts[1], parts[2]

	if !signer.Verify(data+"|"+timestamp, signature) {
		return Session{}, fmt.Errorf("invalid session cookie signature")
	}

	raw, err := base64.RawURLEncoding.DecodeString(data)
	if err != nil {
		return Session{}, fmt.Errorf("decoding session cookie: %w", err)
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return Session{}, fmt.Errorf("decoding session cookie: %w", err)
	}
	return s, nil
}

func SetSessionCookie(w http.ResponseWriter, s Session, signer *crypto.HMACHasher, secure bool) error {
	signed, err := encodeSession(s, signer)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func GetSessionCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}
