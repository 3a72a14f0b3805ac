package auth

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/campusmart/campusmart/components"
	"github.com/campusmart/campusmart/internal/testutil"
	"github.com/campusmart/campusmart/templates"
	"github.com/jmoiron/sqlx"
)

func setupHandler(t *testing.T) (*Handler, *sqlx.DB) {
	t.Helper()
	db := testutil.NewBootstrappedDB(t)
	renderer, err := components.NewRenderer(templates.FS, components.WithCurrentUser(CurrentUsername))
	if err != nil {
		t.Fatalf("creating renderer: %v", err)
	}
	return NewHandler(renderer, testutil.NewTestSigner(t), false), db
}

func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest("POST", target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func postMultipart(t *testing.T, target string, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("writing field %s: %v", k, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}
	req := httptest.NewRequest("POST", target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// --- GET /login ---

func TestHandleLoginPage_Anonymous(t *testing.T) {
	h, _ := setupHandler(t)
	req := httptest.NewRequest("GET", "/login", nil)
	rec := httptest.NewRecorder()

	h.HandleLoginPage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "You haven&#39;t logged in.") {
		t.Fatal("expected not-logged-in message")
	}
	if !strings.Contains(body, `name="username"`) || !strings.Contains(body, `name="password"`) {
		t.Fatal("expected login form fields")
	}
}

func TestHandleLoginPage_AlreadyLoggedIn(t *testing.T) {
	h, _ := setupHandler(t)
	req := httptest.NewRequest("GET", "/login", nil)
	ctx := WithSession(req.Context(), &Session{LoggedIn: true, ID: "1", Username: "grace"})
	rec := httptest.NewRecorder()

	h.HandleLoginPage(rec, req.WithContext(ctx))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "You have already logged in.") {
		t.Fatal("expected already-logged-in message")
	}
}

// --- POST /login ---

func TestHandleLogin_Success(t *testing.T) {
	h, db := setupHandler(t)
	account := testutil.CreateTestAccount(t, db, testutil.WithUsername("grace"), testutil.WithPassword("cobol"))

	req := testutil.WithConn(t, db, postForm("/login", url.Values{"username": {"grace"}, "password": {"cobol"}}))
	rec := httptest.NewRecorder()

	h.HandleLogin(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Logged in successfully!") {
		t.Fatal("expected success message")
	}
	if !strings.Contains(body, "Signed in as grace") {
		t.Fatal("expected header to reflect the new session")
	}

	c := testutil.FindCookie(rec.Result(), SessionCookieName)
	if c == nil {
		t.Fatal("expected session cookie to be set")
	}
	session, err := DecodeSession(c.Value, h.signer)
	if err != nil {
		t.Fatalf("decoding session cookie: %v", err)
	}
	if !session.LoggedIn || session.ID != account.UserID || session.Username != "grace" {
		t.Fatalf("unexpected session %+v", session)
	}
}

func TestHandleLogin_MultipartForm(t *testing.T) {
	h, db := setupHandler(t)
	testutil.CreateTestAccount(t, db, testutil.WithUsername("grace"), testutil.WithPassword("cobol"))

	req := testutil.WithConn(t, db, postMultipart(t, "/login", map[string]string{"username": "grace", "password": "cobol"}))
	rec := httptest.NewRecorder()

	h.HandleLogin(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Logged in successfully!") {
		t.Fatal("expected success message")
	}
	if testutil.FindCookie(rec.Result(), SessionCookieName) == nil {
		t.Fatal("expected session cookie to be set")
	}
}

func TestHandleLogin_MultipartMissingField(t *testing.T) {
	h, db := setupHandler(t)

	req := testutil.WithConn(t, db, postMultipart(t, "/login", map[string]string{"username": "grace"}))
	rec := httptest.NewRecorder()

	h.HandleLogin(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleLogin_IncorrectCredentials(t *testing.T) {
	h, db := setupHandler(t)

	req := testutil.WithConn(t, db, postForm("/login", url.Values{"username": {"grace"}, "password": {"wrong"}}))
	rec := httptest.NewRecorder()

	h.HandleLogin(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Incorrect username/password!") {
		t.Fatal("expected failure message")
	}
	if !strings.Contains(body, `value="grace"`) {
		t.Fatal("expected username to be kept in the form")
	}
	if testutil.FindCookie(rec.Result(), SessionCookieName) != nil {
		t.Fatal("expected no session cookie on failed login")
	}
}

func TestHandleLogin_MissingFields(t *testing.T) {
	h, db := setupHandler(t)

	cases := []struct {
		name string
		form url.Values
	}{
		{"no fields", url.Values{}},
		{"no password", url.Values{"username": {"grace"}}},
		{"no username", url.Values{"password": {"cobol"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.WithConn(t, db, postForm("/login", tc.form))
			rec := httptest.NewRecorder()

			h.HandleLogin(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestHandleLogin_EmptyValuesDoNotMatch(t *testing.T) {
	h, db := setupHandler(t)

	req := testutil.WithConn(t, db, postForm("/login", url.Values{"username": {""}, "password": {""}}))
	rec := httptest.NewRecorder()

	h.HandleLogin(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Incorrect username/password!") {
		t.Fatal("expected failure message for empty credentials")
	}
}

func TestHandleLogin_NoConnection(t *testing.T) {
	h, _ := setupHandler(t)

	req := postForm("/login", url.Values{"username": {"grace"}, "password": {"cobol"}})
	rec := httptest.NewRecorder()

	h.HandleLogin(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

// --- GET /logout ---

func TestHandleLogout_ClearsSession(t *testing.T) {
	h, _ := setupHandler(t)
	req := httptest.NewRequest("GET", "/logout", nil)
	ctx := WithSession(req.Context(), &Session{LoggedIn: true, ID: "1", Username: "grace"})
	rec := httptest.NewRecorder()

	h.HandleLogout(rec, req.WithContext(ctx))

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %q", loc)
	}
	c := testutil.FindCookie(rec.Result(), SessionCookieName)
	if c == nil || c.MaxAge >= 0 {
		t.Fatal("expected session cookie to be cleared")
	}
}

func TestHandleLogout_Anonymous(t *testing.T) {
	h, _ := setupHandler(t)
	req := httptest.NewRequest("GET", "/logout", nil)
	rec := httptest.NewRecorder()

	h.HandleLogout(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %q", loc)
	}
}
