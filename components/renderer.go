package components

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"net/http"
	"path"

	"github.com/a-h/templ"
	"github.com/campusmart/campusmart/internal/apperror"
)

const (
	layoutFile  = "layout.html"
	contentName = "content"
	childrenKey = "children"
)

// Context is the name-to-value mapping handed to a page template.
type Context map[string]any

// CurrentUserKey is set on every rendered context to the logged-in username,
// or left unset for anonymous visitors.
const CurrentUserKey = "current_user"

type Renderer struct {
	pages       map[string]*template.Template
	currentUser func(context.Context) string
	debug       bool
}

type Option func(*Renderer)

// WithCurrentUser supplies the username shown in the layout header.
func WithCurrentUser(fn func(context.Context) string) Option {
	return func(r *Renderer) { r.currentUser = fn }
}

// WithDebug includes underlying error text on error pages.
func WithDebug(debug bool) Option {
	return func(r *Renderer) { r.debug = debug }
}

// NewRenderer parses every *.html page in fsys against the shared layout.
func NewRenderer(fsys fs.FS, opts ...Option) (*Renderer, error) {
	base, err := template.New(layoutFile).Funcs(funcs()).ParseFS(fsys, layoutFile)
	if err != nil {
		return nil, fmt.Errorf("parsing layout: %w", err)
	}

	names, err := fs.Glob(fsys, "*.html")
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}

	r := &Renderer{
		pages:       make(map[string]*template.Template, len(names)),
		currentUser: func(context.Context) string { return "" },
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, name := range names {
		if name == layoutFile {
			continue
		}
		page, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning layout for %s: %w", name, err)
		}
		if _, err := page.ParseFS(fsys, name); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		if page.Lookup(contentName) == nil {
			return nil, fmt.Errorf("%s does not define %q", name, contentName)
		}
		r.pages[path.Base(name)] = page
	}

	return r, nil
}

// Page returns the named template wrapped in the layout as a component.
func (r *Renderer) Page(ctx context.Context, name string, data Context) (templ.Component, error) {
	page, ok := r.pages[name]
	if !ok {
		return nil, fmt.Errorf("unknown template %q", name)
	}

	merged := make(Context, len(data)+1)
	for k, v := range data {
		merged[k] = v
	}
	if user := r.currentUser(ctx); user != "" {
		merged[CurrentUserKey] = user
	}

	body := templ.FromGoHTML(page.Lookup(contentName), merged)
	return withLayout(page, merged, body), nil
}

func withLayout(page *template.Template, data Context, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return layout(page, data).Render(templ.WithChildren(ctx, content), w)
	})
}

// layout renders the shared shell around the children carried in ctx. The
// page's own title block still applies since page is a clone of the layout.
func layout(page *template.Template, data Context) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		children, err := templ.ToGoHTML(ctx, templ.GetChildren(ctx))
		if err != nil {
			return fmt.Errorf("rendering page body: %w", err)
		}
		shell := maps.Clone(data)
		if shell == nil {
			shell = Context{}
		}
		shell[childrenKey] = children
		return page.ExecuteTemplate(w, "layout", shell)
	})
}

// Render writes the named page with the given status.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, status int, name string, data Context) {
	component, err := r.Page(req.Context(), name, data)
	if err != nil {
		slog.Error("rendering page", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	renderHTML(w, req, status, component)
}

// Error renders the error page with the status that matches appErr.
func (r *Renderer) Error(w http.ResponseWriter, req *http.Request, appErr *apperror.Error) {
	status := apperror.HTTPStatus(appErr)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "path", req.URL.Path, "status", status, "error", appErr)
	}

	data := Context{"msg": appErr.Message}
	if r.debug && appErr.Err != nil {
		data["detail"] = appErr.Err.Error()
	}
	r.Render(w, req, status, "error.html", data)
}

func renderHTML(w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := component.Render(r.Context(), w); err != nil {
		slog.Error("writing page", "path", r.URL.Path, "error", err)
	}
}
