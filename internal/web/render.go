package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/hackgods/hospital-portal/internal/dashboard"
	"github.com/hackgods/hospital-portal/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// Page is what every template receives.
type Page struct {
	Title   string
	Session *session.Session
	Notices []session.Notice
	// Widget turns on the live notification panel.
	Widget bool
	// Refresh, when set, redirects the browser after the given delay.
	Refresh *Refresh
	Data    any
}

type Refresh struct {
	Seconds int
	URL     string
}

var funcs = template.FuncMap{
	"statusColor":  dashboard.StatusColor,
	"progress":     dashboard.Progress,
	"positionText": dashboard.PositionText,
	"intOr":        dashboard.IntOr,
	"stringOr":     dashboard.StringOr,
	"join":         dashboard.JoinMedicines,
	"isLowStock":   dashboard.IsLowStock,
	"day": func(d dashboard.Date) string {
		if d.IsZero() {
			return "N/A"
		}
		return d.Format("02 Jan 2006")
	},
	"stamp": func(t dashboard.Date) string {
		if t.IsZero() {
			return "N/A"
		}
		return t.Local().Format("02 Jan 2006 15:04")
	},
}

type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page under templates/ on top of the shared layout.
func NewRenderer() (*Renderer, error) {
	layout, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, layoutFile)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		t, err := template.Must(layout.Clone()).ParseFS(templateFS, file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		pages[strings.TrimSuffix(path.Base(file), ".html")] = t
	}
	return &Renderer{pages: pages}, nil
}

// Render buffers the page so a template error never produces half a response.
func (rd *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) error {
	t, ok := rd.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", page); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
