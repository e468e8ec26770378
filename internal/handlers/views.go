package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/simplenotes/notes/types"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	viewLogin  = "login.html"
	viewSignUp = "sign_up.html"
	viewNotes  = "note.html"
)

// Views renders the embedded HTML templates.
type Views struct {
	templates *template.Template
}

// ViewData is the context every page is rendered with.
type ViewData struct {
	Title string
	User  *types.User
	Notes []types.Note
	Flash string
}

func NewViews() (*Views, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Views{templates: tmpl}, nil
}

// Render executes the named view into a buffer so a template failure never
// leaves a half-written page.
func (v *Views) Render(w http.ResponseWriter, name string, data ViewData) error {
	var buf bytes.Buffer
	if err := v.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err := buf.WriteTo(w)
	return err
}
