// Package render writes view pages as HTML. Templates and the stylesheet are embedded.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"

	"github.com/Its-donkey/admin-picker/internal/ui/view"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static/styles.css
var stylesheet []byte

// Bundle locates the WebAssembly build a shell page boots.
type Bundle struct {
	Runtime string
	Module  string
}

type pageData struct {
	view.Page
	Bundle *Bundle
}

// Renderer executes the embedded templates.
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	funcs := template.FuncMap{
		"pathEscape": url.PathEscape,
	}
	tmpl, err := template.New("admin-picker").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Page writes the full document.
func (r *Renderer) Page(w io.Writer, page view.Page) error {
	return r.execute(w, "page", pageData{Page: page})
}

// Shell writes the full document plus the scripts that start the wasm build,
// which then takes over the markup in place.
func (r *Renderer) Shell(w io.Writer, page view.Page, bundle Bundle) error {
	return r.execute(w, "page", pageData{Page: page, Bundle: &bundle})
}

// Panel writes the content of one tab.
func (r *Renderer) Panel(w io.Writer, panel view.Panel) error {
	return r.execute(w, "panel", panel)
}

// Dialog writes the confirmation overlay.
func (r *Renderer) Dialog(w io.Writer, dialog view.Dialog) error {
	return r.execute(w, "dialog", dialog)
}

// PanelHTML renders a panel to a string, for surfaces that patch markup in place.
func (r *Renderer) PanelHTML(panel view.Panel) (string, error) {
	var buf bytes.Buffer
	if err := r.Panel(&buf, panel); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// DialogHTML renders the dialog to a string.
func (r *Renderer) DialogHTML(dialog view.Dialog) (string, error) {
	var buf bytes.Buffer
	if err := r.Dialog(&buf, dialog); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Stylesheet returns the embedded CSS.
func Stylesheet() []byte {
	return stylesheet
}

func (r *Renderer) execute(w io.Writer, name string, data any) error {
	// Render into a buffer so a failing template never leaves half a page on w.
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
