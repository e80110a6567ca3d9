// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render parses the embedded HTML templates once at startup and
// renders pages with the per-request identity and flash message filled in.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/olegiv/oblog/internal/auth"
	"github.com/olegiv/oblog/internal/middleware"
	"github.com/olegiv/oblog/internal/service"
	"github.com/olegiv/oblog/internal/store"
)

const baseLayout = "layouts/base.html"

// pageDirs are the template directories rendered inside the base layout.
var pageDirs = []string{"blog", "auth", "errors"}

// Renderer handles template rendering with caching.
type Renderer struct {
	templates map[string]*template.Template
	sessions  *auth.Sessions
	siteName  string
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS fs.FS
	Sessions    *auth.Sessions
	SiteName    string
}

// New creates a new Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		sessions:  cfg.Sessions,
		siteName:  cfg.SiteName,
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}

	return r, nil
}

// parseTemplates parses every page together with the base layout and all
// partials. Pages are keyed as "<dir>/<name>", e.g. "blog/index".
func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := templateFiles(templatesFS, "partials")
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	for _, dir := range pageDirs {
		pages, err := templateFiles(templatesFS, dir)
		if err != nil {
			return fmt.Errorf("getting %s templates: %w", dir, err)
		}

		for _, page := range pages {
			name := dir + "/" + strings.TrimSuffix(path.Base(page), ".html")

			files := append([]string{baseLayout}, partials...)
			files = append(files, page)

			tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templatesFS, files...)
			if err != nil {
				return fmt.Errorf("parsing template %s: %w", name, err)
			}
			r.templates[name] = tmpl
		}
	}

	return nil
}

// templateFiles returns all .html files in a directory.
func templateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format(service.DateLayout)
		},
		// safe marks HTML that was sanitized before it was stored.
		"safe": func(s string) template.HTML {
			return template.HTML(s) //nolint:gosec // bodies and comments pass through bluemonday on write
		},
		"canEditComment":   service.CanEditComment,
		"canDeleteComment": service.CanDeleteComment,
	}
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title       string
	SiteName    string
	User        *store.User
	IsAdmin     bool
	Data        any
	Form        any
	Errors      map[string]string
	Flash       string
	CurrentYear int
}

// Render renders a template with status 200.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	return r.RenderStatus(w, req, http.StatusOK, name, data)
}

// RenderStatus renders a template with the given status code. The page is
// rendered into a buffer first so a template error never leaves a partial
// response behind.
func (r *Renderer) RenderStatus(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.SiteName = r.siteName
	data.CurrentYear = time.Now().Year()
	data.User = middleware.GetUser(req)
	data.IsAdmin = service.CanManagePosts(data.User)
	if r.sessions != nil {
		data.Flash = r.sessions.PopFlash(req.Context())
	}

	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// SetFlash sets a flash message in the session.
func (r *Renderer) SetFlash(req *http.Request, message string) {
	if r.sessions != nil {
		r.sessions.Flash(req.Context(), message)
	}
}

// Has reports whether a template with the given name was parsed.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}
