package main

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"comforttech.in/ac-web/internal/format"
	"comforttech.in/ac-web/internal/observability"
)

// renderer parses templates once, or on every request in dev mode.
type renderer struct {
	dir string
	dev bool

	mu    sync.RWMutex
	cache *template.Template
}

func newRenderer(dir string, dev bool) *renderer {
	return &renderer{dir: dir, dev: dev}
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"now":      time.Now,
		"inr":      format.INR,
		"leadDate": format.LeadDate,
		"add":      func(a, b int) int { return a + b },
		"seq": func(n int) []int {
			out := make([]int, n)
			for i := range out {
				out[i] = i + 1
			}
			return out
		},
	}
}

func (v *renderer) parse() (*template.Template, error) {
	// Recursively discover and parse all .tmpl files. Note: ParseGlob doesn't support **.
	var files []string
	if err := filepath.WalkDir(v.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".tmpl") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found under %s", v.dir)
	}
	return template.New("_root").Funcs(templateFuncs()).ParseFiles(files...)
}

// load parses templates eagerly so a broken template fails at startup.
func (v *renderer) load() error {
	t, err := v.parse()
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.cache = t
	v.mu.Unlock()
	return nil
}

func (v *renderer) templates() (*template.Template, error) {
	if v.dev {
		return v.parse()
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.cache == nil {
		return nil, fmt.Errorf("templates not initialized")
	}
	return v.cache, nil
}

// execute renders name into a buffer first so a failing template never sends
// a half-written page.
func (v *renderer) execute(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	t, err := v.templates()
	if err != nil {
		observability.FromContext(r.Context()).Error("template parse", zap.Error(err))
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		observability.FromContext(r.Context()).Error("template exec", zap.String("template", name), zap.Error(err))
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// renderPage executes the base layout with the page content block named page.
func (s *server) renderPage(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	s.views.execute(w, r, status, "page_"+page, data)
}

// renderTemplate executes a fragment, used for htmx swaps.
func (s *server) renderTemplate(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	s.views.execute(w, r, status, name, data)
}
