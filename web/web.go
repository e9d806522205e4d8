// Package web holds the embedded page templates and static assets.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin/render"
)

//go:embed templates static
var files embed.FS

const layoutName = "base"

// Static serves the files under static/.
func Static() http.FileSystem {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// Renderer implements gin's render.HTMLRender with one template set per page,
// each sharing the layout and partials.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	shared, err := template.New(layoutName).Funcs(funcs()).ParseFS(files,
		"templates/layout/*.html",
		"templates/partials/*.html",
	)
	if err != nil {
		return nil, fmt.Errorf("parse layout failed: %w", err)
	}

	pages := make(map[string]*template.Template)
	err = fs.WalkDir(files, "templates/pages", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || path.Ext(p) != ".html" {
			return err
		}
		tmpl, err := shared.Clone()
		if err != nil {
			return err
		}
		if _, err := tmpl.ParseFS(files, p); err != nil {
			return fmt.Errorf("parse %s failed: %w", p, err)
		}
		name := strings.TrimSuffix(strings.TrimPrefix(p, "templates/pages/"), ".html")
		pages[name] = tmpl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Renderer{pages: pages}, nil
}

func (r *Renderer) Instance(name string, data any) render.Render {
	tmpl, ok := r.pages[name]
	if !ok {
		panic(fmt.Sprintf("web: unknown page %q", name))
	}
	return render.HTML{Template: tmpl, Name: layoutName, Data: data}
}

func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"timestamp": func(t time.Time) string {
			return t.Format("02 January 2006")
		},
		"has": func(set map[uint]bool, id uint) bool {
			return set[id]
		},
	}
}
