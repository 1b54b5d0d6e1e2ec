package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"homelib/internal/library"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Renderer holds the parsed page templates. Each page is parsed together
// with the layout into its own set so pages can all define "content".
type Renderer struct {
	defaultCover string
	pages        map[string]*template.Template
}

func NewRenderer(defaultCover string) (*Renderer, error) {
	r := &Renderer{
		defaultCover: defaultCover,
		pages:        make(map[string]*template.Template),
	}
	for _, name := range []string{"home", "add_author", "add_book"} {
		t, err := template.New("layout.html").
			Funcs(r.funcs()).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"coverOf": func(b library.Book) string {
			if b.CoverURL != nil && *b.CoverURL != "" {
				return *b.CoverURL
			}
			return r.defaultCover
		},
		"yearOf": func(y *int) string {
			if y == nil {
				return ""
			}
			return fmt.Sprintf("%d", *y)
		},
		"ratingOf": func(rt *float64) string {
			if rt == nil {
				return ""
			}
			return fmt.Sprintf("%.1f", *rt)
		},
		"lifespan": func(a library.Author) string {
			switch {
			case a.BirthDate != nil && a.DateOfDeath != nil:
				return fmt.Sprintf("%d - %d", a.BirthDate.Year(), a.DateOfDeath.Year())
			case a.BirthDate != nil:
				return fmt.Sprintf("b. %d", a.BirthDate.Year())
			case a.DateOfDeath != nil:
				return fmt.Sprintf("d. %d", a.DateOfDeath.Year())
			default:
				return ""
			}
		},
	}
}

// Render executes a page into a buffer first so a template failure can
// still become a clean 500 instead of a half-written page.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
