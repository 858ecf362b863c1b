package web

import (
	"fmt"
	"html/template"
	"time"

	"github.com/ianmwanzi/portfolio/internal/content"
	"github.com/ianmwanzi/portfolio/internal/icons"
	"github.com/ianmwanzi/portfolio/internal/reveal"
)

// visibleTechnologies is how many technology chips a gallery card shows
// before collapsing the rest into "+N more".
const visibleTechnologies = 3

func templateFuncs(c *content.Content) template.FuncMap {
	return template.FuncMap{
		"reveal":     reveal.Attrs,
		"stagger":    staggerMs,
		"icon":       iconHTML,
		"imageURL":   c.ImageURL,
		"chips":      chips,
		"overflow":   overflow,
		"formatTime": formatTime,
	}
}

func parseTemplates(c *content.Content) (*template.Template, error) {
	tmpl, err := template.New("").Funcs(templateFuncs(c)).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("could not parse templates: %w", err)
	}
	return tmpl, nil
}

func staggerMs(baseMs, stepMs, i int) int {
	d := reveal.Stagger(time.Duration(baseMs)*time.Millisecond, time.Duration(stepMs)*time.Millisecond, i)
	return int(d / time.Millisecond)
}

// iconHTML fails template execution for names outside the registry.
func iconHTML(name string, size int, class string) (template.HTML, error) {
	id, err := icons.Parse(name)
	if err != nil {
		return "", err
	}
	return id.HTML(size, class), nil
}

func chips(techs []string) []string {
	if len(techs) > visibleTechnologies {
		return techs[:visibleTechnologies]
	}
	return techs
}

func overflow(techs []string) int {
	if len(techs) > visibleTechnologies {
		return len(techs) - visibleTechnologies
	}
	return 0
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04")
}
