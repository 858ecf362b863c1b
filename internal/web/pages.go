package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ianmwanzi/portfolio/internal/content"
	"github.com/ianmwanzi/portfolio/internal/logger"
)

// NavItem is one entry of the site navigation.
type NavItem struct {
	Name string
	Path string
}

// Nav lists the routed pages in menu order.
var Nav = []NavItem{
	{Name: "Home", Path: "/"},
	{Name: "About", Path: "/about"},
	{Name: "Skills", Path: "/skills"},
	{Name: "Projects", Path: "/projects"},
	{Name: "Contact", Path: "/contact"},
}

func (s *Server) setupPages(r *gin.Engine) {
	r.GET("/", s.home)
	r.GET("/about", s.about)
	r.GET("/skills", s.skills)
	r.GET("/projects", s.projects)
	r.GET("/privacy", s.privacy)
}

// pageData merges the fields every layout needs into data.
func (s *Server) pageData(c *gin.Context, title string, data gin.H) gin.H {
	out := gin.H{
		"Title":    title,
		"Path":     c.Request.URL.Path,
		"Nav":      Nav,
		"Profile":  s.deps.Content.Profile,
		"Social":   s.deps.Content.Social,
		"Year":     time.Now().Year(),
		"Tracking": s.opts.TrackingEnabled,
	}
	for k, v := range data {
		out[k] = v
	}
	return out
}

// render executes a page template and counts the view. name labels the
// page in metrics.
func (s *Server) render(c *gin.Context, status int, name, tmpl string, data gin.H) {
	s.deps.Metrics.PageViews.WithLabelValues(name).Inc()
	c.HTML(status, tmpl, data)
	if len(c.Errors) > 0 {
		logger.Error(c.Request.Context(), "could not render page",
			zap.String("template", tmpl), zap.Error(c.Errors.Last()))
	}
}

func (s *Server) home(c *gin.Context) {
	s.render(c, http.StatusOK, "home", "home.html", s.pageData(c, "", gin.H{
		"Featured": s.deps.Content.Featured(),
	}))
}

func (s *Server) about(c *gin.Context) {
	s.render(c, http.StatusOK, "about", "about.html", s.pageData(c, "About", gin.H{
		"About":      s.deps.Content.About,
		"Experience": s.deps.Content.Experience,
		"Education":  s.deps.Content.Education,
	}))
}

func (s *Server) skills(c *gin.Context) {
	s.render(c, http.StatusOK, "skills", "skills.html", s.pageData(c, "Skills", gin.H{
		"Groups": content.GroupSkills(s.deps.Content.Skills),
	}))
}

func (s *Server) projects(c *gin.Context) {
	filter := content.ParseFilter(c.Query("filter"))
	s.render(c, http.StatusOK, "projects", "projects.html", s.pageData(c, "Projects", gin.H{
		"Filter":   filter,
		"Filters":  content.Filters,
		"Projects": content.FilterProjects(s.deps.Content.Projects, filter),
	}))
}

func (s *Server) privacy(c *gin.Context) {
	s.render(c, http.StatusOK, "privacy", "privacy.html", s.pageData(c, "Privacy Policy", nil))
}

func (s *Server) notFound(c *gin.Context) {
	s.render(c, http.StatusNotFound, "not_found", "404.html", s.pageData(c, "Page Not Found", nil))
}
