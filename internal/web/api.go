package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ianmwanzi/portfolio/internal/content"
)

func (s *Server) setupAPI(r *gin.Engine) {
	api := r.Group("/api")
	api.GET("/projects", s.listProjects)
	api.GET("/projects/:id", s.getProject)
}

// listProjects handles GET /api/projects?filter=all|featured.
func (s *Server) listProjects(c *gin.Context) {
	filter := content.ParseFilter(c.Query("filter"))
	c.JSON(http.StatusOK, content.FilterProjects(s.deps.Content.Projects, filter))
}

func (s *Server) getProject(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project id"})
		return
	}
	p, ok := s.deps.Content.ProjectByID(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}
