package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vladimirs1981/employee-info/db"
	"github.com/vladimirs1981/employee-info/services"
)

// ProjectHandler handles project-related HTTP requests
type ProjectHandler struct {
	ProjectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{ProjectService: projectService}
}

type projectInput struct {
	Project db.NameRequest `json:"project"`
}

// ListProjects handles GET /projects
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.ProjectService.ListProjects(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// GetProject handles GET /projects/:id
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	project, err := h.ProjectService.GetProject(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}

// CreateProject handles POST /projects
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var input projectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	project, err := h.ProjectService.CreateProject(c.Request.Context(), input.Project.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"project": project})
}

// UpdateProject handles PUT /projects/:id
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input projectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	project, err := h.ProjectService.UpdateProject(c.Request.Context(), id, input.Project.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}

// DeleteProject handles DELETE /projects/:id
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.ProjectService.DeleteProject(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}

// AssignManager handles POST /projects/:id/project_manager/:pmId
func (h *ProjectHandler) AssignManager(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	managerID, ok := pathID(c, "pmId")
	if !ok {
		return
	}
	project, err := h.ProjectService.AssignManager(c.Request.Context(), id, managerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}

// RemoveManager handles PATCH /projects/:id
func (h *ProjectHandler) RemoveManager(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	project, err := h.ProjectService.RemoveManager(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}
