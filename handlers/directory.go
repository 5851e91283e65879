package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vladimirs1981/employee-info/db"
	"github.com/vladimirs1981/employee-info/services"
)

// DirectoryHandler serves the /pm views and notes
type DirectoryHandler struct {
	DirectoryService *services.DirectoryService
	NoteService      *services.NoteService
}

func NewDirectoryHandler(directoryService *services.DirectoryService, noteService *services.NoteService) *DirectoryHandler {
	return &DirectoryHandler{DirectoryService: directoryService, NoteService: noteService}
}

type noteInput struct {
	Note db.CreateNoteRequest `json:"note"`
}

// ListEmployees handles GET /pm/employees
func (h *DirectoryHandler) ListEmployees(c *gin.Context) {
	filter, err := services.ParseEmployeeFilter(c.Request.URL.Query(), true)
	if err != nil {
		respondError(c, err)
		return
	}
	page, err := h.DirectoryService.ListEmployees(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// ListManagedEmployees handles GET /pm/pm-employees
func (h *DirectoryHandler) ListManagedEmployees(c *gin.Context) {
	managerID, ok := Self(c)
	if !ok {
		return
	}
	filter, err := services.ParseEmployeeFilter(c.Request.URL.Query(), false)
	if err != nil {
		respondError(c, err)
		return
	}
	page, err := h.DirectoryService.ListManagedEmployees(c.Request.Context(), managerID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// ListProjects handles GET /pm/projects
func (h *DirectoryHandler) ListProjects(c *gin.Context) {
	projects, err := h.DirectoryService.ListProjects(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// ListManagedProjects handles GET /pm/pm-projects
func (h *DirectoryHandler) ListManagedProjects(c *gin.Context) {
	managerID, ok := Self(c)
	if !ok {
		return
	}
	projects, err := h.DirectoryService.ListManagedProjects(c.Request.Context(), managerID, c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// GetEmployee handles GET /pm/employees/:id
func (h *DirectoryHandler) GetEmployee(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.DirectoryService.GetEmployee(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ListNotes handles GET /notes
func (h *DirectoryHandler) ListNotes(c *gin.Context) {
	notes, err := h.NoteService.ListNotes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

// CreateNote handles POST /notes/:employeeId
func (h *DirectoryHandler) CreateNote(c *gin.Context) {
	author, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "Not authorized"})
		return
	}
	employeeID, ok := pathID(c, "employeeId")
	if !ok {
		return
	}
	var input noteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	note, err := h.NoteService.CreateNote(c.Request.Context(), author, employeeID, input.Note.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"note": note})
}
