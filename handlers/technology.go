package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vladimirs1981/employee-info/db"
	"github.com/vladimirs1981/employee-info/services"
)

type TechnologyHandler struct {
	TechnologyService *services.TechnologyService
}

func NewTechnologyHandler(technologyService *services.TechnologyService) *TechnologyHandler {
	return &TechnologyHandler{TechnologyService: technologyService}
}

type technologyInput struct {
	Technology db.NameRequest `json:"technology"`
}

func (h *TechnologyHandler) ListTechnologies(c *gin.Context) {
	technologies, err := h.TechnologyService.ListTechnologies(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"technologies": technologies})
}

func (h *TechnologyHandler) GetTechnology(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	technology, err := h.TechnologyService.GetTechnology(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"technology": technology})
}

func (h *TechnologyHandler) CreateTechnology(c *gin.Context) {
	var input technologyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	technology, err := h.TechnologyService.CreateTechnology(c.Request.Context(), input.Technology.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"technology": technology})
}

func (h *TechnologyHandler) UpdateTechnology(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input technologyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	technology, err := h.TechnologyService.UpdateTechnology(c.Request.Context(), id, input.Technology.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"technology": technology})
}

func (h *TechnologyHandler) DeleteTechnology(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.TechnologyService.DeleteTechnology(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Technology deleted"})
}
