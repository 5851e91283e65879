package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vladimirs1981/employee-info/db"
	"github.com/vladimirs1981/employee-info/services"
)

type CityHandler struct {
	CityService *services.CityService
}

func NewCityHandler(cityService *services.CityService) *CityHandler {
	return &CityHandler{CityService: cityService}
}

type cityInput struct {
	City db.NameRequest `json:"city"`
}

// ListCities handles GET /cities
func (h *CityHandler) ListCities(c *gin.Context) {
	cities, err := h.CityService.ListCities(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cities": cities})
}

// GetCity handles GET /cities/:id
func (h *CityHandler) GetCity(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	city, err := h.CityService.GetCity(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"city": city})
}

// CreateCity handles POST /cities/:countryId
func (h *CityHandler) CreateCity(c *gin.Context) {
	countryID, ok := pathID(c, "countryId")
	if !ok {
		return
	}
	var input cityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	city, err := h.CityService.CreateCity(c.Request.Context(), countryID, input.City.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"city": city})
}

// UpdateCity handles PUT /cities/:id
func (h *CityHandler) UpdateCity(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input cityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	city, err := h.CityService.UpdateCity(c.Request.Context(), id, input.City.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"city": city})
}

// DeleteCity handles DELETE /cities/:id
func (h *CityHandler) DeleteCity(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.CityService.DeleteCity(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "City deleted"})
}
