package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vladimirs1981/employee-info/db"
	"github.com/vladimirs1981/employee-info/services"
)

type CountryHandler struct {
	CountryService *services.CountryService
}

func NewCountryHandler(countryService *services.CountryService) *CountryHandler {
	return &CountryHandler{CountryService: countryService}
}

type countryInput struct {
	Country db.NameRequest `json:"country"`
}

// ListCountries handles GET /countries
func (h *CountryHandler) ListCountries(c *gin.Context) {
	countries, err := h.CountryService.ListCountries(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"countries": countries})
}

// GetCountry handles GET /countries/:id
func (h *CountryHandler) GetCountry(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	country, err := h.CountryService.GetCountry(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"country": country})
}

// CreateCountry handles POST /countries
func (h *CountryHandler) CreateCountry(c *gin.Context) {
	var input countryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	country, err := h.CountryService.CreateCountry(c.Request.Context(), input.Country.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"country": country})
}

// UpdateCountry handles PUT /countries/:id
func (h *CountryHandler) UpdateCountry(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input countryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	country, err := h.CountryService.UpdateCountry(c.Request.Context(), id, input.Country.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"country": country})
}

// DeleteCountry handles DELETE /countries/:id
func (h *CountryHandler) DeleteCountry(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.CountryService.DeleteCountry(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Country deleted"})
}

// AddCity handles POST /countries/:id/cities/:cityId
func (h *CountryHandler) AddCity(c *gin.Context) {
	h.relinkCity(c, h.CountryService.AddCity)
}

// RemoveCity handles DELETE /countries/:id/cities/:cityId
func (h *CountryHandler) RemoveCity(c *gin.Context) {
	h.relinkCity(c, h.CountryService.RemoveCity)
}

func (h *CountryHandler) relinkCity(c *gin.Context, fn func(ctx context.Context, countryID, cityID int64) (*db.Country, error)) {
	countryID, ok := pathID(c, "id")
	if !ok {
		return
	}
	cityID, ok := pathID(c, "cityId")
	if !ok {
		return
	}
	country, err := fn(c.Request.Context(), countryID, cityID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"country": country})
}
