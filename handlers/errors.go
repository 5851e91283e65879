package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vladimirs1981/employee-info/services"
)

// respondError maps domain errors onto status codes. Anything unrecognised is
// logged and reported as a generic 500.
func respondError(c *gin.Context, err error) {
	status, kind := http.StatusInternalServerError, "internal_error"
	switch {
	case errors.Is(err, services.ErrNotFound):
		status, kind = http.StatusNotFound, "not_found"
	case errors.Is(err, services.ErrAlreadyExists), errors.Is(err, services.ErrInUse):
		status, kind = http.StatusConflict, "conflict"
	case errors.Is(err, services.ErrUnprocessable):
		status, kind = http.StatusUnprocessableEntity, "unprocessable"
	case errors.Is(err, services.ErrInvalidInput):
		status, kind = http.StatusBadRequest, "bad_request"
	case errors.Is(err, services.ErrForbidden):
		status, kind = http.StatusForbidden, "forbidden"
	case errors.Is(err, services.ErrInvalidState):
		status, kind = http.StatusBadRequest, "invalid_state"
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("ERROR - %s %s: %v", c.Request.Method, c.FullPath(), err)
		message = "Internal server error"
	}
	c.JSON(status, gin.H{"error": kind, "message": message})
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": err.Error()})
}

// pathID parses a positive integer path parameter, writing a 400 on failure
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "bad_request",
			"message": name + " must be a positive integer",
		})
		return 0, false
	}
	return id, true
}
