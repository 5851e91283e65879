package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vladimirs1981/employee-info/authz"
	"github.com/vladimirs1981/employee-info/db"
	"github.com/vladimirs1981/employee-info/services"
)

// Subject resolves which user a request acts on and writes the error response
// itself when it cannot.
type Subject func(c *gin.Context) (int64, bool)

// Self acts on the authenticated caller
func Self(c *gin.Context) (int64, bool) {
	id, ok := authz.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "Not authorized"})
	}
	return id, ok
}

// PathUser acts on the user named by the :id path parameter
func PathUser(c *gin.Context) (int64, bool) {
	return pathID(c, "id")
}

type UserHandler struct {
	UserService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{UserService: userService}
}

type createUserInput struct {
	User db.CreateUserRequest `json:"user"`
}

type updateUserInput struct {
	User db.UpdateUserRequest `json:"user"`
}

type roleInput struct {
	Role string `json:"role" binding:"required"`
}

type seniorityInput struct {
	Seniority string `json:"seniority" binding:"required"`
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.UserService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// ListByRole handles GET /users/employees, /users/admins and /users/pm
func (h *UserHandler) ListByRole(role authz.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := h.UserService.ListUsersByRole(c.Request.Context(), role)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"users": users})
	}
}

// GetUser handles GET /users/:id and GET /user
func (h *UserHandler) GetUser(subject Subject) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := subject(c)
		if !ok {
			return
		}
		user, err := h.UserService.GetUserDetails(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

// CreateUser handles POST /users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var input createUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.UserService.CreateUser(c.Request.Context(), input.User)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// UpdateUser handles PUT /users/:id and PUT /user
func (h *UserHandler) UpdateUser(subject Subject) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := subject(c)
		if !ok {
			return
		}
		var input updateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}

		user, err := h.UserService.UpdateUser(c.Request.Context(), id, input.User)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

// DeleteUser handles DELETE /users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := PathUser(c)
	if !ok {
		return
	}
	if err := h.UserService.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// SetRole handles PATCH /users/:id/role and PATCH /user/role
func (h *UserHandler) SetRole(subject Subject) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := subject(c)
		if !ok {
			return
		}
		var input roleInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		role, valid := authz.ParseRole(input.Role)
		if !valid {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "role must be admin, project_manager or employee"})
			return
		}

		user, err := h.UserService.SetRole(c.Request.Context(), id, role)
		if err != nil {
			respondError(c, err)
			return
		}
		if callerID, _ := authz.CurrentUserID(c); callerID == id {
			log.Printf("AUTHZ SELF ROLE CHANGE - User %d changed own role from %q to %q via %s %s",
				id, authz.CurrentRole(c), role, c.Request.Method, c.FullPath())
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

// Promote handles PATCH /users/pm/:id, /users/admin/:id and /users/employee/:id
func (h *UserHandler) Promote(role authz.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := PathUser(c)
		if !ok {
			return
		}
		user, err := h.UserService.Promote(c.Request.Context(), id, role)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

// SetSeniority handles PATCH /users/:id/seniority and PATCH /user/seniority
func (h *UserHandler) SetSeniority(subject Subject) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := subject(c)
		if !ok {
			return
		}
		var input seniorityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}

		user, err := h.UserService.SetSeniority(c.Request.Context(), id, db.Seniority(input.Seniority))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

// associate runs an association change; param names the target id
func (h *UserHandler) associate(subject Subject, param string, fn func(ctx context.Context, userID, targetID int64) (*db.User, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := subject(c)
		if !ok {
			return
		}
		targetID, ok := pathID(c, param)
		if !ok {
			return
		}
		user, err := fn(c.Request.Context(), userID, targetID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

func (h *UserHandler) AddTechnology(subject Subject) gin.HandlerFunc {
	return h.associate(subject, "technologyId", h.UserService.AddTechnology)
}

func (h *UserHandler) RemoveTechnology(subject Subject) gin.HandlerFunc {
	return h.associate(subject, "technologyId", h.UserService.RemoveTechnology)
}

func (h *UserHandler) SetCity(subject Subject) gin.HandlerFunc {
	return h.associate(subject, "cityId", h.UserService.SetCity)
}

func (h *UserHandler) ClearCity(subject Subject) gin.HandlerFunc {
	return h.associate(subject, "cityId", h.UserService.ClearCity)
}

func (h *UserHandler) SetProject(subject Subject) gin.HandlerFunc {
	return h.associate(subject, "projectId", h.UserService.SetProject)
}

func (h *UserHandler) ClearProject(subject Subject) gin.HandlerFunc {
	return h.associate(subject, "projectId", h.UserService.ClearProject)
}
