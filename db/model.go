package db

import (
	"time"

	"github.com/vladimirs1981/employee-info/authz"
)

// ===========================
// ENUMS
// ===========================

// Seniority is an employee's experience tier, independent of role
type Seniority string

const (
	SeniorityIntern Seniority = "intern"
	SeniorityJunior Seniority = "junior"
	SeniorityMedior Seniority = "medior"
	SenioritySenior Seniority = "senior"
)

// IsValid reports whether s is one of the known tiers
func (s Seniority) IsValid() bool {
	switch s {
	case SeniorityIntern, SeniorityJunior, SeniorityMedior, SenioritySenior:
		return true
	}
	return false
}

// ===========================
// DIRECTORY MODELS
// ===========================

// User is an employee record. JSON names follow the public API contract.
type User struct {
	ID        int64      `json:"id"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email"`
	GoogleID  *string    `json:"googleId"`
	Role      authz.Role `json:"role"`
	Seniority Seniority  `json:"seniority"`
	Plan      string     `json:"plan"`

	// Foreign keys, exposed through the nested objects below
	CityID    *int64 `json:"-"`
	ProjectID *int64 `json:"-"`

	// Relations (populated on demand)
	City         *City        `json:"city,omitempty"`
	Project      *Project     `json:"project,omitempty"`
	Technologies []Technology `json:"technologies,omitempty"`
	Notes        []Note       `json:"notes,omitempty"`
}

// DisplayName is the "First Last" form used for note authorship
func (u *User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}

// Country has many cities
type Country struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Cities []City `json:"cities,omitempty"`
}

// City belongs to one country and has many users
type City struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	CountryID *int64   `json:"-"`
	Country   *Country `json:"country,omitempty"`
}

// Technology is many-to-many with users
type Technology struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Project has many employees and at most one manager
type Project struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
	ProjectManagerID *int64    `json:"-"`
	ProjectManager   *User     `json:"projectManager"`

	// For API responses
	Employees      []User `json:"employees,omitempty"`
	EmployeesCount *int   `json:"employeesCount,omitempty"`
}

// Note is written about an employee; CreatedBy is the author's display name
type Note struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	CreatedBy  string    `json:"createdBy"`
	EmployeeID int64     `json:"employeeId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Token records an access token issued to a user
type Token struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"userId"`
	Token     string     `json:"token"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiredAt *time.Time `json:"expiredAt"`
}

// ===========================
// REQUEST MODELS
// ===========================

// CreateUserRequest is the body of POST /users under the "user" key
type CreateUserRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email,company_email"`
}

// UpdateUserRequest is a partial update; nil fields are left untouched
type UpdateUserRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email" binding:"omitempty,email,company_email"`
	Plan      *string `json:"plan"`
}

// NameRequest is the shared body shape for countries, cities, technologies and projects
type NameRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateNoteRequest is the body of POST /notes/:employeeId under the "note" key
type CreateNoteRequest struct {
	Text string `json:"text" binding:"required"`
}
