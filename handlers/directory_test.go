package handlers

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vladimirs1981/employee-info/authz"
	"github.com/vladimirs1981/employee-info/db"
	"github.com/vladimirs1981/employee-info/services"
)

func newDirectoryRouter(t *testing.T, who *db.User) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	pg, mock := newMock(t)
	h := NewDirectoryHandler(services.NewDirectoryService(pg), services.NewNoteService(pg))

	r := gin.New()
	r.Use(asCaller(who))
	r.GET("/pm/employees", h.ListEmployees)
	r.GET("/pm/pm-employees", h.ListManagedEmployees)
	r.GET("/notes", h.ListNotes)
	r.POST("/notes/:employeeId", h.CreateNote)
	return r, mock
}

func TestListEmployees_Page(t *testing.T) {
	r, mock := newDirectoryRouter(t, caller(1, authz.RoleProjectManager))
	mock.ExpectQuery("SELECT count").
		WithArgs("%Ana%", "%Ana%", "%Ana%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("ORDER BY u.id LIMIT 100 OFFSET 0").
		WillReturnRows(bareEmployeeRow(sqlmock.NewRows(employeeCols), 3))
	mock.ExpectQuery("FROM user_technologies").
		WillReturnRows(noTechnologies().AddRow(int64(3), int64(2), "Go"))

	w := doJSON(r, http.MethodGet, "/pm/employees?search=Ana", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.EqualValues(t, 1, body["employeesCount"])
	assert.EqualValues(t, 1, body["current_page"])
	assert.EqualValues(t, 1, body["last_page"])

	employees := body["employees"].([]interface{})
	require.Len(t, employees, 1)
	techs := employees[0].(map[string]interface{})["technologies"].([]interface{})
	require.Len(t, techs, 1)
	assert.Equal(t, "Go", techs[0].(map[string]interface{})["name"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListEmployees_PastLastPage(t *testing.T) {
	r, mock := newDirectoryRouter(t, caller(1, authz.RoleAdmin))
	mock.ExpectQuery("SELECT count").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	w := doJSON(r, http.MethodGet, "/pm/employees?page=3", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, []interface{}{}, body["employees"])
	assert.EqualValues(t, 5, body["employeesCount"])
	assert.EqualValues(t, 3, body["current_page"])
	assert.EqualValues(t, 1, body["last_page"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListEmployees_HugePage(t *testing.T) {
	r, mock := newDirectoryRouter(t, caller(1, authz.RoleAdmin))
	mock.ExpectQuery("SELECT count").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(150))

	w := doJSON(r, http.MethodGet, "/pm/employees?page=100000000000000000", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, []interface{}{}, body["employees"])
	assert.EqualValues(t, 2, body["last_page"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListEmployees_BadFilter(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"city not numeric", "?city=Nis"},
		{"unknown seniority", "?seniority=principal"},
		{"negative project", "?project=-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, mock := newDirectoryRouter(t, caller(1, authz.RoleAdmin))

			w := doJSON(r, http.MethodGet, "/pm/employees"+tt.query, nil)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestListManagedEmployees_ScopesToCaller(t *testing.T) {
	r, mock := newDirectoryRouter(t, caller(9, authz.RoleProjectManager))
	mock.ExpectQuery("p.project_manager_id").
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	w := doJSON(r, http.MethodGet, "/pm/pm-employees?projectManager=4", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decode(t, w)["last_page"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateNote(t *testing.T) {
	tests := []struct {
		name           string
		who            *db.User
		body           interface{}
		mockFunc       func(mock sqlmock.Sqlmock)
		expectedStatus int
	}{
		{
			name: "signed with the author's name",
			who:  caller(9, authz.RoleProjectManager),
			body: gin.H{"note": gin.H{"text": "Great sprint"}},
			mockFunc: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("SELECT EXISTS").WithArgs(int64(5)).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
				mock.ExpectQuery("INSERT INTO notes").
					WithArgs("Great sprint", "Marko Jovic", int64(5)).
					WillReturnRows(sqlmock.NewRows(noteCols).
						AddRow(int64(1), "Great sprint", "Marko Jovic", int64(5), fixedTime, fixedTime))
				mock.ExpectCommit()
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "missing employee",
			who:  caller(9, authz.RoleProjectManager),
			body: gin.H{"note": gin.H{"text": "Great sprint"}},
			mockFunc: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("SELECT EXISTS").WithArgs(int64(5)).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
				mock.ExpectRollback()
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "empty text",
			who:            caller(9, authz.RoleProjectManager),
			body:           gin.H{"note": gin.H{"text": ""}},
			mockFunc:       func(mock sqlmock.Sqlmock) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "anonymous",
			body:           gin.H{"note": gin.H{"text": "Great sprint"}},
			mockFunc:       func(mock sqlmock.Sqlmock) {},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, mock := newDirectoryRouter(t, tt.who)
			tt.mockFunc(mock)

			w := doJSON(r, http.MethodPost, "/notes/5", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedStatus == http.StatusCreated {
				note := decode(t, w)["note"].(map[string]interface{})
				assert.Equal(t, "Marko Jovic", note["createdBy"])
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
