package router

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimirs1981/employee-info/authz"
	"github.com/vladimirs1981/employee-info/db"
	"github.com/vladimirs1981/employee-info/internal/config"
	"github.com/vladimirs1981/employee-info/services"
)

const testSecret = "router-test-secret"

var userCols = []string{"id", "first_name", "last_name", "email", "google_id", "role", "seniority", "plan", "city_id", "project_id"}

func setup(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.App = config.Config{
		JWTSecret:      testSecret,
		EmailDomain:    "quantox.com",
		AllowedOrigins: "http://localhost:3000",
		Google: config.GoogleConfig{
			ClientID:    "client-id",
			CallbackURL: "http://localhost:3005/auth/google/redirect",
		},
	}

	pg, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { pg.Close() })
	return NewGinRouter(pg, nil), mock
}

func tokenFor(t *testing.T, id int64, role authz.Role) string {
	t.Helper()
	token, _, err := services.NewJWTService(testSecret, 0).Issue(&db.User{ID: id, Email: "x@quantox.com", Role: role})
	require.NoError(t, err)
	return token
}

func expectCaller(mock sqlmock.Sqlmock, id int64, role authz.Role) {
	mock.ExpectQuery(regexp.QuoteMeta("FROM users u WHERE u.id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(id, "Ana", "Petrovic", "ana@quantox.com", nil, string(role), "junior", "", nil, nil))
}

var paramSegment = regexp.MustCompile(`:[A-Za-z]+`)

func concretePath(path string) string {
	return paramSegment.ReplaceAllString(path, "1")
}

func serve(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func allRoutes(t *testing.T) []route {
	t.Helper()
	pg, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { pg.Close() })
	return routes(newHandlerSet(pg, nil))
}

func TestRouter_RegistersEveryRoute(t *testing.T) {
	r, _ := setup(t)

	registered := make(map[string]bool)
	for _, info := range r.Routes() {
		registered[info.Method+" "+info.Path] = true
	}

	for _, rt := range allRoutes(t) {
		assert.True(t, registered[rt.method+" "+rt.path], "missing %s %s", rt.method, rt.path)
	}
	for _, public := range []string{"GET /health", "GET /auth/google", "GET /auth/google/redirect"} {
		assert.True(t, registered[public], "missing %s", public)
	}
}

func TestRouter_Health(t *testing.T) {
	r, _ := setup(t)

	w := serve(r, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRouter_AnonymousIsRejected(t *testing.T) {
	r, mock := setup(t)

	for _, rt := range allRoutes(t) {
		w := serve(r, rt.method, concretePath(rt.path), "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", rt.method, rt.path)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRouter_InvalidTokenIsAnonymous(t *testing.T) {
	r, mock := setup(t)

	w := serve(r, http.MethodGet, "/users", "not-a-jwt")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRouter_RoleGate(t *testing.T) {
	tests := []struct {
		name string
		role authz.Role
	}{
		{"employee", authz.RoleEmployee},
		{"project manager", authz.RoleProjectManager},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, mock := setup(t)
			token := tokenFor(t, 1, tt.role)

			for _, rt := range allRoutes(t) {
				if authz.HasRole(rt.roles, tt.role) {
					continue
				}
				expectCaller(mock, 1, tt.role)
				w := serve(r, rt.method, concretePath(rt.path), token)
				assert.Equal(t, http.StatusForbidden, w.Code, "%s %s", rt.method, rt.path)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRouter_AdminListsProjectManagers(t *testing.T) {
	r, mock := setup(t)
	expectCaller(mock, 1, authz.RoleAdmin)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users u WHERE u.role = $1")).
		WithArgs("project_manager").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(int64(4), "Marko", "Jovic", "marko@quantox.com", nil, "project_manager", "senior", "", nil, nil))

	w := serve(r, http.MethodGet, "/users/pm", tokenFor(t, 1, authz.RoleAdmin))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Users []db.User `json:"users"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Users, 1)
	assert.Equal(t, authz.RoleProjectManager, body.Users[0].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRouter_SelfRouteForEmployee(t *testing.T) {
	r, mock := setup(t)
	expectCaller(mock, 3, authz.RoleEmployee)
	mock.ExpectQuery("FROM users u").
		WithArgs(int64(3)).
		WillReturnError(sql.ErrNoRows)

	w := serve(r, http.MethodGet, "/user", tokenFor(t, 3, authz.RoleEmployee))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRouter_CORSPreflight(t *testing.T) {
	r, _ := setup(t)

	req := httptest.NewRequest(http.MethodOptions, "/users", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_GoogleLoginRedirects(t *testing.T) {
	r, _ := setup(t)

	w := serve(r, http.MethodGet, "/auth/google", "")

	assert.Equal(t, http.StatusFound, w.Code)
	location := w.Header().Get("Location")
	assert.True(t, strings.HasPrefix(location, "https://accounts.google.com/"), location)
	assert.Contains(t, location, "state=")
	assert.Contains(t, location, "client_id=client-id")
}

func TestRouter_GoogleRedirectRejectsUnknownState(t *testing.T) {
	r, _ := setup(t)

	w := serve(r, http.MethodGet, "/auth/google/redirect?state=forged&code=abc", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_state")
}
