package router

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/vladimirs1981/employee-info/authz"
	"github.com/vladimirs1981/employee-info/handlers"
	"github.com/vladimirs1981/employee-info/internal/config"
	"github.com/vladimirs1981/employee-info/services"
)

// route is one entry of the API surface. An empty roles slice means any
// authenticated caller.
type route struct {
	method  string
	path    string
	roles   []authz.Role
	handler gin.HandlerFunc
}

type handlerSet struct {
	auth       *handlers.AuthHandler
	users      *handlers.UserHandler
	countries  *handlers.CountryHandler
	cities     *handlers.CityHandler
	techs      *handlers.TechnologyHandler
	projects   *handlers.ProjectHandler
	directory  *handlers.DirectoryHandler
	middleware *handlers.AuthMiddleware
}

func NewGinRouter(pg *sql.DB, redisClient *redis.Client) *gin.Engine {
	cfg := config.App

	if err := handlers.RegisterValidators(cfg.EmailDomain); err != nil {
		log.Printf("Warning: Failed to register validators: %v", err)
	}

	var states services.StateStore
	if redisClient != nil {
		states = services.NewRedisStateStore(redisClient)
	} else {
		log.Println("No Redis client, OAuth state kept in memory")
		states = services.NewMemoryStateStore()
	}
	google := services.NewGoogleOAuthService(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.CallbackURL, states)

	return newEngine(pg, google)
}

// newEngine builds the engine around an injected Google authenticator
func newEngine(pg *sql.DB, google handlers.GoogleAuthenticator) *gin.Engine {
	cfg := config.App
	r := gin.Default()

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if origins := cfg.Origins(); len(origins) > 0 {
		corsConfig.AllowOrigins = origins
	} else {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	r.Use(cors.New(corsConfig))

	h := newHandlerSet(pg, google)

	// Public endpoints
	r.GET("/health", handlers.Health)
	r.GET("/auth/google", h.auth.GoogleLogin)
	r.GET("/auth/google/redirect", h.auth.GoogleRedirect)

	// Everything else resolves the caller first; the middleware never aborts
	api := r.Group("/")
	api.Use(h.middleware.Authenticate())
	for _, rt := range routes(h) {
		api.Handle(rt.method, rt.path, authz.RequireRoles(rt.roles...), rt.handler)
	}

	return r
}

func newHandlerSet(pg *sql.DB, google handlers.GoogleAuthenticator) *handlerSet {
	cfg := config.App

	// Initialize services
	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTTTL)
	userService := services.NewUserService(pg, cfg.EmailDomain)
	authService := services.NewAuthService(pg, userService, jwtService, cfg.EmailDomain)

	return &handlerSet{
		auth:       handlers.NewAuthHandler(google, authService),
		users:      handlers.NewUserHandler(userService),
		countries:  handlers.NewCountryHandler(services.NewCountryService(pg)),
		cities:     handlers.NewCityHandler(services.NewCityService(pg)),
		techs:      handlers.NewTechnologyHandler(services.NewTechnologyService(pg)),
		projects:   handlers.NewProjectHandler(services.NewProjectService(pg)),
		directory:  handlers.NewDirectoryHandler(services.NewDirectoryService(pg), services.NewNoteService(pg)),
		middleware: handlers.NewAuthMiddleware(jwtService, userService),
	}
}

func routes(h *handlerSet) []route {
	u := h.users
	return []route{
		// Own profile
		{http.MethodGet, "/user", authz.Anyone, u.GetUser(handlers.Self)},
		{http.MethodPut, "/user", authz.Anyone, u.UpdateUser(handlers.Self)},
		{http.MethodPatch, "/user/role", authz.Anyone, u.SetRole(handlers.Self)},
		{http.MethodPatch, "/user/seniority", authz.Anyone, u.SetSeniority(handlers.Self)},
		{http.MethodPost, "/user/city/:cityId", authz.Anyone, u.SetCity(handlers.Self)},
		{http.MethodDelete, "/user/city/:cityId", authz.Anyone, u.ClearCity(handlers.Self)},
		{http.MethodPost, "/user/project/:projectId", authz.Anyone, u.SetProject(handlers.Self)},
		{http.MethodDelete, "/user/project/:projectId", authz.Anyone, u.ClearProject(handlers.Self)},
		{http.MethodPost, "/user/technologies/:technologyId", authz.Anyone, u.AddTechnology(handlers.Self)},
		{http.MethodDelete, "/user/technologies/:technologyId", authz.Anyone, u.RemoveTechnology(handlers.Self)},

		// Countries
		{http.MethodGet, "/countries", authz.Managers, h.countries.ListCountries},
		{http.MethodGet, "/countries/:id", authz.Managers, h.countries.GetCountry},
		{http.MethodPost, "/countries", authz.Admins, h.countries.CreateCountry},
		{http.MethodPut, "/countries/:id", authz.Admins, h.countries.UpdateCountry},
		{http.MethodDelete, "/countries/:id", authz.Admins, h.countries.DeleteCountry},
		{http.MethodPost, "/countries/:id/cities/:cityId", authz.Admins, h.countries.AddCity},
		{http.MethodDelete, "/countries/:id/cities/:cityId", authz.Admins, h.countries.RemoveCity},

		// Cities
		{http.MethodGet, "/cities", authz.Managers, h.cities.ListCities},
		{http.MethodGet, "/cities/:id", authz.Managers, h.cities.GetCity},
		{http.MethodPost, "/cities/:countryId", authz.Admins, h.cities.CreateCity},
		{http.MethodPut, "/cities/:id", authz.Admins, h.cities.UpdateCity},
		{http.MethodDelete, "/cities/:id", authz.Admins, h.cities.DeleteCity},

		// Technologies
		{http.MethodGet, "/technologies", authz.Managers, h.techs.ListTechnologies},
		{http.MethodGet, "/technologies/:id", authz.Managers, h.techs.GetTechnology},
		{http.MethodPost, "/technologies", authz.Admins, h.techs.CreateTechnology},
		{http.MethodPut, "/technologies/:id", authz.Admins, h.techs.UpdateTechnology},
		{http.MethodDelete, "/technologies/:id", authz.Admins, h.techs.DeleteTechnology},

		// Projects
		{http.MethodGet, "/projects", authz.Managers, h.projects.ListProjects},
		{http.MethodGet, "/projects/:id", authz.Managers, h.projects.GetProject},
		{http.MethodPost, "/projects", authz.Admins, h.projects.CreateProject},
		{http.MethodPut, "/projects/:id", authz.Admins, h.projects.UpdateProject},
		{http.MethodDelete, "/projects/:id", authz.Admins, h.projects.DeleteProject},
		{http.MethodPost, "/projects/:id/project_manager/:pmId", authz.Admins, h.projects.AssignManager},
		{http.MethodPatch, "/projects/:id", authz.Admins, h.projects.RemoveManager},

		// User administration
		{http.MethodGet, "/users", authz.Admins, u.ListUsers},
		{http.MethodGet, "/users/employees", authz.Admins, u.ListByRole(authz.RoleEmployee)},
		{http.MethodGet, "/users/admins", authz.Admins, u.ListByRole(authz.RoleAdmin)},
		{http.MethodGet, "/users/pm", authz.Admins, u.ListByRole(authz.RoleProjectManager)},
		{http.MethodGet, "/users/:id", authz.Admins, u.GetUser(handlers.PathUser)},
		{http.MethodPost, "/users", authz.Admins, u.CreateUser},
		{http.MethodPut, "/users/:id", authz.Admins, u.UpdateUser(handlers.PathUser)},
		{http.MethodDelete, "/users/:id", authz.Admins, u.DeleteUser},
		{http.MethodPatch, "/users/:id/role", authz.Admins, u.SetRole(handlers.PathUser)},
		{http.MethodPatch, "/users/:id/seniority", authz.Admins, u.SetSeniority(handlers.PathUser)},
		{http.MethodPatch, "/users/pm/:id", authz.Admins, u.Promote(authz.RoleProjectManager)},
		{http.MethodPatch, "/users/admin/:id", authz.Admins, u.Promote(authz.RoleAdmin)},
		{http.MethodPatch, "/users/employee/:id", authz.Admins, u.Promote(authz.RoleEmployee)},
		{http.MethodPost, "/users/:id/city/:cityId", authz.Admins, u.SetCity(handlers.PathUser)},
		{http.MethodDelete, "/users/:id/city/:cityId", authz.Admins, u.ClearCity(handlers.PathUser)},
		{http.MethodPost, "/users/:id/project/:projectId", authz.Admins, u.SetProject(handlers.PathUser)},
		{http.MethodDelete, "/users/:id/project/:projectId", authz.Admins, u.ClearProject(handlers.PathUser)},
		{http.MethodPost, "/users/:id/technologies/:technologyId", authz.Admins, u.AddTechnology(handlers.PathUser)},
		{http.MethodDelete, "/users/:id/technologies/:technologyId", authz.Admins, u.RemoveTechnology(handlers.PathUser)},

		// Directory
		{http.MethodGet, "/pm/employees", authz.Managers, h.directory.ListEmployees},
		{http.MethodGet, "/pm/employees/:id", authz.Managers, h.directory.GetEmployee},
		{http.MethodGet, "/pm/pm-employees", authz.Managers, h.directory.ListManagedEmployees},
		{http.MethodGet, "/pm/projects", authz.Managers, h.directory.ListProjects},
		{http.MethodGet, "/pm/pm-projects", authz.Managers, h.directory.ListManagedProjects},

		// Notes
		{http.MethodGet, "/notes", authz.Managers, h.directory.ListNotes},
		{http.MethodPost, "/notes/:employeeId", authz.Managers, h.directory.CreateNote},
	}
}
