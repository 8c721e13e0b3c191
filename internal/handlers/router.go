package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/devtrack/internal/authz"
	"github.com/yukikurage/devtrack/internal/middleware"
	"github.com/yukikurage/devtrack/internal/models"
	"github.com/yukikurage/devtrack/internal/repository"
	"github.com/yukikurage/devtrack/internal/services"
	"gorm.io/gorm"
)

// Server holds every handler wired to one database.
type Server struct {
	log *logrus.Logger

	authService *services.AuthService

	Auth         *AuthHandler
	Users        *UserHandler
	Teams        *TeamHandler
	Organisation *OrganisationHandler
	Entries      *EntryHandler
}

// NewServer wires repositories, the permission engine and services.
func NewServer(db *gorm.DB, log *logrus.Logger) *Server {
	dir := repository.NewDirectory(db)
	engine := authz.NewEngine(dir)

	authService := services.NewAuthService(repository.NewUserRepository(db), log)
	userService := services.NewUserService(dir, repository.NewUserRepository(db), engine, log)
	lifecycleService := services.NewLifecycleService(dir, engine, log)
	membershipService := services.NewMembershipService(dir, engine, log)
	teamService := services.NewTeamService(dir, repository.NewTeamRepository(db), engine, log)
	orgService := services.NewOrganisationService(dir, repository.NewOrganisationRepository(db), engine, log)
	entryService := services.NewEntryService(dir, repository.NewEntryRepository(db), engine, log)

	return &Server{
		log:          log,
		authService:  authService,
		Auth:         NewAuthHandler(authService),
		Users:        NewUserHandler(userService, lifecycleService),
		Teams:        NewTeamHandler(teamService, membershipService),
		Organisation: NewOrganisationHandler(orgService),
		Entries:      NewEntryHandler(entryService),
	}
}

// Register mounts the health check and the /api routes. The session
// middleware must already be installed on r.
func (s *Server) Register(r gin.IRouter) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "devtrack is running",
		})
	})

	authed := []gin.HandlerFunc{middleware.RequireAuth(), middleware.LoadActor(s.authService, s.log)}
	id := middleware.RequireIDParams("id")
	idAndUser := middleware.RequireIDParams("id", "user_id")

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", s.Auth.Signup)
			auth.POST("/login", s.Auth.Login)
			auth.POST("/logout", s.Auth.Logout)
			auth.GET("/me", append(authed, s.Auth.GetCurrentUser)...)
		}

		users := api.Group("/users")
		users.Use(authed...)
		{
			users.GET("", middleware.RequireRole(models.RoleAdmin), s.Users.ListUsers)
			users.GET("/:id", id, middleware.RequireRole(models.RoleAdmin), s.Users.GetUser)
			users.POST("/:id/archive", id, s.Users.ArchiveUser)
			users.POST("/:id/unarchive", id, s.Users.UnarchiveUser)
			users.DELETE("/:id", id, s.Users.DeleteUser)
			users.PUT("/:id/role", id, middleware.RequireRole(models.RoleAdmin), s.Users.UpdateUserRole)
		}

		orgs := api.Group("/organisations")
		orgs.Use(authed...)
		orgs.Use(middleware.RequireRole(models.RoleAdmin))
		{
			orgs.POST("", s.Organisation.CreateOrganisation)
			orgs.GET("/:id/departments", id, s.Organisation.ListDepartments)
			orgs.POST("/:id/departments", id, s.Organisation.CreateDepartment)
		}

		teams := api.Group("/teams")
		teams.Use(authed...)
		{
			teams.POST("", s.Teams.CreateTeam)
			teams.GET("/:id", id, s.Teams.GetTeam)
			teams.PUT("/:id", id, s.Teams.UpdateTeam)
			teams.DELETE("/:id", id, s.Teams.DeleteTeam)
			teams.POST("/:id/members", id, s.Teams.AddMember)
			teams.GET("/:id/members/:user_id", idAndUser, s.Teams.GetMember)
			teams.DELETE("/:id/members/:user_id", idAndUser, s.Teams.RemoveMember)
			teams.POST("/:id/managers", id, s.Teams.AssignManager)
			teams.DELETE("/:id/managers/:user_id", idAndUser, s.Teams.UnassignManager)
			teams.POST("/:id/partners", id, s.Teams.AssignPartner)
			teams.DELETE("/:id/partners/:user_id", idAndUser, s.Teams.UnassignPartner)
		}

		entries := api.Group("/entries")
		entries.Use(authed...)
		{
			entries.GET("", s.Entries.ListEntries)
			entries.POST("", s.Entries.CreateEntry)
			entries.POST("/:id/documents", id, s.Entries.AttachDocument)
		}
	}
}
