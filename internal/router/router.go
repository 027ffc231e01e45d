package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/opencampus/admission-backend/internal/config"
	"github.com/opencampus/admission-backend/internal/handler"
	"github.com/opencampus/admission-backend/internal/middleware"
	"github.com/opencampus/admission-backend/internal/model"
	"github.com/opencampus/admission-backend/internal/response"
	"github.com/opencampus/admission-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Applicant  *handler.ApplicantHandler
	Schedule   *handler.ScheduleHandler
	Assignment *handler.AssignmentHandler
	Roster     *handler.RosterHandler
	Course     *handler.CourseHandler
	Venue      *handler.VenueHandler
	AdminUser  *handler.AdminUserHandler
	AdminRole  *handler.AdminRoleHandler
	Monitor    *handler.MonitorHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for login (10 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", authLimiter.Middleware(), handlers.Auth.Login)
		auth.GET("/me", middleware.RequireJWT(authService), handlers.Auth.GetProfile)
	}

	// ─── 2. WebSocket Group (Query-Token Auth) ─────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(authService))
	{
		ws.GET("/schedules/:id/occupancy", handlers.Monitor.OccupancyStream)
	}

	// ─── 3. API Group (JWT + RBAC) ─────────────────────────────────────
	api := router.Group("/api/v1")
	api.Use(middleware.RequireJWT(authService))
	{
		// Applicant pipeline
		api.GET("/applicants",
			middleware.RequirePermission(model.PermissionApplicantsRead),
			handlers.Applicant.List,
		)
		api.GET("/applicants/:id",
			middleware.RequirePermission(model.PermissionApplicantsRead),
			handlers.Applicant.Get,
		)
		api.GET("/applicants/:id/history",
			middleware.RequirePermission(model.PermissionApplicantsRead),
			handlers.Applicant.History,
		)
		api.POST("/applicants",
			middleware.RequirePermission(model.PermissionApplicantsWrite),
			handlers.Applicant.Create,
		)
		api.POST("/applicants/:id/verify",
			middleware.RequirePermission(model.PermissionApplicantsWrite),
			handlers.Applicant.Verify,
		)
		api.POST("/applicants/:id/course",
			middleware.RequirePermission(model.PermissionApplicantsWrite),
			handlers.Applicant.AssignCourse,
		)

		// Schedules
		api.GET("/schedules",
			middleware.RequirePermission(model.PermissionSchedulesRead),
			handlers.Schedule.List,
		)
		api.GET("/schedules/conflicts",
			middleware.RequirePermission(model.PermissionSchedulesRead),
			handlers.Schedule.CheckConflicts,
		)
		api.GET("/schedules/:id",
			middleware.RequirePermission(model.PermissionSchedulesRead),
			handlers.Schedule.Get,
		)
		api.GET("/schedules/:id/roster",
			middleware.RequirePermission(model.PermissionSchedulesRead),
			handlers.Schedule.Roster,
		)
		api.POST("/schedules",
			middleware.RequirePermission(model.PermissionSchedulesWrite),
			handlers.Schedule.Create,
		)
		api.PUT("/schedules/:id",
			middleware.RequirePermission(model.PermissionSchedulesWrite),
			handlers.Schedule.Update,
		)
		api.DELETE("/schedules/:id",
			middleware.RequirePermission(model.PermissionSchedulesWrite),
			handlers.Schedule.Delete,
		)

		// Assignment engine
		api.POST("/schedules/:id/assignments",
			middleware.RequirePermission(model.PermissionAssignmentsWrite),
			handlers.Assignment.Assign,
		)
		api.POST("/schedules/:id/auto-assign",
			middleware.RequirePermission(model.PermissionAssignmentsWrite),
			handlers.Assignment.AutoAssign,
		)
		api.POST("/assignments/:id/complete",
			middleware.RequirePermission(model.PermissionAssignmentsWrite),
			handlers.Assignment.Complete,
		)
		api.POST("/assignments/:id/cancel",
			middleware.RequirePermission(model.PermissionAssignmentsWrite),
			handlers.Assignment.Cancel,
		)

		// Bulk roster import/export
		api.POST("/schedules/:id/roster/import",
			middleware.RequirePermission(model.PermissionRosterImport),
			handlers.Roster.Import,
		)
		api.GET("/schedules/:id/roster/export",
			middleware.RequirePermission(model.PermissionRosterExport),
			handlers.Roster.Export,
		)

		// Course catalog
		coursesGroup := api.Group("/courses")
		{
			coursesGroup.GET("", middleware.RequirePermission(model.PermissionCoursesRead), handlers.Course.List)
			coursesGroup.GET("/:id", middleware.RequirePermission(model.PermissionCoursesRead), handlers.Course.Get)
			coursesGroup.POST("", middleware.RequirePermission(model.PermissionCoursesWrite), handlers.Course.Create)
			coursesGroup.PUT("/:id", middleware.RequirePermission(model.PermissionCoursesWrite), handlers.Course.Update)
			coursesGroup.DELETE("/:id", middleware.RequirePermission(model.PermissionCoursesWrite), handlers.Course.Delete)
		}

		// Venues
		venuesGroup := api.Group("/venues")
		{
			venuesGroup.GET("", middleware.RequirePermission(model.PermissionVenuesRead), handlers.Venue.List)
			venuesGroup.GET("/:id", middleware.RequirePermission(model.PermissionVenuesRead), handlers.Venue.Get)
			venuesGroup.POST("", middleware.RequirePermission(model.PermissionVenuesWrite), handlers.Venue.Create)
			venuesGroup.PUT("/:id", middleware.RequirePermission(model.PermissionVenuesWrite), handlers.Venue.Update)
			venuesGroup.DELETE("/:id", middleware.RequirePermission(model.PermissionVenuesWrite), handlers.Venue.Delete)
		}

		// Staff account management
		api.GET("/admins",
			middleware.RequirePermission(model.PermissionAdminsRead),
			handlers.AdminUser.List,
		)
		api.POST("/admins",
			middleware.RequirePermission(model.PermissionAdminsWrite),
			handlers.AdminUser.Create,
		)
		api.DELETE("/admins/:id",
			middleware.RequirePermission(model.PermissionAdminsWrite),
			handlers.AdminUser.Delete,
		)

		// Role management
		api.GET("/roles",
			middleware.RequireAnyPermission(model.PermissionRolesRead, model.PermissionAdminsRead),
			handlers.AdminRole.List,
		)
		api.GET("/roles/permissions",
			middleware.RequirePermission(model.PermissionRolesRead),
			handlers.AdminRole.Permissions,
		)
		api.GET("/roles/:id",
			middleware.RequirePermission(model.PermissionRolesRead),
			handlers.AdminRole.Get,
		)
		api.POST("/roles",
			middleware.RequirePermission(model.PermissionRolesWrite),
			handlers.AdminRole.Create,
		)
		api.PUT("/roles/:id",
			middleware.RequirePermission(model.PermissionRolesWrite),
			handlers.AdminRole.Update,
		)
		api.DELETE("/roles/:id",
			middleware.RequirePermission(model.PermissionRolesWrite),
			handlers.AdminRole.Delete,
		)
	}

	return router
}
