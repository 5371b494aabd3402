package handler

import (
	"hospital-management-backend/internal/middleware"
	"hospital-management-backend/internal/models"
	"hospital-management-backend/pkg/monitoring"
	"hospital-management-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Handlers groups the HTTP handlers mounted under /api
type Handlers struct {
	Auth        *AuthHandler
	Patient     *PatientHandler
	Doctor      *DoctorHandler
	Appointment *AppointmentHandler
}

// RegisterRoutes mounts the API on r. devRoutes enables the
// development-only patient update endpoint.
func RegisterRoutes(r *gin.Engine, h Handlers, tokens middleware.TokenValidator, devRoutes bool) {
	r.GET("/metrics", monitoring.Handler())

	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, gin.H{
			"status":  "healthy",
			"service": "hospital-management-backend",
		})
	})

	users := api.Group("/users")
	{
		users.POST("", middleware.AuthMiddleware(tokens), middleware.RequireRoles(models.RoleAdmin), h.Auth.CreateUser)
		users.POST("/register", h.Auth.Register)
		users.POST("/login", h.Auth.Login)
		users.POST("/refresh", h.Auth.Refresh)
		users.POST("/logout", h.Auth.Logout)
		users.GET("/profile", middleware.AuthMiddleware(tokens), h.Auth.Profile)
		users.GET("/active-count", middleware.AuthMiddleware(tokens), h.Auth.ActiveCount)
	}

	if devRoutes {
		api.POST("/patients/:id/dev-update", h.Patient.DevUpdate)
	}

	patients := api.Group("/patients")
	patients.Use(middleware.AuthMiddleware(tokens))
	{
		patients.POST("", middleware.RequireRoles(models.RoleAdmin, models.RoleReceptionist), h.Patient.Register)
		patients.GET("", h.Patient.List)
		patients.GET("/pending-count", h.Patient.PendingCount)
		patients.GET("/billing-summary", middleware.RequireRoles(models.RoleAdmin), h.Patient.BillingSummary)
		patients.GET("/search", h.Patient.Search)
		patients.GET("/:id", h.Patient.Get)
		patients.PUT("/:id", h.Patient.Update)
	}

	doctors := api.Group("/doctors")
	doctors.Use(middleware.AuthMiddleware(tokens))
	{
		doctors.POST("", middleware.RequireRoles(models.RoleAdmin, models.RoleReceptionist), h.Doctor.Create)
		doctors.GET("", h.Doctor.List)
	}

	appointments := api.Group("/appointments")
	appointments.Use(middleware.AuthMiddleware(tokens))
	{
		appointments.POST("", h.Appointment.Book)
		appointments.GET("", h.Appointment.List)
		appointments.GET("/today-count", h.Appointment.TodayCount)
	}
}
