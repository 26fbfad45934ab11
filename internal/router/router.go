package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"campusdesk/internal/cache"
	"campusdesk/internal/config"
	"campusdesk/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	complaintHandler *handler.ComplaintHandler,
	cacheClient *cache.Client,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = &CustomValidator{validator: validator.New()}

	// The cache is fail-safe, so a dead redis degrades the report but not the
	// status code.
	e.GET("/healthz", func(c echo.Context) error {
		health := map[string]string{"status": "ok", "cache": "down"}
		if cacheClient.Healthy(c.Request().Context()) {
			health["cache"] = "up"
		}
		return c.JSON(http.StatusOK, health)
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Auth routes. Admin registration and the bulk student delete are
	// deliberately unguarded operator surfaces; see DESIGN.md.
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/register-admin", authHandler.RegisterAdmin)
	api.POST("/auth/admin-login", authHandler.AdminLogin)
	api.POST("/auth/upload-photo", authHandler.UploadPhoto)
	api.PUT("/auth/update-profile", authHandler.UpdateProfile)
	api.POST("/auth/forgot-password", authHandler.ForgotPassword)
	api.POST("/auth/reset-password", authHandler.ResetPassword)
	api.DELETE("/auth/delete-all-students", authHandler.DeleteAllStudents)

	// Complaint routes
	api.POST("/complaints", complaintHandler.Create)
	api.GET("/complaints", complaintHandler.List)
	api.GET("/complaints/search", complaintHandler.Search)
	api.GET("/complaints/student/:studentId", complaintHandler.ListByStudent)
	api.PUT("/complaints/:id/status", complaintHandler.UpdateStatus)
	api.PUT("/complaints/:id", complaintHandler.Update)
	api.DELETE("/complaints/:id", complaintHandler.Delete)

	// Frontend and stored attachments come straight off disk.
	e.Static("/uploads", cfg.UploadDir)
	e.Static("/", cfg.StaticDir)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
