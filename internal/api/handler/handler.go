// Package handler exposes the REST surface of the platform: account and
// auth endpoints, the public car and report endpoints, and the admin panel.
package handler

import (
	"errors"
	"net/http"

	"carwatch/backend/internal/config"
	"carwatch/backend/internal/errs"
	"carwatch/backend/internal/lifecycle"
	"carwatch/backend/internal/localization"
	"carwatch/backend/internal/notify"
	"carwatch/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// Handler carries the collaborators every endpoint needs.
type Handler struct {
	Storage   storage.Storage
	Lifecycle *lifecycle.Service
	Hub       notify.Publisher
	Localizer *localization.Localizer
	Cfg       *config.Config
}

func NewHandler(s storage.Storage, lc *lifecycle.Service, hub notify.Publisher, loc *localization.Localizer, cfg *config.Config) *Handler {
	return &Handler{
		Storage:   s,
		Lifecycle: lc,
		Hub:       hub,
		Localizer: loc,
		Cfg:       cfg,
	}
}

// RegisterRoutes wires every endpoint onto the gin engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	users := r.Group("/api/users")
	{
		users.POST("/register", h.Register)
		users.POST("/login", h.Login)
		users.POST("/logout", h.Authenticate(), h.Logout)
		users.GET("/me", h.Authenticate(), h.Me)
		users.PUT("/update", h.Authenticate(), h.UpdateProfile)
		users.PUT("/change-password", h.Authenticate(), h.ChangePassword)
		users.PUT("/update-fcm-token", h.Authenticate(), h.UpdateFCMToken)
	}

	cars := r.Group("/api/cars")
	{
		cars.GET("", h.ListCars)
		cars.GET("/search", h.SearchCars)
		cars.GET("/stats/summary", h.CarStats)
		cars.GET("/user/my-cars", h.Authenticate(), h.MyCars)
		cars.GET("/:id", h.GetCar)
		cars.POST("", h.Authenticate(), h.CreateCar)
		cars.PUT("/:id", h.Authenticate(), h.UpdateCar)
		cars.DELETE("/:id", h.Authenticate(), h.DeleteCar)
	}

	reports := r.Group("/api/reports")
	{
		reports.POST("", h.Authenticate(), h.CreateReport)
		reports.GET("/car/:carId", h.ListCarReports)
		reports.GET("/stats/summary", h.ReportStats)
		reports.GET("/user/my-reports", h.Authenticate(), h.MyReports)
		reports.GET("/:id", h.GetReport)
		reports.PUT("/:id/status", h.Authenticate(), h.SetReportStatus)
	}

	admin := r.Group("/api/admin")
	{
		admin.POST("/login", h.AdminLogin)
		admin.POST("/create-admin", h.Authenticate(), h.CreateAdmin)

		gated := admin.Group("", h.Authenticate(), h.RequireAdmin())
		gated.GET("/dashboard", h.Dashboard)
		gated.GET("/feed", h.ServeFeed)
		gated.GET("/users", h.ListUsers)
		gated.PUT("/users/:id/role", h.SetUserRole)
		gated.PUT("/users/:id/status", h.SetUserActive)
		gated.PUT("/cars/:id/verify", h.VerifyCar)
		gated.PUT("/cars/:id/status", h.SetCarStatus)
	}

	r.Static("/uploads", h.Cfg.UploadDir)
}

// lang resolves the response language for a request.
func (h *Handler) lang(c *gin.Context) string {
	return localization.PickLanguage(c.GetHeader("Accept-Language"))
}

// msg returns the localized message for a key.
func (h *Handler) msg(c *gin.Context, key string) string {
	return h.Localizer.Message(h.lang(c), key)
}

// fail maps an error to its HTTP status and writes the localized body.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"message": h.msg(c, "invalid_request")})
	case errors.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": h.msg(c, "not_found")})
	case errors.Is(err, errs.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": h.msg(c, "forbidden")})
	case errors.Is(err, errs.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"message": h.msg(c, "login_required")})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": h.msg(c, "server_error")})
	}
}
