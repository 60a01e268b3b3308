package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/johnquangdev/meeting-intel/internal/adapter/dto/common"
	httpmw "github.com/johnquangdev/meeting-intel/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-intel/pkg/config"
)

// apiPrefixes are never answered by the SPA fallback
var apiPrefixes = []string{"/api/", "/upload", "/prepare", "/meeting/", "/export-pdf/", "/swagger/", "/health"}

// Router holds all handlers
type Router struct {
	cfg     *config.Config
	auth    *Auth
	meeting *Meeting
	report  *Report
	authMW  *httpmw.AuthMiddleware
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, auth *Auth, meeting *Meeting, report *Report, authMW *httpmw.AuthMiddleware) *Router {
	return &Router{
		cfg:     cfg,
		auth:    auth,
		meeting: meeting,
		report:  report,
		authMW:  authMW,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	rt.setupAuthRoutes(e.Group("/api/auth"))
	rt.setupMeetingRoutes(e)

	e.GET("/export-pdf/:meetingId", rt.report.ExportPDF)

	if rt.cfg != nil && rt.cfg.Server.StaticDir != "" {
		e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
			Root:    rt.cfg.Server.StaticDir,
			HTML5:   true,
			Skipper: isAPIRequest,
		}))
	}
}

// setupAuthRoutes configures authentication routes
func (rt *Router) setupAuthRoutes(g *echo.Group) {
	g.POST("/register", rt.auth.Register)
	g.POST("/verify-email", rt.auth.VerifyEmail)
	g.POST("/login", rt.auth.Login)
	g.POST("/logout", rt.auth.Logout, rt.authMW.OptionalAuth)
	g.GET("/me", rt.auth.Me)
	g.GET("/google", rt.auth.GoogleLogin)
	g.GET("/google/callback", rt.auth.GoogleCallback)
}

// setupMeetingRoutes configures upload, preparation and history routes
func (rt *Router) setupMeetingRoutes(e *echo.Echo) {
	e.POST("/upload", rt.meeting.Upload, rt.authMW.OptionalAuth)
	e.POST("/upload-whatsapp", rt.meeting.UploadWhatsApp, rt.authMW.OptionalAuth)
	e.POST("/prepare", rt.meeting.Prepare, rt.authMW.OptionalAuth)
	e.GET("/meeting/:id", rt.meeting.Get)
	e.GET("/api/history", rt.meeting.History, rt.authMW.RequireAuth)
}

// healthCheck godoc
// @Summary  Liveness probe
// @Tags     Health
// @Produce  json
// @Success  200  {object}  common.HealthResponse
// @Router   /health [get]
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, common.HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

func isAPIRequest(c echo.Context) bool {
	if c.Request().Method != http.MethodGet && c.Request().Method != http.MethodHead {
		return true
	}
	path := c.Request().URL.Path
	for _, prefix := range apiPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
