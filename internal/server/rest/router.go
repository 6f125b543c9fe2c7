// Package rest exposes the timekeeper services over HTTP using gin.
package rest

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/timekeeper/internal/logging"
	"github.com/dmitrijs2005/timekeeper/internal/server/models"
	"github.com/gin-gonic/gin"
)

// Deps wires the router to its collaborators.
type Deps struct {
	Users   UserService
	Time    TimeService
	Reports ReportService
	Events  Subscriber

	Secret         []byte
	Logger         logging.Logger
	Metrics        *Metrics
	AuthRateLimit  int64
	AllowedOrigins []string
	TrustedProxies []string
}

// NewRouter builds the gin engine with every route under /api plus
// /healthz and /metrics. Forwarded client addresses are honoured only from
// d.TrustedProxies.
func NewRouter(d Deps) (*gin.Engine, error) {
	registerValidators()

	if d.Logger == nil {
		d.Logger = logging.Nop{}
	}
	if d.Metrics == nil {
		d.Metrics = NewMetrics()
	}

	h := &handlers{users: d.Users, time: d.Time, reports: d.Reports, events: d.Events}

	r := gin.New()
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(
		gin.Recovery(),
		RequestIDMiddleware(),
		LoggerMiddleware(d.Logger),
		CORSMiddleware(d.AllowedOrigins),
		d.Metrics.Middleware(),
	)

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	api := r.Group("/api")

	authGroup := api.Group("/auth", RateLimitMiddleware(d.AuthRateLimit))
	authGroup.POST("/register", h.register)
	authGroup.POST("/login", h.login)

	api.GET("/events", Authenticate(d.Secret, true), h.stream)

	timeGroup := api.Group("/time", Authenticate(d.Secret, false))
	timeGroup.POST("/clock-in", h.clockIn)
	timeGroup.POST("/clock-out", h.clockOut)
	timeGroup.POST("/break-start", h.breakStart)
	timeGroup.POST("/break-end", h.breakEnd)
	timeGroup.GET("/today", h.today)
	timeGroup.GET("/week", h.week)
	timeGroup.GET("/range", h.timeRange)

	admin := api.Group("/admin", Authenticate(d.Secret, false), RequireRole(models.RoleAdmin))
	admin.GET("/export", h.exportCSV)
	admin.GET("/export-pdf", h.exportPDF)
	admin.POST("/approve/:id", h.approve)
	admin.GET("/hours-per-user", h.hoursPerUser)
	admin.POST("/logs", h.createManualLog)

	users := api.Group("/users", Authenticate(d.Secret, false), RequireRole(models.RoleAdmin))
	users.GET("", h.listUsers)
	users.POST("", h.createUser)

	return r, nil
}
