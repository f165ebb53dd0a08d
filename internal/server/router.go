package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pulseboard/heartbeat/internal/auth"
	"github.com/pulseboard/heartbeat/internal/ledger"
	"github.com/pulseboard/heartbeat/internal/server/db"
	"github.com/pulseboard/heartbeat/internal/server/handler"
)

// NewRouter creates and configures the Gin router with all routes.
func NewRouter(store *db.Store, cfg *Config, authn *auth.Authenticator) *gin.Engine {
	r := gin.Default()

	if len(cfg.CORSOrigins) > 0 {
		r.Use(CORS(cfg.CORSOrigins))
	}

	metrics := NewMetrics()
	r.Use(metrics.Middleware())

	r.GET("/", func(c *gin.Context) {
		c.String(200, "ok")
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	engine := ledger.NewEngine(store)
	verified := SubjectAuth(authn)

	api := r.Group("/api")
	{
		// Liveness reporting and the identity exchange bypass Verify; the
		// dashboard is anonymized and intentionally open.
		api.POST("/heartbeat", handler.HandleHeartbeat(engine, metrics))
		api.POST("/oauth", handler.HandleOAuth(authn))
		api.GET("/dashboard", handler.HandleDashboard(store))

		api.GET("/query", verified, handler.HandleQuery(store))
		api.POST("/adjust", verified, handler.HandleAdjust(store))
		api.POST("/create", verified, handler.HandleCreate(store))
		api.POST("/validate", verified, handler.HandleValidate(store))
	}

	return r
}
