package httptransport

import (
	"net/http"
	"time"

	gincors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"actionhub/backend/internal/config"
	"actionhub/backend/internal/health"
	"actionhub/backend/internal/middleware"
	"actionhub/backend/internal/monitoring"
	"actionhub/backend/internal/service"
)

// RouterDependencies 路由器依赖项
type RouterDependencies struct {
	Config        *config.Config
	InboxService  *service.InboxService
	HealthChecker *health.HealthChecker
	Metrics       *monitoring.Metrics
	Logger        *zap.Logger
}

// NewRouter 创建并返回 Gin 路由实例。
func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.New()

	// 使用自定义中间件替代默认中间件
	monitoringMW := middleware.NewMonitoringMiddleware(deps.Metrics, deps.Logger)
	router.Use(monitoringMW.PanicRecovery())
	router.Use(monitoringMW.HTTPMetrics())
	router.Use(monitoringMW.RateLimitMetrics())
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.BodySizeLimit(middleware.DefaultBodyLimit))

	// CORS 配置
	corsConfig := gincors.Config{
		AllowOrigins:     deps.Config.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	// 如果允许所有来源，则需清空凭证支持。
	for _, origin := range corsConfig.AllowOrigins {
		if origin == "*" {
			corsConfig.AllowCredentials = false
			break
		}
	}
	router.Use(gincors.New(corsConfig))

	handler := NewInboxHandler(deps.InboxService)

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/live", gin.WrapF(deps.HealthChecker.LiveHandler()))
	router.GET("/ready", gin.WrapF(deps.HealthChecker.ReadyHandler()))

	// Prometheus 指标
	router.GET("/metrics", gin.WrapH(deps.Metrics.HTTPHandler()))

	// V1 API
	v1 := router.Group("/v1")
	{
		syncRateLimit := middleware.SyncRateLimit(deps.Config.Sync.RateLimit, deps.Config.Sync.RateBurst,
			func(c *gin.Context) {
				TooManyRequests(c, MsgSyncRateLimited)
			})

		// 邮件列表会先触发同步，与同步端点共用限流
		v1.GET("/emails", syncRateLimit, handler.listEmails)
		v1.POST("/sync", syncRateLimit, handler.triggerSync)

		v1.GET("/tasks", handler.listTasks)
		v1.GET("/attachments", handler.listAttachments)
	}

	return router
}
