package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"actionhub/backend/internal/analyzer"
	"actionhub/backend/internal/config"
	"actionhub/backend/internal/graph"
	"actionhub/backend/internal/health"
	"actionhub/backend/internal/logger"
	"actionhub/backend/internal/monitoring"
	"actionhub/backend/internal/pipeline"
	"actionhub/backend/internal/service"
	"actionhub/backend/internal/storage"
	"actionhub/backend/internal/storage/filesystem"
	"actionhub/backend/internal/storage/memory"
	"actionhub/backend/internal/storage/redis"
	httptransport "actionhub/backend/internal/transport/http"
)

// main 启动收件箱分析服务的 HTTP API。
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 设置 Gin 模式（基于开发环境标志）
	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// 初始化日志系统
	log, err := logger.NewLogger(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
		LogFile:     "",
		MaxSize:     100,
		MaxBackups:  3,
		MaxAge:      28,
		Compress:    true,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	log.Info("starting actionhub server",
		zap.String("log_level", cfg.Log.Level),
		zap.Bool("development", cfg.Log.Development),
	)

	// 初始化存储层
	store, err := initializeStorage(cfg, log)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize storage: %v", err))
	}
	defer store.Close()

	// 初始化监控系统
	metrics := monitoring.NewMetrics()

	// 初始化健康检查
	healthChecker := health.NewHealthChecker(store, log)

	// 初始化分析管线
	emailAnalyzer, err := analyzer.New(analyzer.DefaultPatterns())
	if err != nil {
		panic(fmt.Sprintf("failed to initialize analyzer: %v", err))
	}
	engine := pipeline.NewEngine(emailAnalyzer, log)
	deriver := pipeline.NewDeriver(priorityPolicy(cfg), nil)

	// 初始化邮件源
	tokens := graph.NewTokenProvider(cfg.Graph)
	source := graph.NewClient(cfg.Graph, tokens, metrics, log)

	// 初始化服务层
	inboxService := service.NewInboxService(store, source, engine, deriver, metrics, log)

	// 创建 HTTP 服务器
	httpAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	router := httptransport.NewRouter(httptransport.RouterDependencies{
		Config:        cfg,
		InboxService:  inboxService,
		HealthChecker: healthChecker,
		Metrics:       metrics,
		Logger:        log,
	})

	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// 信号处理
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	// HTTP 服务器 goroutine
	group.Go(func() error {
		log.Info("starting HTTP server", zap.String("address", httpAddr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", zap.Error(err))
			return err
		}
		return nil
	})

	// 周期同步 goroutine（仅在配置了间隔时启动）
	if cfg.Sync.Interval > 0 {
		group.Go(func() error {
			ticker := time.NewTicker(cfg.Sync.Interval)
			defer ticker.Stop()

			log.Info("starting periodic sync task", zap.Duration("interval", cfg.Sync.Interval))

			for {
				select {
				case <-groupCtx.Done():
					log.Info("periodic sync task stopped")
					return nil
				case <-ticker.C:
					if _, err := inboxService.Sync(groupCtx); err != nil {
						log.Error("periodic sync failed", zap.Error(err))
					}
				}
			}
		})
	}

	// 优雅关闭 goroutine
	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutdown signal received, gracefully shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP server shutdown error", zap.Error(err))
		}

		log.Info("server stopped")
		return nil
	})

	// 等待所有 goroutine 完成
	if err := group.Wait(); err != nil && err != context.Canceled {
		log.Fatal("server error", zap.Error(err))
	}

	log.Info("server exited cleanly")
}

// initializeStorage 根据配置选择存储后端
func initializeStorage(cfg *config.Config, log *zap.Logger) (storage.Store, error) {
	switch cfg.Storage.Type {
	case "memory":
		log.Info("using memory storage (development mode)")
		return memory.NewStore(), nil
	case "redis":
		log.Info("using redis storage", zap.String("address", cfg.Redis.Address))
		return redis.NewStore(&cfg.Redis)
	default:
		log.Info("using filesystem storage", zap.String("path", cfg.Storage.BasePath))
		return filesystem.NewStore(cfg.Storage.BasePath)
	}
}

// priorityPolicy 根据配置选择任务优先级策略
func priorityPolicy(cfg *config.Config) pipeline.PriorityPolicy {
	if cfg.Pipeline.PriorityPolicy == "random" {
		return pipeline.NewRandomPolicy(cfg.Pipeline.PrioritySeed)
	}
	return pipeline.RulePolicy{}
}
