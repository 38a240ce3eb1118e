package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"actionhub/backend/internal/analyzer"
	"actionhub/backend/internal/config"
	"actionhub/backend/internal/graph"
	"actionhub/backend/internal/logger"
	"actionhub/backend/internal/pipeline"
	"actionhub/backend/internal/service"
	"actionhub/backend/internal/storage"
	"actionhub/backend/internal/storage/filesystem"
	"actionhub/backend/internal/storage/memory"
	"actionhub/backend/internal/storage/redis"
)

// main 执行一次完整的同步后退出。
//
// 首次使用需要完成授权引导：
//  1. 不带参数运行，程序会打印授权地址
//  2. 浏览器完成授权后，用 -auth-code 传入授权码
//  3. 刷新令牌写入缓存文件，之后的同步无需再授权
func main() {
	authCode := flag.String("auth-code", "", "OAuth2 授权码（仅首次引导需要）")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("错误: 无法加载配置: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	})
	if err != nil {
		fmt.Printf("错误: 无法初始化日志: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	tokens := graph.NewTokenProvider(cfg.Graph)

	// 授权码引导
	if *authCode != "" {
		if err := tokens.Exchange(ctx, *authCode); err != nil {
			fmt.Printf("错误: 授权码换取令牌失败: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("✓ 授权成功，刷新令牌已写入缓存文件")
	}

	store, err := openStorage(cfg)
	if err != nil {
		fmt.Printf("错误: 无法初始化存储: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	emailAnalyzer, err := analyzer.New(analyzer.DefaultPatterns())
	if err != nil {
		fmt.Printf("错误: 无法初始化分析器: %v\n", err)
		os.Exit(1)
	}

	var policy pipeline.PriorityPolicy = pipeline.RulePolicy{}
	if cfg.Pipeline.PriorityPolicy == "random" {
		policy = pipeline.NewRandomPolicy(cfg.Pipeline.PrioritySeed)
	}

	source := graph.NewClient(cfg.Graph, tokens, nil, log)
	engine := pipeline.NewEngine(emailAnalyzer, log)
	deriver := pipeline.NewDeriver(policy, nil)
	inbox := service.NewInboxService(store, source, engine, deriver, nil, log)

	result, err := inbox.Sync(ctx)
	if err != nil {
		if errors.Is(err, graph.ErrNoRefreshToken) {
			fmt.Println("尚未授权，请先完成授权引导：")
			fmt.Printf("  1. 打开授权地址: %s\n", tokens.AuthCodeURL())
			fmt.Println("  2. 授权后用授权码重新运行: sync -auth-code=<code>")
			os.Exit(1)
		}
		fmt.Printf("错误: 同步失败: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ 同步完成: 新增 %d 封，跳过 %d 封，当前共 %d 封\n",
		result.Ingested, result.Skipped, result.Total)
	fmt.Printf("✓ 派生产物: %d 个任务，%d 个附件\n", result.Tasks, result.Attachments)
}

// openStorage 根据配置打开存储后端
func openStorage(cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Type {
	case "memory":
		return memory.NewStore(), nil
	case "redis":
		return redis.NewStore(&cfg.Redis)
	default:
		return filesystem.NewStore(cfg.Storage.BasePath)
	}
}
