package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ServerConfig 定义 HTTP 服务器的监听配置参数
type ServerConfig struct {
	Host string // 监听地址，默认 "0.0.0.0"
	Port int    // 监听端口，默认 8080
}

// CORSConfig 定义跨域资源共享 (CORS) 配置
type CORSConfig struct {
	AllowedOrigins []string // 允许的来源列表，"*" 表示允许所有来源
}

// LogConfig 定义日志系统配置
type LogConfig struct {
	Level       string // 日志级别: debug, info, warn, error
	Development bool   // 开发模式: 启用彩色输出和详细堆栈信息
}

// StorageConfig 定义邮件 / 投影存储后端配置
type StorageConfig struct {
	Type     string // 存储类型: "filesystem"（默认）、"memory" 或 "redis"
	BasePath string // filesystem 后端的数据目录，默认 "./data"
}

// RedisConfig 定义 Redis 存储后端配置
type RedisConfig struct {
	Address  string // Redis 服务地址，格式 "host:port"，默认 "localhost:6379"
	Password string // Redis 认证密码，留空表示无密码
	DB       int    // Redis 数据库编号，默认 0
}

// GraphConfig 定义 Microsoft Graph 邮件源配置
type GraphConfig struct {
	ClientID         string        // 应用注册的 client id
	ClientSecret     string        // 应用注册的 client secret
	Scopes           []string      // 请求的权限范围
	RefreshTokenFile string        // 刷新令牌缓存文件路径
	Timeout          time.Duration // 单次请求超时，默认 30s
}

// PipelineConfig 定义分析管线行为配置
type PipelineConfig struct {
	PriorityPolicy string // 任务优先级策略: "rule"（默认，确定性）或 "random"（对齐历史行为）
	PrioritySeed   int64  // random 策略的随机种子，0 表示取当前时间
}

// SyncConfig 定义同步行为配置
type SyncConfig struct {
	Interval  time.Duration // 周期同步间隔，0 表示仅按需同步
	RateLimit float64       // 同步端点每秒允许的请求数
	RateBurst int           // 同步端点的突发额度
}

// Config 是系统核心配置的根结构体，包含所有子系统的配置
type Config struct {
	Server   ServerConfig   // HTTP 服务器配置
	CORS     CORSConfig     // 跨域配置
	Log      LogConfig      // 日志配置
	Storage  StorageConfig  // 存储后端配置
	Redis    RedisConfig    // Redis 配置
	Graph    GraphConfig    // 邮件源配置
	Pipeline PipelineConfig // 管线配置
	Sync     SyncConfig     // 同步配置
}

// Load 从环境变量和 .env 文件加载系统配置
//
// 配置加载优先级（从高到低）：
//  1. 系统环境变量（最高优先级）
//  2. .env 文件（如果存在）
//  3. 默认值
//
// 环境变量前缀: ACTIONHUB_
// 例如: ACTIONHUB_SERVER_PORT, ACTIONHUB_GRAPH_CLIENT_ID
func Load() (*Config, error) {
	// 尝试加载 .env 文件（静默失败，因为 .env 文件是可选的）
	loadEnvFile()

	viper.SetEnvPrefix("actionhub")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("cors.allowed_origins", "*")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.development", false)
	viper.SetDefault("storage.type", "filesystem")
	viper.SetDefault("storage.base_path", "./data")
	viper.SetDefault("redis.address", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("graph.client_id", "")
	viper.SetDefault("graph.client_secret", "")
	viper.SetDefault("graph.scopes", "User.Read,Mail.ReadWrite")
	viper.SetDefault("graph.refresh_token_file", "refresh_token.txt")
	viper.SetDefault("graph.timeout", "30s")
	viper.SetDefault("pipeline.priority_policy", "rule")
	viper.SetDefault("pipeline.priority_seed", 0)
	viper.SetDefault("sync.interval", "0s")
	viper.SetDefault("sync.rate_limit", 1.0)
	viper.SetDefault("sync.rate_burst", 2)

	storageType := strings.ToLower(viper.GetString("storage.type"))
	switch storageType {
	case "filesystem", "memory", "redis":
	default:
		return nil, fmt.Errorf("invalid storage.type %q: must be filesystem, memory or redis", storageType)
	}

	priorityPolicy := strings.ToLower(viper.GetString("pipeline.priority_policy"))
	if priorityPolicy != "rule" && priorityPolicy != "random" {
		return nil, fmt.Errorf("invalid pipeline.priority_policy %q: must be rule or random", priorityPolicy)
	}

	corsOrigins := parseList(viper.GetString("cors.allowed_origins"))
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}

	scopes := parseList(viper.GetString("graph.scopes"))
	if len(scopes) == 0 {
		return nil, fmt.Errorf("graph.scopes must not be empty")
	}

	graphTimeout, err := time.ParseDuration(viper.GetString("graph.timeout"))
	if err != nil {
		graphTimeout = 30 * time.Second
	}

	syncInterval, err := time.ParseDuration(viper.GetString("sync.interval"))
	if err != nil {
		return nil, fmt.Errorf("invalid sync.interval: %w", err)
	}

	rateLimit := viper.GetFloat64("sync.rate_limit")
	if rateLimit <= 0 {
		rateLimit = 1.0
	}
	rateBurst := viper.GetInt("sync.rate_burst")
	if rateBurst <= 0 {
		rateBurst = 2
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("server.host"),
			Port: viper.GetInt("server.port"),
		},
		CORS: CORSConfig{
			AllowedOrigins: corsOrigins,
		},
		Log: LogConfig{
			Level:       viper.GetString("log.level"),
			Development: viper.GetBool("log.development"),
		},
		Storage: StorageConfig{
			Type:     storageType,
			BasePath: viper.GetString("storage.base_path"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Graph: GraphConfig{
			ClientID:         viper.GetString("graph.client_id"),
			ClientSecret:     viper.GetString("graph.client_secret"),
			Scopes:           scopes,
			RefreshTokenFile: viper.GetString("graph.refresh_token_file"),
			Timeout:          graphTimeout,
		},
		Pipeline: PipelineConfig{
			PriorityPolicy: priorityPolicy,
			PrioritySeed:   viper.GetInt64("pipeline.priority_seed"),
		},
		Sync: SyncConfig{
			Interval:  syncInterval,
			RateLimit: rateLimit,
			RateBurst: rateBurst,
		},
	}

	return cfg, nil
}

// parseList 将逗号分隔的字符串解析为字符串切片
func parseList(value string) []string {
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// loadEnvFile 尝试加载 .env 文件
//
// 加载顺序：
//  1. 当前目录的 .env
//  2. 父目录的 .env（用于从 cmd/ 子目录运行的情况）
//
// 注意：
//   - 如果文件不存在，静默失败（.env 是可选的）
//   - 环境变量不会被覆盖（已存在的环境变量优先级更高）
func loadEnvFile() {
	if err := godotenv.Load(".env"); err == nil {
		return
	}

	parentEnv := filepath.Join("..", ".env")
	if _, err := os.Stat(parentEnv); err == nil {
		_ = godotenv.Load(parentEnv)
	}
}
