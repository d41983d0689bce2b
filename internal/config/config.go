package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config visioncheck（HTTP API）配置
type Config struct {
	HTTP struct {
		Addr string
	}
	Auth      AuthConfig
	DBEnabled bool
	Database  DatabaseConfig
	Redis     struct {
		Addr     string
		Password string
		DB       int
	}
	Log struct {
		Level  string
		Format string
	}
	Analysis AnalysisConfig
}

// AuthConfig 托管身份服务配置
type AuthConfig struct {
	HTTPAddress string // 身份服务公开 URL
	AnonKey     string // 匿名 API Key（apikey 请求头）
	SignInPath  string // 未登录重定向目标
	CacheTTLSec int    // token→user 缓存 TTL（秒）
}

// AnalysisConfig 模拟分析配置
type AnalysisConfig struct {
	DelayMS      int    // 模拟推理耗时（毫秒）
	ModelVersion string // 响应中声明的模型版本
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// GetDSN 获取数据库连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	// 身份服务配置（两项必配；默认值仅用于本地联调）
	cfg.Auth.HTTPAddress = getEnv("AUTH_HTTP_ADDRESS", "http://localhost:9999")
	cfg.Auth.AnonKey = getEnv("AUTH_ANON_KEY", "")
	cfg.Auth.SignInPath = getEnv("AUTH_SIGNIN_PATH", "/auth/signin")
	cfg.Auth.CacheTTLSec = parseInt(getEnv("AUTH_CACHE_TTL", "60"), 60)

	// Default to false: the service is fully functional without a database,
	// screening history just stops surviving restarts.
	cfg.DBEnabled = getEnv("DB_ENABLED", "false") == "true"
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "visioncheck")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = 0

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	// 模拟分析配置
	cfg.Analysis.DelayMS = parseInt(getEnv("ANALYSIS_DELAY_MS", "2000"), 2000)
	cfg.Analysis.ModelVersion = getEnv("MODEL_VERSION", "fusion-v2.1.0")

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
