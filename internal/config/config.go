package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/user/yamdb/internal/validation"
)

const defaultSecret = "your-secret-key-change-in-production"

// DefaultCodeAlphabet 确认码字符集
const DefaultCodeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Config 应用配置
type Config struct {
	Env         string
	AppSecret   string
	DatabaseURL string
	JWTExpiry   time.Duration
	Port        string
	SiteName    string

	LogLevel  string
	LogFormat string

	RabbitMQURL string
	MailFrom    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CodeLength      int
	CodeAlphabet    string
	CodeTTL         time.Duration
	CodeHashCost    int
	CleanupInterval time.Duration

	PageSize int
	Limits   validation.Limits
}

// Load 加载配置
func Load() *Config {
	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbName := getEnv("DB_NAME", "yamdb")
	dbSSL := getEnv("DB_SSLMODE", "disable")

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPass, dbHost, dbPort, dbName, dbSSL)

	appSecret := getEnv("APP_SECRET", getEnv("JWT_SECRET", defaultSecret))
	env := getEnv("APP_ENV", "development")

	if env == "production" && appSecret == defaultSecret {
		fmt.Println("【严重警告】生产环境正在使用默认密钥！请立即设置 APP_SECRET 环境变量。")
	}

	limits := validation.DefaultLimits()
	limits.Username = getInt("MAX_USERNAME_LENGTH", limits.Username)
	limits.Email = getInt("MAX_EMAIL_LENGTH", limits.Email)
	limits.ConfirmationCode = getInt("MAX_CODE_LENGTH", limits.ConfirmationCode)

	cfg := &Config{
		Env:         env,
		AppSecret:   appSecret,
		DatabaseURL: dbURL,
		JWTExpiry:   time.Duration(getInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,
		Port:        getEnv("PORT", "8000"),
		SiteName:    getEnv("SITE_NAME", "YaMDb"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		RabbitMQURL: getEnv("RABBITMQ_URL", os.Getenv("AMQP_URL")),
		MailFrom:    getEnv("MAIL_FROM", "from@example.com"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getInt("REDIS_DB", 0),

		CodeLength:      getInt("CODE_LENGTH", 12),
		CodeAlphabet:    getEnv("CODE_ALPHABET", DefaultCodeAlphabet),
		CodeTTL:         getDuration("CODE_TTL", 24*time.Hour),
		CodeHashCost:    getInt("CODE_HASH_COST", 10),
		CleanupInterval: getDuration("CLEANUP_INTERVAL", time.Hour),

		PageSize: getInt("PAGE_SIZE", 10),
		Limits:   limits,
	}

	// 生成的确认码必须能通过换取 Token 时的长度校验
	if cfg.CodeLength > cfg.Limits.ConfirmationCode {
		cfg.Limits.ConfirmationCode = cfg.CodeLength
	}
	if cfg.PageSize < 1 {
		cfg.PageSize = 10
	}

	return cfg
}

// IsProduction 是否生产环境
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}
