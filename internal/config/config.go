package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"turtlemint-b2b/internal/db"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	HTTPAddr        string
	DBConnString    string
	DBMaxConns      int
	DBMinConns      int
	DBMaxConnIdle   time.Duration
	DBMaxConnLife   time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
	MaxUploadBytes  int64

	LLMAPIKey   string
	LLMModel    string
	LLMSimulate bool
	ChatbotMode string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFrom       string

	RedisAddr          string
	RateLimitPerMinute int

	DocumentBucket string
	AWSRegion      string
	S3Endpoint     string

	HighValuePremium      float64
	EngagementSendTimeout time.Duration
}

// Load reads a .env file when one exists and then builds Config from the
// environment. Variables already set win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}
	return FromEnv(), nil
}

// FromEnv builds Config with defaults, overridden by environment variables.
func FromEnv() Config {
	apiKey := envOrDefault("LLM_API_KEY", os.Getenv("GEMINI_API_KEY"))
	return Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		DBConnString:    os.Getenv("DB_DSN"),
		DBMaxConns:      envInt("DB_MAX_CONNS", 10),
		DBMinConns:      envInt("DB_MIN_CONNS", 0),
		DBMaxConnIdle:   envDuration("DB_MAX_CONN_IDLE_SECONDS", 5*time.Minute),
		DBMaxConnLife:   envDuration("DB_MAX_CONN_LIFETIME_SECONDS", 30*time.Minute),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
		AllowedOrigins:  envList("CORS_ALLOWED_ORIGINS"),
		MaxUploadBytes:  int64(envInt("MAX_UPLOAD_MB", 10)) << 20,

		LLMAPIKey:   apiKey,
		LLMModel:    envOrDefault("LLM_MODEL", "gemini-2.5-flash"),
		LLMSimulate: envBool("LLM_SIMULATE", true),
		ChatbotMode: envOrDefault("CHATBOT_MODE", "rules"),

		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFrom:       os.Getenv("TWILIO_WHATSAPP_NUMBER"),

		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RateLimitPerMinute: envInt("RATE_LIMIT_PER_MINUTE", 20),

		DocumentBucket: os.Getenv("DOCUMENT_BUCKET"),
		AWSRegion:      envOrDefault("AWS_REGION", "ap-south-1"),
		S3Endpoint:     os.Getenv("S3_ENDPOINT"),

		HighValuePremium:      envFloat("HIGH_VALUE_PREMIUM", 20000),
		EngagementSendTimeout: envDuration("ENGAGEMENT_SEND_TIMEOUT_SECONDS", 10*time.Second),
	}
}

// DBOptions returns the pool settings for db.Connect.
func (c Config) DBOptions() db.Options {
	return db.Options{
		MaxConns:        int32(c.DBMaxConns),
		MinConns:        int32(c.DBMinConns),
		MaxConnIdleTime: c.DBMaxConnIdle,
		MaxConnLifetime: c.DBMaxConnLife,
	}
}

// TwilioConfigured reports whether all WhatsApp credentials are present.
func (c Config) TwilioConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioFrom != ""
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		seconds, err := strconv.Atoi(v)
		if err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err == nil && f >= 0 {
			return f
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err == nil {
			return b
		}
	}
	return def
}

func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
