package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort string

	MongoURI      string
	MongoDatabase string
	RedisURI      string

	JWTSecret    string
	HostUsername string
	HostPassword string
	SessionTTL   time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	RateLimitRPS   float64
	RateLimitBurst int
	TrustedProxies []string

	StatsSnapshotCron string
	QuestionnaireFile string

	LogLevel string
	LogFile  string

	CORSAllowedOrigins []string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:      getEnv("MONGO_DATABASE", "energylabel"),
		RedisURI:           getEnv("REDIS_URI", "localhost:6379"),
		JWTSecret:          getEnv("JWT_SECRET", "change-me-in-production"),
		HostUsername:       getEnv("HOST_USERNAME", "admin"),
		HostPassword:       getEnv("HOST_PASSWORD", "password123"),
		SessionTTL:         getDuration("SESSION_TTL", 24*time.Hour),
		KafkaBrokers:       getList("KAFKA_BROKERS", nil),
		KafkaTopic:         getEnv("KAFKA_TOPIC", "energylabel.assessments"),
		RateLimitRPS:       getFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:     getInt("RATE_LIMIT_BURST", 10),
		TrustedProxies:     getList("TRUSTED_PROXIES", nil),
		StatsSnapshotCron:  getEnv("STATS_SNAPSHOT_CRON", "@hourly"),
		QuestionnaireFile:  getEnv("QUESTIONNAIRE_FILE", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFile:            getEnv("LOG_FILE", ""),
		CORSAllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

// RedisAddr returns the Redis address without a redis:// scheme
func (c *Config) RedisAddr() string {
	return strings.TrimPrefix(c.RedisURI, "redis://")
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultVal
}

func getFloat(key string, defaultVal float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return f
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultVal
}

// getList splits a comma-separated value, dropping empty items
func getList(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
