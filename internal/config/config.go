package config

import (
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIURL             string
	Port               string
	RequestTimeout     time.Duration
	SessionTTL         time.Duration
	CloudinaryCloud    string
	CloudinaryPreset   string
	CORSOrigins        []string
	LoginRatePerMinute int
	LogLevel           slog.Level
}

func LoadConfig() *Config {
	// Solo cargar .env en desarrollo local
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Error loading .env file:", err)
		} else {
			log.Println("✅ .env file loaded successfully")
		}
	} else {
		log.Println("🌐 Using system environment variables")
	}

	return &Config{
		APIURL:             getEnv("API_URL", "https://e-commerce-server-rnas.onrender.com"),
		Port:               getEnv("PORT", "8080"),
		RequestTimeout:     getDuration("REQUEST_TIMEOUT", 15*time.Second),
		SessionTTL:         getDuration("SESSION_TTL", 30*time.Minute),
		CloudinaryCloud:    getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryPreset:   getEnv("CLOUDINARY_UPLOAD_PRESET", ""),
		CORSOrigins:        getList("CORS_ORIGINS"),
		LoginRatePerMinute: getInt("LOGIN_RATE_PER_MINUTE", 5),
		LogLevel:           getLevel("LOG_LEVEL", slog.LevelInfo),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("⚠️ Invalid %s %q, using %s", key, raw, fallback)
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Printf("⚠️ Invalid %s %q, using %d", key, raw, fallback)
		return fallback
	}
	return n
}

func getList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getLevel(key string, fallback slog.Level) slog.Level {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		log.Printf("⚠️ Invalid %s %q, using %s", key, raw, fallback)
		return fallback
	}
	return level
}
