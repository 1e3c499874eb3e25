package config

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Server         ServerConfig     `yaml:"server"`
	DatabaseConfig DatabaseConfig   `yaml:"databaseConfig"`
	RedisConfig    RedisConfig      `yaml:"redisConfig"`
	S3Config       S3Config         `yaml:"s3Config"`
	JWT            JWTConfig        `yaml:"jwt"`
	TTL            TTL              `yaml:"TTL"`
	AccessCodes    AccessCodeConfig `yaml:"accessCodes"`
	Canvas         CanvasConfig     `yaml:"canvas"`
	Log            LogConfig        `yaml:"log"`
}

// LoadConfig : reads .env (if present), the yaml file (if present), then environment overrides
func LoadConfig(path string) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	var cfg AppConfig

	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return nil, err
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, err
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	return &cfg, nil
}

func applyEnv(cfg *AppConfig) {
	setString(&cfg.Server.Addr, "WALLBOARD_SERVER_ADDR")
	setString(&cfg.DatabaseConfig.DSN, "WALLBOARD_DB_DSN")
	setString(&cfg.RedisConfig.Addr, "WALLBOARD_REDIS_ADDR")
	setString(&cfg.RedisConfig.Password, "WALLBOARD_REDIS_PASSWORD")
	setString(&cfg.S3Config.Bucket, "WALLBOARD_S3_BUCKET")
	setString(&cfg.S3Config.Region, "WALLBOARD_S3_REGION")
	setString(&cfg.S3Config.Endpoint, "WALLBOARD_S3_ENDPOINT")
	setString(&cfg.S3Config.PublicURL, "WALLBOARD_S3_PUBLIC_URL")
	setString(&cfg.S3Config.AccessKey, "WALLBOARD_S3_ACCESS_KEY")
	setString(&cfg.S3Config.SecretKey, "WALLBOARD_S3_SECRET_KEY")
	setString(&cfg.JWT.SecretKey, "WALLBOARD_JWT_SECRET")
	setString(&cfg.Log.Mode, "WALLBOARD_LOG_MODE")

	if v, ok := os.LookupEnv("WALLBOARD_S3_LOCAL"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.S3Config.Local = b
		}
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 30 * time.Second
	}
	if cfg.Server.MaxUploadBytes == 0 {
		cfg.Server.MaxUploadBytes = 20 << 20
	}
	if cfg.RedisConfig.Channel == "" {
		cfg.RedisConfig.Channel = "wallboard:changes"
	}
	if cfg.JWT.AccessTokenTTL == "" {
		cfg.JWT.AccessTokenTTL = "15m"
	}
	if cfg.JWT.RefreshTokenTTL == "" {
		cfg.JWT.RefreshTokenTTL = "720h"
	}
	if cfg.TTL.BoardCache == 0 {
		cfg.TTL.BoardCache = 3600
	}
	if cfg.TTL.PresignedURL == 0 {
		cfg.TTL.PresignedURL = 900
	}
	if cfg.AccessCodes.Length == 0 {
		cfg.AccessCodes.Length = 6
	}
	if cfg.AccessCodes.TTL == 0 {
		cfg.AccessCodes.TTL = 7 * 24 * time.Hour
	}
	if cfg.AccessCodes.MaxAttempts == 0 {
		cfg.AccessCodes.MaxAttempts = 5
	}
	if cfg.Canvas.ResizeDebounce == 0 {
		cfg.Canvas.ResizeDebounce = 100 * time.Millisecond
	}
	if cfg.Canvas.MaxPixels == 0 {
		cfg.Canvas.MaxPixels = 50_000_000
	}
	if cfg.Log.Mode == "" {
		cfg.Log.Mode = "development"
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func SetupServer(cfg ServerConfig) (*http.Server, *chi.Mux) {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return server, router
}

func SetupDatabase(dsn string) (*Database, error) {
	return NewDatabaseConnection("postgres", dsn)
}

func SetupRedis(cfg *RedisConfig) (*RedisClient, error) {
	return NewRedisClient(cfg)
}
