package config

import "time"

type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Channel  string `yaml:"channel"`
}

type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	PublicURL string `yaml:"public_url"`
	Local     bool   `yaml:"local"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

type JWTConfig struct {
	SecretKey       string `yaml:"secret_key"`
	AccessTokenTTL  string `yaml:"access_token_ttl"`
	RefreshTokenTTL string `yaml:"refresh_token_ttl"`
}

// TTL : cache and presigned link lifetimes, in seconds
type TTL struct {
	BoardCache   int `yaml:"board_cache"`
	PresignedURL int `yaml:"presigned_url"`
}

// AccessCodeConfig : shareable board access codes
type AccessCodeConfig struct {
	Length      int           `yaml:"length"`
	TTL         time.Duration `yaml:"ttl"`
	MaxAttempts int           `yaml:"max_attempts"`
}

// CanvasConfig : client workspace settings
type CanvasConfig struct {
	ResizeDebounce time.Duration `yaml:"resize_debounce"`
	// MaxPixels caps width*height of board images, overlays are drawn at native size
	MaxPixels int64 `yaml:"max_pixels"`
}

type LogConfig struct {
	Mode string `yaml:"mode"`
}
