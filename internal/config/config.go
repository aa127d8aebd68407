package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// ChatPath is the stream key all messages of the shared room live under.
	ChatPath string `mapstructure:"CHAT_PATH"`

	S3Endpoint        string `mapstructure:"S3_ENDPOINT"`
	S3Region          string `mapstructure:"S3_REGION"`
	S3AccessKeyID     string `mapstructure:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `mapstructure:"S3_SECRET_ACCESS_KEY"`
	S3BucketName      string `mapstructure:"S3_BUCKET_NAME"`

	// S3PublicBaseURL is the base under which uploaded objects are publicly
	// reachable, e.g. https://host/storage/v1/object/public.
	S3PublicBaseURL string `mapstructure:"S3_PUBLIC_BASE_URL"`

	SessionDBPath string `mapstructure:"SESSION_DB_PATH"`
	CacheDBPath   string `mapstructure:"CACHE_DB_PATH"`
	CacheVersion  string `mapstructure:"CACHE_VERSION"`
	WebDir        string `mapstructure:"WEB_DIR"`
}

func Load() (*Config, error) {
	viper.AddConfigPath("./")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CHAT_PATH", "general-chat:messages")
	viper.SetDefault("S3_ENDPOINT", "")
	viper.SetDefault("S3_REGION", "us-east-1")
	viper.SetDefault("S3_ACCESS_KEY_ID", "")
	viper.SetDefault("S3_SECRET_ACCESS_KEY", "")
	viper.SetDefault("S3_BUCKET_NAME", "")
	viper.SetDefault("S3_PUBLIC_BASE_URL", "")
	viper.SetDefault("SESSION_DB_PATH", "vibechatz.db")
	viper.SetDefault("CACHE_DB_PATH", "swcache")
	viper.SetDefault("CACHE_VERSION", "chat-app-v1")
	viper.SetDefault("WEB_DIR", "./web")

	if err := viper.ReadInConfig(); err != nil {
		// A missing .env is fine, everything can come from the environment.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.S3BucketName == "" {
		return nil, fmt.Errorf("S3_BUCKET_NAME is required")
	}

	if cfg.ChatPath == "" {
		return nil, fmt.Errorf("CHAT_PATH is required")
	}

	if cfg.RedisAddr == "" {
		return nil, fmt.Errorf("REDIS_ADDR is required")
	}

	if cfg.ServerPort == "" {
		return nil, fmt.Errorf("SERVER_PORT is required")
	}

	return &cfg, nil
}
