package config

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/go-redis/redis/v8"
	"gopkg.in/yaml.v3"
)

var ctx = context.Background()

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TLS      bool   `yaml:"tls"`
}

type JWTConfig struct {
	Secret        string `yaml:"secret"`
	AccessExpire  int64  `yaml:"access_expire"`
	RefreshExpire int64  `yaml:"refresh_expire"`
}

type MySQLConfig struct {
	DSN string `yaml:"dsn"`
}

type ServerConfig struct {
	Port    string `yaml:"port"`
	BaseURL string `yaml:"base_url"`
}

// AvatarConfig controls where uploaded avatars land on disk and how they
// are exposed over HTTP.
type AvatarConfig struct {
	Dir       string `yaml:"dir"`        // filesystem directory for stored avatars
	PublicDir string `yaml:"public_dir"` // URL path prefix, e.g. /uploads/avatars
	MaxSize   int    `yaml:"max_size"`   // max dimension in px after resize
}

// GithubConfig points at the external user-data API proxied by the service.
type GithubConfig struct {
	APIBase         string `yaml:"api_base"`
	CacheTTLMinutes int    `yaml:"cache_ttl_minutes"`
}

type Config struct {
	Server ServerConfig `yaml:"server"`
	MySQL  MySQLConfig  `yaml:"mysql"`
	Redis  RedisConfig  `yaml:"redis"`
	JWT    JWTConfig    `yaml:"jwt"`
	Avatar AvatarConfig `yaml:"avatar"`
	Github GithubConfig `yaml:"github"`
}

var GlobalConfig *Config
var RedisClient *redis.Client

func InitConfig(path string) {
	data, err := os.ReadFile(path + "/config.yaml")
	if err != nil {
		log.Fatalf("Read config failed: %v", err)
	}
	if err := yaml.Unmarshal(data, &GlobalConfig); err != nil {
		log.Fatalf("Parse config failed: %v", err)
	}
	applyDefaults()
	applyEnvOverrides()
}

func InitRedis() {
	opt := &redis.Options{
		Addr:     GlobalConfig.Redis.Addr,
		Password: GlobalConfig.Redis.Password,
		DB:       GlobalConfig.Redis.DB,
	}
	if GlobalConfig.Redis.TLS {
		opt.TLSConfig = &tls.Config{}
	}
	RedisClient = redis.NewClient(opt)
	if _, err := RedisClient.Ping(ctx).Result(); err != nil {
		panic(fmt.Sprintf("Redis connect failed: %v", err))
	}
	fmt.Println("Redis connected!")
}

func applyDefaults() {
	if GlobalConfig == nil {
		return
	}
	if GlobalConfig.Avatar.Dir == "" {
		GlobalConfig.Avatar.Dir = "public/uploads/avatars"
	}
	if GlobalConfig.Avatar.PublicDir == "" {
		GlobalConfig.Avatar.PublicDir = "/uploads/avatars"
	}
	if GlobalConfig.Avatar.MaxSize == 0 {
		GlobalConfig.Avatar.MaxSize = 380
	}
	if GlobalConfig.Github.APIBase == "" {
		GlobalConfig.Github.APIBase = "https://api.github.com"
	}
	if GlobalConfig.Github.CacheTTLMinutes == 0 {
		GlobalConfig.Github.CacheTTLMinutes = 1440
	}
}

func applyEnvOverrides() {
	if GlobalConfig == nil {
		return
	}
	if v := os.Getenv("MYSQL_DSN"); v != "" {
		GlobalConfig.MySQL.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		GlobalConfig.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		GlobalConfig.Redis.Password = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		GlobalConfig.Server.Port = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		GlobalConfig.JWT.Secret = v
	}
	if v := os.Getenv("JWT_ACCESS_EXPIRE"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			GlobalConfig.JWT.AccessExpire = parsed
		}
	}
	if v := os.Getenv("JWT_REFRESH_EXPIRE"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			GlobalConfig.JWT.RefreshExpire = parsed
		}
	}
	if v := os.Getenv("AVATAR_DIR"); v != "" {
		GlobalConfig.Avatar.Dir = v
	}
	if v := os.Getenv("GITHUB_API_BASE"); v != "" {
		GlobalConfig.Github.APIBase = v
	}
}
