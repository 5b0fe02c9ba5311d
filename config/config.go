package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 服务配置，对应 config.yaml，可用 SITE_STORE_ 前缀的环境变量覆盖
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Store     StoreConfig     `mapstructure:"store"`
	Likes     LikesConfig     `mapstructure:"likes"`
	Log       LogConfig       `mapstructure:"log"`
	Auth      AuthConfig      `mapstructure:"auth"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Privacy   PrivacyConfig   `mapstructure:"privacy"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// TrustedProxies 允许设置 X-Forwarded-For 的代理地址或网段，为空时只信任直连地址
	TrustedProxies  []string      `mapstructure:"trusted_proxies"`
}

type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

type StoreConfig struct {
	OpTimeout   time.Duration `mapstructure:"op_timeout"`
	SearchScope string        `mapstructure:"search_scope"`
	TrendDays   int           `mapstructure:"trend_days"`
	MaxRetries  int           `mapstructure:"max_retries"`
	// 索引修复队列
	RepairWorkers int `mapstructure:"repair_workers"`
	RepairQueue   int `mapstructure:"repair_queue"`
}

type LikesConfig struct {
	PerActorCap int64 `mapstructure:"per_actor_cap"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type PrivacyConfig struct {
	IPSalt string `mapstructure:"ip_salt"`
}

type SentryConfig struct {
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
}

type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	Insecure    bool    `mapstructure:"insecure"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.trusted_proxies", []string{})

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 20)
	v.SetDefault("redis.dial_timeout", 2*time.Second)
	v.SetDefault("redis.read_timeout", 2*time.Second)
	v.SetDefault("redis.write_timeout", 2*time.Second)
	v.SetDefault("redis.key_prefix", "")

	v.SetDefault("store.op_timeout", 3*time.Second)
	v.SetDefault("store.search_scope", "page")
	v.SetDefault("store.trend_days", 30)
	v.SetDefault("store.max_retries", 16)
	v.SetDefault("store.repair_workers", 2)
	v.SetDefault("store.repair_queue", 1024)

	v.SetDefault("likes.per_actor_cap", 5)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "site-store")

	v.SetDefault("rate_limit.rps", 0.2)
	v.SetDefault("rate_limit.burst", 5)

	v.SetDefault("privacy.ip_salt", "")

	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "production")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4318")
	v.SetDefault("tracing.insecure", true)
	v.SetDefault("tracing.service_name", "site-store")
	v.SetDefault("tracing.sample_ratio", 1.0)
}

// Load 读取 ./config.yaml 或 ./config/config.yaml；文件不存在时只使用默认值与环境变量
func Load() (*Config, error) {
	return LoadFrom(viper.New(), "")
}

// LoadFrom path 非空时只读取该文件
func LoadFrom(v *viper.Viper, path string) (*Config, error) {
	setDefaults(v)
	v.SetEnvPrefix("SITE_STORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
