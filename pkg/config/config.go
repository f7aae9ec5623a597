package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

const (
	TargetLocal    = "local"
	TargetDeployed = "deployed"
)

const (
	SessionBackendFile  = "file"
	SessionBackendRedis = "redis"
)

type HTTPConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type APIConfig struct {
	Target      string        `mapstructure:"target"`
	LocalURL    string        `mapstructure:"local_url"`
	DeployedURL string        `mapstructure:"deployed_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type SessionConfig struct {
	Backend  string `mapstructure:"backend"`
	Path     string `mapstructure:"path"`
	RedisURL string `mapstructure:"redis_url"`
	Key      string `mapstructure:"key"`
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type Config struct {
	Env     string        `mapstructure:"env"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	API     APIConfig     `mapstructure:"api"`
	Session SessionConfig `mapstructure:"session"`
	Log     LogConfig     `mapstructure:"log"`
}

func Load() (*Config, error) {
	// .env is optional on tills that are configured through the real environment
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Error reading .env file, %s\n", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("POS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Printf("Error reading config file, %s\n", err)
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Printf("Unable to decode into struct, %v\n", err)
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", EnvLocal)
	v.SetDefault("http.host", "127.0.0.1")
	v.SetDefault("http.port", 8090)
	v.SetDefault("api.target", TargetLocal)
	v.SetDefault("api.local_url", "http://localhost:5000/api")
	v.SetDefault("api.deployed_url", "https://retail-backend-7mx2.onrender.com/api")
	v.SetDefault("api.timeout", time.Duration(0))
	v.SetDefault("session.backend", SessionBackendFile)
	v.SetDefault("session.path", ".pos/session.json")
	v.SetDefault("session.redis_url", "redis://localhost:6379/0")
	v.SetDefault("session.key", "pos:session:default")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 64)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 7)
}

func (c *Config) Validate() error {
	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("config: unknown env %q", c.Env)
	}

	switch c.API.Target {
	case TargetLocal, TargetDeployed:
	default:
		return fmt.Errorf("config: unknown api target %q", c.API.Target)
	}

	switch c.Session.Backend {
	case SessionBackendFile, SessionBackendRedis:
	default:
		return fmt.Errorf("config: unknown session backend %q", c.Session.Backend)
	}

	return nil
}

// BaseURL is the retail API root selected by api.target.
func (c *Config) BaseURL() string {
	if c.API.Target == TargetDeployed {
		return strings.TrimRight(c.API.DeployedURL, "/")
	}
	return strings.TrimRight(c.API.LocalURL, "/")
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.HTTP.Host, c.HTTP.Port)
}
