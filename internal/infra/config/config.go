package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Builder-Lawyers/builder-admin/pkg/db"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
)

const envPrefix = "BUILDER_"

type Config struct {
	HTTP      HTTPConfig      `koanf:"http"`
	DB        db.Config       `koanf:"db"`
	Auth      AuthConfig      `koanf:"auth"`
	Log       LogConfig       `koanf:"log"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
	DNS       DNSConfig       `koanf:"dns"`
}

type HTTPConfig struct {
	ListenAddr   string        `koanf:"listen_addr" validate:"required,hostname_port"`
	AllowOrigins string        `koanf:"allow_origins"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
}

type AuthConfig struct {
	Secret          string        `koanf:"secret" validate:"required,min=16"`
	SessionLifetime time.Duration `koanf:"session_lifetime" validate:"required"`
	CookieName      string        `koanf:"cookie_name" validate:"required"`
}

type LogConfig struct {
	Dir   string `koanf:"dir"`
	Tee   bool   `koanf:"tee"`
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
}

type SchedulerConfig struct {
	Limit       int           `koanf:"limit" validate:"min=1"`
	Interval    time.Duration `koanf:"interval" validate:"required"`
	StepTimeout time.Duration `koanf:"step_timeout" validate:"required"`
}

type DNSConfig struct {
	Enabled bool   `koanf:"enabled"`
	Region  string `koanf:"region"`
}

func Defaults() Config {
	return Config{
		HTTP: HTTPConfig{
			ListenAddr:   ":8080",
			AllowOrigins: "http://localhost:3000",
			ReadTimeout:  30 * time.Second,
			// completion may wait on slow downstream calls
			WriteTimeout: 5 * time.Minute,
			IdleTimeout:  5 * time.Second,
		},
		DB: db.Config{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Name:     "builder",
			SSLMode:  "disable",
			MaxConns: 10,
		},
		Auth: AuthConfig{
			SessionLifetime: 12 * time.Hour,
			CookieName:      "session",
		},
		Log: LogConfig{
			Tee:   true,
			Level: "info",
		},
		Scheduler: SchedulerConfig{
			Limit:       5,
			Interval:    5 * time.Second,
			StepTimeout: 2 * time.Minute,
		},
		DNS: DNSConfig{
			Region: "us-east-1",
		},
	}
}

// Load layers defaults, an optional YAML file and BUILDER_ env variables
// (BUILDER_DB__HOST -> db.host), then validates the result. An empty path
// falls back to conf/config.yaml when that file exists.
func Load(path string) (*Config, error) {
	_ = godotenv.Load(filepath.Join("conf", ".env"))

	k := koanf.New(".")

	if path == "" {
		candidate := filepath.Join("conf", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(s, envPrefix), "__", "."))
	}), nil); err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
