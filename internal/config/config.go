package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type Config struct {
	LogLevel   string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string    `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string    `yaml:"socket-port" env:"SOCKET_PORT" env-default:"7000"`
	WebDir     string    `yaml:"web-dir" env:"WEB_DIR" env-default:"web"`
	Session    Session   `yaml:"session"`
	Redis      Redis     `yaml:"redis"`
	Telemetry  Telemetry `yaml:"telemetry"`
}

type Session struct {
	Store         string        `yaml:"store" env:"SESSION_STORE" env-default:"memory"`
	TTL           time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"30m"`
	MessageDelay  time.Duration `yaml:"message-delay" env:"SESSION_MESSAGE_DELAY" env-default:"3500ms"`
	RestartDelay  time.Duration `yaml:"restart-delay" env:"SESSION_RESTART_DELAY" env-default:"3500ms"`
	ThinkingDelay time.Duration `yaml:"thinking-delay" env:"SESSION_THINKING_DELAY" env-default:"500ms"`
	// Seed feeds the tie-break and starter coins; 0 picks a random seed.
	Seed uint64 `yaml:"seed" env:"SESSION_SEED" env-default:"0"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Telemetry struct {
	Enabled     bool   `yaml:"enabled" env:"TELEMETRY_ENABLED" env-default:"false"`
	Endpoint    string `yaml:"endpoint" env:"TELEMETRY_ENDPOINT" env-default:"localhost:4317"`
	ServiceName string `yaml:"service-name" env:"TELEMETRY_SERVICE_NAME" env-default:"tictactoe-minimax"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

func (that *Config) validate() error {
	switch that.Session.Store {
	case StoreMemory, StoreRedis:
	default:
		return fmt.Errorf("unknown session store %q", that.Session.Store)
	}

	if that.Session.MessageDelay < 0 || that.Session.RestartDelay < 0 || that.Session.ThinkingDelay < 0 {
		return fmt.Errorf("session delays must not be negative")
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	if that.Host == "" || that.Port == "" {
		return ""
	}

	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
