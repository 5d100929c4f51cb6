package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string  `yaml:"log-level" env-default:"info"`
	HTTPPort   string  `yaml:"http-port" env-default:"9090"`
	SocketPort string  `yaml:"socket-port" env-default:"8080"`
	Redis      Redis   `yaml:"redis"`
	Session    Session `yaml:"session"`
	Chat       Chat    `yaml:"chat"`
}

// Redis configures the finished-game archive. An empty host disables it.
type Redis struct {
	Host string `yaml:"host" env-default:""`
	Port string `yaml:"port" env-default:"6379"`
}

type Session struct {
	// IdleTTLMinutes is how long a session may sit without an accepted
	// operation before the sweep evicts it; 0 disables eviction.
	IdleTTLMinutes       int `yaml:"idle-ttl-minutes" env-default:"0"`
	SweepIntervalSeconds int `yaml:"sweep-interval-seconds" env-default:"60"`
}

func (that *Session) IdleTTL() time.Duration {
	return time.Duration(that.IdleTTLMinutes) * time.Minute
}

func (that *Session) SweepInterval() time.Duration {
	return time.Duration(that.SweepIntervalSeconds) * time.Second
}

type Chat struct {
	HistoryLimit int `yaml:"history-limit" env-default:"50"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	if that.Host == "" {
		return ""
	}

	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
