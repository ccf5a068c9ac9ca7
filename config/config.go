package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type UserConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type ServerConfig struct {
	Listen        string       `yaml:"listen"`
	Udp           bool         `yaml:"udp"`
	ProxyProtocol bool         `yaml:"proxy_protocol"`
	HttpFallback  bool         `yaml:"http_fallback"`
	Users         []UserConfig `yaml:"users,omitempty"`
}

type LogConfig struct {
	Color        bool   `yaml:"color"`
	LogLevel     string `yaml:"level"`
	VerboseLevel int    `yaml:"verbose_level"`
}

type Config struct {
	Server *ServerConfig `yaml:"server"`
	Log    *LogConfig    `yaml:"log"`
}

func ParseConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Server == nil {
		cfg.Server = &ServerConfig{}
	}
	if cfg.Log == nil {
		cfg.Log = &LogConfig{VerboseLevel: 1}
	}
	if err := cfg.Server.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *ServerConfig) validate() error {
	if c.Listen == "" {
		return fmt.Errorf("config: missing listen address")
	}
	for _, u := range c.Users {
		if u.Username == "" {
			return fmt.Errorf("config: user with empty username")
		}
		if len(u.Username) > 255 || len(u.Password) > 255 {
			return fmt.Errorf("config: username or password of %q longer than 255 bytes", u.Username)
		}
	}
	return nil
}
