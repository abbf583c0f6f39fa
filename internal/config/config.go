package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

// Public holds settings safe to commit alongside the code.
type Public struct {
	AccessTokenTTL       time.Duration `yaml:"access_token_ttl"`
	RefreshTokenTTL      time.Duration `yaml:"refresh_token_ttl"`
	VerificationTokenTTL time.Duration `yaml:"verification_token_ttl"`
	FrontendURL          string        `yaml:"frontend_url"`
	AllowedOrigins       []string      `yaml:"allowed_origins"`
	DefaultLanguage      string        `yaml:"default_language"`
	LogLevel             string        `yaml:"log_level"`
	LogJSON              bool          `yaml:"log_json"`
}

// Private holds secrets loaded from a non-committed file.
type Private struct {
	Pg     Pg     `yaml:"pg"`
	JwtKey string `yaml:"jwt_key"`
	Email  Email  `yaml:"email"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

type Email struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	SenderName string `yaml:"sender_name"`
	Timeout    int    `yaml:"timeout"` // seconds
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Public.AccessTokenTTL == 0 {
		c.Public.AccessTokenTTL = 15 * time.Minute
	}
	if c.Public.RefreshTokenTTL == 0 {
		c.Public.RefreshTokenTTL = 7 * 24 * time.Hour
	}
	if c.Public.VerificationTokenTTL == 0 {
		c.Public.VerificationTokenTTL = 24 * time.Hour
	}
	if c.Public.DefaultLanguage == "" {
		c.Public.DefaultLanguage = "en"
	}
	if c.Public.FrontendURL == "" {
		c.Public.FrontendURL = "http://localhost:3000"
	}
	if c.Public.LogLevel == "" {
		c.Public.LogLevel = "info"
	}
}
