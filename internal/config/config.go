package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Runner selection values for the submission pipeline.
const (
	RunnerSimulated = "simulated"
	RunnerSandbox   = "sandbox"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	DatabaseURL       string
	RedisURL          string
	JWTSecret         string
	TokenTTL          time.Duration
	DashboardCacheTTL time.Duration
	OpenAIAPIKey      string
	GenerationModel   string
	CritiqueModel     string
	Runner            string
	DockerHost        string
	SandboxImage      string
	SandboxMemoryMB   int
	SandboxCPUShares  int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// UseInMemoryStore reports whether the service should run on the
// in-memory repositories instead of Postgres.
func (c Config) UseInMemoryStore() bool {
	return c.DatabaseURL == ""
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CLAB")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "C Lab Tutorial API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("token.ttl", "24h")
	v.SetDefault("dashboard.cache_ttl", "5m")
	v.SetDefault("runner", RunnerSimulated)
	v.SetDefault("sandbox.image", "gcc:13")
	v.SetDefault("sandbox.memory_mb", 256)
	v.SetDefault("sandbox.cpu_shares", 512)

	tokenTTL, err := time.ParseDuration(v.GetString("token.ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid token ttl: %w", err)
	}

	cacheTTL, err := time.ParseDuration(v.GetString("dashboard.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid dashboard cache ttl: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		JWTSecret:         v.GetString("jwt.secret"),
		TokenTTL:          tokenTTL,
		DashboardCacheTTL: cacheTTL,
		OpenAIAPIKey:      v.GetString("openai_api_key"),
		GenerationModel:   v.GetString("generation.model"),
		CritiqueModel:     v.GetString("critique.model"),
		Runner:            strings.ToLower(v.GetString("runner")),
		DockerHost:        v.GetString("docker_host"),
		SandboxImage:      v.GetString("sandbox.image"),
		SandboxMemoryMB:   v.GetInt("sandbox.memory_mb"),
		SandboxCPUShares:  v.GetInt("sandbox.cpu_shares"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.Runner != RunnerSimulated && cfg.Runner != RunnerSandbox {
		return Config{}, fmt.Errorf("unknown runner %q", cfg.Runner)
	}

	if cfg.SandboxMemoryMB <= 0 {
		cfg.SandboxMemoryMB = 256
	}

	if cfg.SandboxCPUShares <= 0 {
		cfg.SandboxCPUShares = 512
	}

	return cfg, nil
}
