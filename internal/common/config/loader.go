package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configuration from configs/config.yaml (plus an optional
// environment-specific overlay) with environment-variable overrides like
// LND_REST_ADDRESS or HEALTH_MIN_LOCAL_RATIO.
func Load() (*Config, error) {
	loadEnvFile()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig() // overlay is optional

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}
	for _, p := range possiblePaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "lnd-advisor"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.LND.RESTAddress == "" {
		cfg.LND.RESTAddress = "https://localhost:8080"
	}
	if cfg.LND.Timeout <= 0 {
		cfg.LND.Timeout = 10000
	}
	if cfg.Redis.Address == "" {
		cfg.Redis.Address = "localhost:6379"
	}
	if cfg.Redis.AliasTTL <= 0 {
		cfg.Redis.AliasTTL = 600
	}
	if cfg.Postgres.Port == 0 {
		cfg.Postgres.Port = 5432
	}
	if cfg.Postgres.SSLMode == "" {
		cfg.Postgres.SSLMode = "disable"
	}
	if cfg.Health.MinLocalRatio == 0 && cfg.Health.MaxLocalRatio == 0 {
		cfg.Health.MinLocalRatio = 0.1
		cfg.Health.MaxLocalRatio = 0.9
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Server.MetricsAddress == "" {
		cfg.Server.MetricsAddress = ":9090"
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Health.MinLocalRatio < 0 || cfg.Health.MinLocalRatio > 1 {
		return fmt.Errorf("health.min_local_ratio must be in [0,1], got %v", cfg.Health.MinLocalRatio)
	}
	if cfg.Health.MaxLocalRatio < 0 || cfg.Health.MaxLocalRatio > 1 {
		return fmt.Errorf("health.max_local_ratio must be in [0,1], got %v", cfg.Health.MaxLocalRatio)
	}
	if cfg.Health.MinLocalRatio >= cfg.Health.MaxLocalRatio {
		return fmt.Errorf("health.min_local_ratio must be below health.max_local_ratio")
	}
	if !cfg.LND.UseMock {
		if cfg.LND.MacaroonPath == "" {
			return fmt.Errorf("lnd.macaroon_path is required unless lnd.use_mock is set")
		}
	}
	return nil
}
