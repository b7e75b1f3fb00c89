package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	LND      LNDConfig      `mapstructure:"lnd"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Health   HealthConfig   `mapstructure:"health"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Server   ServerConfig   `mapstructure:"server"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// LNDConfig describes how to reach the node's REST API.
type LNDConfig struct {
	RESTAddress  string `mapstructure:"rest_address"`
	TLSCertPath  string `mapstructure:"tls_cert_path"`
	MacaroonPath string `mapstructure:"macaroon_path"`
	Timeout      int    `mapstructure:"timeout"` // milliseconds
	UseMock      bool   `mapstructure:"use_mock"`
}

// RedisConfig enables the optional alias cache.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	AliasTTL int    `mapstructure:"alias_ttl"` // seconds
}

// PostgresConfig enables the optional query history store.
type PostgresConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// HealthConfig holds the acceptable local-balance ratio bounds.
type HealthConfig struct {
	MinLocalRatio float64 `mapstructure:"min_local_ratio"`
	MaxLocalRatio float64 `mapstructure:"max_local_ratio"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ServerConfig struct {
	MetricsAddress string `mapstructure:"metrics_address"`
}
