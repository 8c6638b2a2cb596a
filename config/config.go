package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

type ServerConfig struct {
	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

type Config struct {
	Server       ServerConfig   `yaml:"server"`
	Postgres     PostgresConfig `yaml:"postgres"`
	JWTSecretKey string         `yaml:"jwt_secret_key"`
}

// Read loads the YAML configuration file. Secrets in the file can be
// overridden from the environment (JWT_SECRET_KEY, DB_PASSWORD).
func Read(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if v := os.Getenv("JWT_SECRET_KEY"); v != "" {
		config.JWTSecretKey = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		config.Postgres.Password = v
	}

	return &config, nil
}

// GetEnv returns the environment variable for key, or fallback when unset.
// API keys and model names are read this way rather than from the YAML file.
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
