package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

func Config(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("Warning: .env file not found, reading from system environment variables")
	}

	return os.Getenv(key)
}

// AppConfig is the typed view of the environment the server needs at boot.
type AppConfig struct {
	Environment string
	ListenAddr  string
	DatabaseURL string
	JWTSecret   string

	AdminEmail    string
	AdminPassword string
	AdminFullName string
}

func Load() AppConfig {
	cfg := AppConfig{
		Environment:   Config("ENV"),
		ListenAddr:    Config("LISTEN_ADDR"),
		DatabaseURL:   Config("DATABASE_URL"),
		JWTSecret:     Config("JWT_SECRET"),
		AdminEmail:    Config("ADMIN_EMAIL"),
		AdminPassword: Config("ADMIN_PASSWORD"),
		AdminFullName: Config("ADMIN_FULL_NAME"),
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	return cfg
}
