package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// parseEnv overlays Config with DERMASCAN_* environment variables, loading a
// .env file from the working directory first if one exists. Variables that
// are not set leave the current values alone.
func parseEnv(cfg *Config) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: error loading .env file: %v", err)
	}

	if err := envconfig.Process("dermascan", cfg); err != nil {
		panic(err)
	}
}
