package config

import (
	"log"
	"os"
)

type Config struct {
	Port       string
	APIBaseURL string
	DBDSN      string
	LogFile    string
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	base := os.Getenv("API_BASE_URL")
	if base == "" {
		base = "https://api.escuelajs.co/api/v1"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "storefront.db"
	} // sqlite file in project root
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./storefront.log" // default log sink in project root
	}

	cfg := Config{Port: port, APIBaseURL: base, DBDSN: dsn, LogFile: logFile}
	log.Printf("[config] PORT=%s API_BASE_URL=%s DB_DSN=%s LOG_FILE=%s", cfg.Port, cfg.APIBaseURL, cfg.DBDSN, cfg.LogFile)
	return cfg
}
