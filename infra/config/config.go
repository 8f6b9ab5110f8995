// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr     string
	WALDir       string
	OutboxDir    string
	SnapshotDir  string
	KafkaBrokers []string
	TradeTopic   string

	// PriceScale is the number of decimal places one tick represents.
	PriceScale int32
}

// Load reads the environment, after loading .env when present.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("[config] no .env file, using environment")
	}

	return Config{
		HTTPAddr:     getenv("HTTP_ADDR", ":8000"),
		WALDir:       getenv("WAL_DIR", "./data/wal"),
		OutboxDir:    getenv("OUTBOX_DIR", "./data/outbox"),
		SnapshotDir:  getenv("SNAPSHOT_DIR", "./data/snapshot"),
		KafkaBrokers: strings.Split(getenv("KAFKA_BROKERS", "localhost:9092"), ","),
		TradeTopic:   getenv("KAFKA_TRADE_TOPIC", "trades"),
		PriceScale:   int32(getenvInt("PRICE_SCALE", 4)),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] bad %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
