// Package config loads tool settings from environment variables. The shared
// storm-data config helpers this layout came from are re-expressed locally so
// the module stands alone.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gridatlas/capacidad/internal/domain"
)

// Defaults for the dataset snapshot this tool tracks.
const (
	DefaultCSVPath     = "data/raw/2026_02_20_GRT_demanda.csv"
	DefaultDownloadURL = "https://d1n1o4zeyfu21r.cloudfront.net/CapacidadDeAcceso/2026_02_20_GRT_demanda.zip"
)

// Config holds all tool settings, populated from environment variables.
type Config struct {
	CSVPath         string
	RawDataDir      string
	ProcessedDir    string
	DownloadURL     string
	DownloadTimeout time.Duration

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool
	Expectations domain.Expectations
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	downloadTimeout, err := parseDuration("DOWNLOAD_TIMEOUT", "60s")
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	exp, err := loadExpectations()
	if err != nil {
		return nil, err
	}

	kafkaBrokers := parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092"))
	kafkaEnabled := false
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		CSVPath:         envOrDefault("CAPACIDAD_CSV", DefaultCSVPath),
		RawDataDir:      envOrDefault("RAW_DATA_DIR", "data/raw"),
		ProcessedDir:    envOrDefault("PROCESSED_DATA_DIR", "data/processed"),
		DownloadURL:     envOrDefault("DOWNLOAD_URL", DefaultDownloadURL),
		DownloadTimeout: downloadTimeout,

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "text"),
		ShutdownTimeout: shutdownTimeout,

		KafkaBrokers: kafkaBrokers,
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "capacidad-node-snapshots"),
		KafkaEnabled: kafkaEnabled,
		Expectations: exp,
	}

	if cfg.CSVPath == "" {
		return nil, errors.New("CAPACIDAD_CSV is required")
	}
	if cfg.DownloadURL == "" {
		return nil, errors.New("DOWNLOAD_URL is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

// loadExpectations starts from the known aggregates of the tracked snapshot
// and lets individual values be overridden when pointing the tool at a newer
// dataset revision.
func loadExpectations() (domain.Expectations, error) {
	exp := domain.DefaultExpectations()

	var err error
	if exp.Rows, err = parseInt("EXPECT_ROWS", exp.Rows); err != nil {
		return exp, err
	}
	if exp.Cols, err = parseInt("EXPECT_COLS", exp.Cols); err != nil {
		return exp, err
	}
	if exp.ReferenceRegionNodes, err = parseInt("EXPECT_REFERENCE_REGION_NODES", exp.ReferenceRegionNodes); err != nil {
		return exp, err
	}
	if exp.DistinctRegions, err = parseInt("EXPECT_DISTINCT_REGIONS", exp.DistinctRegions); err != nil {
		return exp, err
	}
	if exp.TotalPrimaryMW, err = parseFloat("EXPECT_TOTAL_PRIMARY_MW", exp.TotalPrimaryMW); err != nil {
		return exp, err
	}
	if exp.TotalToleranceMW, err = parseFloat("EXPECT_TOTAL_TOLERANCE_MW", exp.TotalToleranceMW); err != nil {
		return exp, err
	}
	if v := os.Getenv("EXPECT_REFERENCE_REGION"); v != "" {
		exp.ReferenceRegion = v
	}
	return exp, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseBrokers(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return f, nil
}
