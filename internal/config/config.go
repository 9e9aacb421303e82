package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/quake-watch/internal/domain"
	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	FeedEndpoint string
	MinMagnitude float64
	PollInterval time.Duration
	MaxBackoff   time.Duration
	FetchTimeout time.Duration

	WindowLeadDays int
	WindowSpanDays int

	Region      domain.Region
	PlaceFilter string

	SeenCacheSize int
	SeenTTL       time.Duration
	MatchLogSize  int

	RawLogPath string

	// Kafka emitter configuration.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment (and a .env file when
// present), applying defaults where unset.
func Load() (*Config, error) {
	// Best-effort .env for local development; real environments set vars directly.
	_ = godotenv.Load()

	pollInterval, err := durationEnv("POLL_INTERVAL", 30*time.Second)
	if err != nil {
		return nil, err
	}
	maxBackoff, err := durationEnv("MAX_BACKOFF", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	fetchTimeout, err := durationEnv("FETCH_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	seenTTL, err := durationEnv("SEEN_TTL", 168*time.Hour)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := durationEnv("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	minMagnitude, err := floatEnv("MIN_MAGNITUDE", 5.0)
	if err != nil {
		return nil, err
	}
	region, err := regionFromEnv()
	if err != nil {
		return nil, err
	}

	leadDays, err := intEnv("WINDOW_LEAD_DAYS", 2)
	if err != nil {
		return nil, err
	}
	spanDays, err := intEnv("WINDOW_SPAN_DAYS", 5)
	if err != nil {
		return nil, err
	}
	seenCacheSize, err := intEnv("SEEN_CACHE_SIZE", 10000)
	if err != nil {
		return nil, err
	}
	matchLogSize, err := intEnv("MATCH_LOG_SIZE", 1000)
	if err != nil {
		return nil, err
	}

	kafkaTopic := os.Getenv("KAFKA_TOPIC")
	kafkaEnabled := kafkaTopic != ""
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		FeedEndpoint: envOrDefault("FEED_ENDPOINT", "https://earthquake.usgs.gov/fdsnws/event/1/query"),
		MinMagnitude: minMagnitude,
		PollInterval: pollInterval,
		MaxBackoff:   maxBackoff,
		FetchTimeout: fetchTimeout,

		WindowLeadDays: leadDays,
		WindowSpanDays: spanDays,

		Region:      region,
		PlaceFilter: envOrDefault("PLACE_FILTER", "Julian"),

		SeenCacheSize: seenCacheSize,
		SeenTTL:       seenTTL,
		MatchLogSize:  matchLogSize,

		RawLogPath: os.Getenv("RAW_LOG_PATH"),

		KafkaBrokers: splitBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   kafkaTopic,
		KafkaEnabled: kafkaEnabled,

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.FeedEndpoint == "" {
		return nil, errors.New("FEED_ENDPOINT is required")
	}
	if cfg.MinMagnitude < 0 {
		return nil, errors.New("MIN_MAGNITUDE must not be negative")
	}
	if cfg.WindowSpanDays < 0 {
		return nil, errors.New("WINDOW_SPAN_DAYS must not be negative")
	}
	if !cfg.Region.Valid() {
		return nil, errors.New("REGION bounds are inverted: min must not exceed max")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_TOPIC is not set")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_TOPIC is set but KAFKA_BROKERS is empty")
	}

	return cfg, nil
}

func envOrDefault(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func durationEnv(name string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, s)
	}
	return d, nil
}

func floatEnv(name string, def float64) (float64, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, s)
	}
	return f, nil
}

func intEnv(name string, def int) (int, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, s)
	}
	return n, nil
}

func regionFromEnv() (domain.Region, error) {
	region := domain.NorthAmerica
	for _, bound := range []struct {
		name string
		dst  *float64
	}{
		{"REGION_MIN_LAT", &region.MinLat},
		{"REGION_MAX_LAT", &region.MaxLat},
		{"REGION_MIN_LON", &region.MinLon},
		{"REGION_MAX_LON", &region.MaxLon},
	} {
		v, err := floatEnv(bound.name, *bound.dst)
		if err != nil {
			return domain.Region{}, err
		}
		*bound.dst = v
	}
	return region, nil
}

func splitBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
