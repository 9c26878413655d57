package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	HTTPPort       string
	ObsHTTPAddr    string
	ServiceName    string
	StaticDir      string
	HistoryLimit   int
	SendQueueSize  int
	MetricsEnabled bool
	TracingEnabled bool
	JaegerURL      string
}

func Load() *Config {
	return &Config{
		HTTPPort:       strings.TrimPrefix(getEnv("HTTP_PORT", getEnv("PORT", "3000")), ":"),
		ObsHTTPAddr:    fixPort(getEnv("HTTP_ADDR", ":9300")),
		ServiceName:    getEnv("SERVICE_NAME", "chat-relay"),
		StaticDir:      getEnv("STATIC_DIR", "web"),
		HistoryLimit:   getEnvInt("HISTORY_LIMIT", 0),
		SendQueueSize:  getEnvInt("SEND_QUEUE_SIZE", 128),
		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
		TracingEnabled: getEnvBool("TRACING_ENABLED", false),
		JaegerURL:      getEnv("JAEGER_URL", "http://localhost:14268/api/traces"),
	}
}

func fixPort(port string) string {
	if port != "" && !strings.HasPrefix(port, ":") {
		return ":" + port
	}
	return port
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v == "true"
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
