package util

import (
	"fmt"
	"os"
	"strconv"

	"github.com/OFFIS-RIT/docvis/pkg/logger"

	"github.com/joho/godotenv"
)

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using system environment variables")
	}
}

func GetEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return ""
	}
	return value
}

func GetEnvString(key string, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	return value
}

func GetEnvNumeric(key string, defaultValue int) float64 {
	value, exists := os.LookupEnv(key)
	if !exists {
		return float64(defaultValue)
	}
	returnValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return float64(defaultValue)
	}

	return returnValue
}

func GetEnvBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	if value == "true" || value == "false" {
		return value == "true"
	}

	return defaultValue
}

// Config is the process configuration shared by the server, worker and
// MCP binaries.
type Config struct {
	Port      string
	Debug     bool
	LogFormat string
	// WorkerMetricsPort serves /metrics from the worker.
	WorkerMetricsPort string

	StoreDriver string
	DatabaseURL string
	SQLitePath  string

	AIAdapter        string
	AIChatURL        string
	AIChatKey        string
	AIChatModel      string
	AIPromptMaxToken int
	AIParallelReq    int

	AnalyzerParallelSegments int
	LexiconPath              string

	AuthURL      string
	MasterAPIKey string

	RabbitMQURL string
	// EnableQueue lets the server submit jobs to the worker queue.
	EnableQueue bool

	AWSRegion    string
	AWSEndpoint  string
	AWSAccessKey string
	AWSSecretKey string
	AWSBucket    string

	// FallbackSeed is zero when the fallback concept map should be seeded
	// from the clock.
	FallbackSeed int64
}

// S3Enabled reports whether a bucket is configured.
func (c Config) S3Enabled() bool {
	return c.AWSBucket != ""
}

// LoadConfig reads Config from the environment. LoadEnv should run first.
func LoadConfig() Config {
	return Config{
		Port:      GetEnvString("PORT", "8080"),
		Debug:     GetEnvBool("DEBUG", false),
		LogFormat: GetEnvString("LOG_FORMAT", "text"),

		WorkerMetricsPort: GetEnvString("WORKER_METRICS_PORT", "9091"),

		StoreDriver: GetEnvString("STORE_DRIVER", "memory"),
		DatabaseURL: GetEnv("DATABASE_URL"),
		SQLitePath:  GetEnvString("SQLITE_PATH", "docvis.db"),

		AIAdapter:        GetEnvString("AI_ADAPTER", "none"),
		AIChatURL:        GetEnv("AI_CHAT_URL"),
		AIChatKey:        GetEnv("AI_CHAT_KEY"),
		AIChatModel:      GetEnvString("AI_CHAT_MODEL", "gpt-4o-mini"),
		AIPromptMaxToken: int(GetEnvNumeric("AI_PROMPT_MAX_TOKENS", 6000)),
		AIParallelReq:    int(GetEnvNumeric("AI_PARALLEL_REQ", 4)),

		AnalyzerParallelSegments: int(GetEnvNumeric("ANALYZER_PARALLEL_SEGMENTS", 8)),
		LexiconPath:              GetEnv("LEXICON_PATH"),

		AuthURL:      GetEnv("AUTH_URL"),
		MasterAPIKey: GetEnv("MASTER_API_KEY"),

		RabbitMQURL: fmt.Sprintf("amqp://%s:%s@%s:%s/",
			GetEnvString("RABBITMQ_USER", "guest"),
			GetEnvString("RABBITMQ_PASSWORD", "guest"),
			GetEnvString("RABBITMQ_HOST", "localhost"),
			GetEnvString("RABBITMQ_PORT", "5672"),
		),
		EnableQueue: GetEnvBool("ENABLE_QUEUE", false),

		AWSRegion:    GetEnvString("AWS_REGION", "us-east-1"),
		AWSEndpoint:  GetEnv("AWS_ENDPOINT"),
		AWSAccessKey: GetEnv("AWS_ACCESS_KEY"),
		AWSSecretKey: GetEnv("AWS_SECRET_KEY"),
		AWSBucket:    GetEnv("AWS_BUCKET"),

		FallbackSeed: int64(GetEnvNumeric("FALLBACK_SEED", 0)),
	}
}
