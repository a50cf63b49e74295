package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServicePort    string
	MetricsPort    string
	Environment    string
	MongoConfig    MongoConfig
	CallbackConfig CallbackConfig
	JWTSecret      string
	KafkaConfig    KafkaConfig
	PlatformConfig PlatformConfig
	TracingConfig  TracingConfig
}

type MongoConfig struct {
	URI    string
	DBName string
}

type CallbackConfig struct {
	SignatureSecret string
	StoreTimeout    time.Duration
	StaticDir       string
}

type KafkaConfig struct {
	BrokerAddress   string
	BrokerTopic     string
	BrokerPartition int
}

type PlatformConfig struct {
	APIBaseURL string
	APIKey     string
}

type TracingConfig struct {
	CollectorHost string
}

func CreateNewConfig() *Config {
	godotenv.Load(".env")

	conf := Config{
		ServicePort: os.Getenv("SERVICE_PORT"),
		MetricsPort: os.Getenv("METRICS_PORT"),
		Environment: os.Getenv("ENVIRONMENT"),
		MongoConfig: MongoConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: os.Getenv("MONGODB_DB_NAME"),
		},
		CallbackConfig: CallbackConfig{
			SignatureSecret: os.Getenv("SIGNATURE_SECRET"),
			StoreTimeout:    getDurationSecondsEnv("STORE_TIMEOUT_SECONDS", 3),
			StaticDir:       os.Getenv("STATIC_DIR"),
		},
		JWTSecret: os.Getenv("JWT_SECRET"),
		KafkaConfig: KafkaConfig{
			BrokerAddress:   os.Getenv("BROKER_ADDRESS"),
			BrokerTopic:     os.Getenv("BROKER_TOPIC"),
			BrokerPartition: getIntEnv("BROKER_PARTITION", 0),
		},
		PlatformConfig: PlatformConfig{
			APIBaseURL: os.Getenv("PLATFORM_API_URL"),
			APIKey:     os.Getenv("PLATFORM_API_KEY"),
		},
		TracingConfig: TracingConfig{
			CollectorHost: os.Getenv("COLLECTOR_HOST"),
		},
	}

	if conf.MongoConfig.DBName == "" {
		conf.MongoConfig.DBName = "callback_service"
	}

	if conf.CallbackConfig.StaticDir == "" {
		conf.CallbackConfig.StaticDir = "public"
	}

	return &conf
}

func getIntEnv(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}

	return value
}

func getDurationSecondsEnv(key string, fallbackSeconds int) time.Duration {
	return time.Duration(getIntEnv(key, fallbackSeconds)) * time.Second
}
