package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Gateway  GatewayConfig
	Geo      GeoConfig
	Observ   ObservabilityConfig
	Business BusinessConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

type GatewayConfig struct {
	KeyID       string
	KeySecret   string
	DeclineRate float64
}

type GeoConfig struct {
	BaseURL string
}

type ObservabilityConfig struct {
	JaegerEndpoint string
}

type BusinessConfig struct {
	CurrencyCode          string
	TaxRate               float64
	FreeShippingThreshold int64
	FlatShippingFee       int64
	WalletRateMinor       int64
	DeliveryDays          int
}

func Load() *Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	declineRate, _ := strconv.ParseFloat(getEnv("GATEWAY_DECLINE_RATE", "0.05"), 64)
	taxRate, _ := strconv.ParseFloat(getEnv("TAX_RATE", "0.18"), 64)
	freeShipping, _ := strconv.ParseInt(getEnv("FREE_SHIPPING_THRESHOLD", "50000"), 10, 64)
	flatShipping, _ := strconv.ParseInt(getEnv("FLAT_SHIPPING_FEE", "5000"), 10, 64)
	walletRate, _ := strconv.ParseInt(getEnv("WALLET_RATE_MINOR", "200000"), 10, 64)
	deliveryDays, _ := strconv.Atoi(getEnv("DELIVERY_DAYS", "7"))

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("ENV", "development"),
		},
		Redis: RedisConfig{
			Enabled:  getEnv("REDIS_ENABLED", "false") == "true",
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Enabled: getEnv("KAFKA_ENABLED", "false") == "true",
			Brokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			Topic:   getEnv("KAFKA_TOPIC_STOREFRONT", "storefront-events"),
		},
		Gateway: GatewayConfig{
			KeyID:       getEnv("GATEWAY_KEY_ID", "rzp_test_demo"),
			KeySecret:   getEnv("GATEWAY_KEY_SECRET", "demo-secret"),
			DeclineRate: declineRate,
		},
		Geo: GeoConfig{
			BaseURL: getEnv("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
		},
		Observ: ObservabilityConfig{
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
		},
		Business: BusinessConfig{
			CurrencyCode:          getEnv("CURRENCY_CODE", "INR"),
			TaxRate:               taxRate,
			FreeShippingThreshold: freeShipping,
			FlatShippingFee:       flatShipping,
			WalletRateMinor:       walletRate,
			DeliveryDays:          deliveryDays,
		},
	}

	log.Printf("Config loaded: env=%s, port=%s", cfg.Server.Env, cfg.Server.Port)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
