package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Settings holds configuration shared by all services.
type Settings struct {
	Postgres PostgresSettings
	Redis    RedisSettings
	Kafka    KafkaSettings
	Cart     CartSettings
	Gateway  GatewaySettings
	Log      LogSettings
}

type PostgresSettings struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

type RedisSettings struct {
	Host string
	Port string
}

type KafkaSettings struct {
	Broker        string
	OrdersTopic   string `mapstructure:"orders_topic"`
	ConsumerGroup string `mapstructure:"consumer_group"`
}

// CartSettings controls cart persistence and pricing policy.
type CartSettings struct {
	Addr        string
	KeyPrefix   string        `mapstructure:"key_prefix"`
	TTL         time.Duration `mapstructure:"ttl"`
	DeliveryFee float64       `mapstructure:"delivery_fee"`
	TaxRate     float64       `mapstructure:"tax_rate"`
	QRBaseURL   string        `mapstructure:"qr_base_url"`
	QRSize      int           `mapstructure:"qr_size"`
}

// GatewaySettings configures the edge. SessionTTL is the idle time after which a
// login session is dropped.
type GatewaySettings struct {
	Addr       string
	CartSvcURL string        `mapstructure:"cart_svc_url"`
	AggSvcURL  string        `mapstructure:"agg_svc_url"`
	AggAddr    string        `mapstructure:"agg_addr"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

type LogSettings struct {
	Level       string
	Development bool
}

// Load reads settings from the environment. The infrastructure variables keep their
// plain names (DB_HOST, REDIS_HOST, KAFKA_BROKER, ...); everything else can be
// overridden with the DELIVERY_ prefix, e.g. DELIVERY_CART_TAX_RATE.
func Load() (Settings, error) {
	v := viper.New()

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.name", "delivery")
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("kafka.broker", "localhost:9092")
	v.SetDefault("kafka.orders_topic", "orders")
	v.SetDefault("kafka.consumer_group", "agg-svc")
	v.SetDefault("cart.addr", ":8081")
	v.SetDefault("cart.key_prefix", "cart")
	v.SetDefault("cart.ttl", 7*24*time.Hour)
	v.SetDefault("cart.delivery_fee", 2.99)
	v.SetDefault("cart.tax_rate", 0.08)
	v.SetDefault("cart.qr_base_url", "http://localhost/orders")
	v.SetDefault("cart.qr_size", 256)
	v.SetDefault("gateway.addr", ":8080")
	v.SetDefault("gateway.cart_svc_url", "http://localhost:8081")
	v.SetDefault("gateway.agg_svc_url", "http://localhost:8082")
	v.SetDefault("gateway.agg_addr", ":8082")
	v.SetDefault("gateway.session_ttl", 24*time.Hour)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)

	legacy := map[string]string{
		"postgres.host":        "DB_HOST",
		"postgres.port":        "DB_PORT",
		"postgres.name":        "DB_NAME",
		"postgres.user":        "DB_USER",
		"postgres.password":    "DB_PASSWORD",
		"redis.host":           "REDIS_HOST",
		"redis.port":           "REDIS_PORT",
		"kafka.broker":         "KAFKA_BROKER",
		"gateway.cart_svc_url": "CART_SVC_URL",
		"gateway.agg_svc_url":  "AGG_SVC_URL",
	}
	for key, env := range legacy {
		if err := v.BindEnv(key, env); err != nil {
			return Settings{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	v.SetEnvPrefix("DELIVERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("unmarshal settings: %w", err)
	}
	return s, nil
}

// MustLoad is Load for service entrypoints.
func MustLoad() Settings {
	s, err := Load()
	if err != nil {
		panic(err)
	}
	return s
}
