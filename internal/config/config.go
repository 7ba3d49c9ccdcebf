package ledger

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Источник потока баланса
const (
	StreamRedis = "redis"
	StreamKafka = "kafka"
	StreamNone  = "none"
)

type Config struct {
	HTTPAddr     string
	OTLPEndpoint string
	Engine       EngineConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Mongo        MongoConfig
	Rabbit       RabbitConfig
	Kafka        KafkaConfig
}

// Параметры движка
type EngineConfig struct {
	PageSize            int
	Debounce            time.Duration
	ReconcileInterval   time.Duration
	ReconcileCategories bool
	BatchConcurrency    int
	BatchChunk          int
	BalanceStream       string
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

func (p PostgresConfig) DSN() string {
	return connURL("postgres", p.User, p.Password, p.Host, p.Port, p.Database)
}

type RedisConfig struct {
	Addr     string
	User     string
	Password string
	TTL      time.Duration
}

type MongoConfig struct {
	Addr     string
	Database string
}

type RabbitConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	VHost          string
	ConfirmTimeout time.Duration
}

func (r RabbitConfig) URL() string {
	return connURL("amqp", r.User, r.Password, r.Host, r.Port, r.VHost)
}

// Пароль и путь экранируются
func connURL(scheme, user, password, host, port, path string) string {
	u := url.URL{
		Scheme: scheme,
		User:   url.UserPassword(user, password),
		Host:   net.JoinHostPort(host, port),
		Path:   "/" + path,
	}
	return u.String()
}

type KafkaConfig struct {
	Brokers   []string
	Topic     string
	Partition int
}

// Load читает конфигурацию из переменных окружения
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("LEDGERSYNC_HTTP_ADDR", ":8080")
	v.SetDefault("LEDGERSYNC_PAGE_SIZE", 20)
	v.SetDefault("LEDGERSYNC_DEBOUNCE", 300*time.Millisecond)
	v.SetDefault("LEDGERSYNC_RECONCILE_INTERVAL", 5*time.Minute)
	v.SetDefault("LEDGERSYNC_RECONCILE_CATEGORIES", false)
	v.SetDefault("LEDGERSYNC_BATCH_CONCURRENCY", 4)
	v.SetDefault("LEDGERSYNC_BATCH_CHUNK", 1)
	v.SetDefault("LEDGERSYNC_BALANCE_STREAM", StreamRedis)
	v.SetDefault("POINTS_CACHE_TTL", 5*time.Minute)
	v.SetDefault("ENGINE_MONGO_DB", "engineDB")
	v.SetDefault("RABBIT_VHOST", "points")
	v.SetDefault("RABBIT_CONFIRM_TIMEOUT", 10*time.Second)
	v.SetDefault("KAFKA_BALANCE_TOPIC", "balances")
	v.SetDefault("KAFKA_BALANCE_PARTITION", 0)
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")

	v.AutomaticEnv()

	cfg := Config{
		HTTPAddr:     v.GetString("LEDGERSYNC_HTTP_ADDR"),
		OTLPEndpoint: v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		Engine: EngineConfig{
			PageSize:            v.GetInt("LEDGERSYNC_PAGE_SIZE"),
			Debounce:            v.GetDuration("LEDGERSYNC_DEBOUNCE"),
			ReconcileInterval:   v.GetDuration("LEDGERSYNC_RECONCILE_INTERVAL"),
			ReconcileCategories: v.GetBool("LEDGERSYNC_RECONCILE_CATEGORIES"),
			BatchConcurrency:    v.GetInt("LEDGERSYNC_BATCH_CONCURRENCY"),
			BatchChunk:          v.GetInt("LEDGERSYNC_BATCH_CHUNK"),
			BalanceStream:       strings.ToLower(v.GetString("LEDGERSYNC_BALANCE_STREAM")),
		},
		Postgres: PostgresConfig{
			Host:     v.GetString("POINTS_DB"),
			Port:     v.GetString("POINTS_DB_PORT"),
			User:     v.GetString("POINTS_DB_USER"),
			Password: v.GetString("POINTS_DB_PASSWORD"),
			Database: v.GetString("POINTS_DB_BASE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("POINTS_CACHE_URL"),
			User:     v.GetString("POINTS_CACHE_USER"),
			Password: v.GetString("POINTS_CACHE_PWD"),
			TTL:      v.GetDuration("POINTS_CACHE_TTL"),
		},
		Mongo: MongoConfig{
			Addr:     v.GetString("ENGINE_MONGO"),
			Database: v.GetString("ENGINE_MONGO_DB"),
		},
		Rabbit: RabbitConfig{
			Host:           v.GetString("RABBIT_URL"),
			Port:           v.GetString("RABBIT_PORT"),
			User:           v.GetString("RABBIT_USER"),
			Password:       v.GetString("RABBIT_PASSWORD"),
			VHost:          v.GetString("RABBIT_VHOST"),
			ConfirmTimeout: v.GetDuration("RABBIT_CONFIRM_TIMEOUT"),
		},
		Kafka: KafkaConfig{
			Topic:     v.GetString("KAFKA_BALANCE_TOPIC"),
			Partition: v.GetInt("KAFKA_BALANCE_PARTITION"),
		},
	}
	if brokers := v.GetString("KAFKA_BALANCE_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = strings.Split(brokers, ",")
	}

	if err := cfg.validate(v); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate(v *viper.Viper) error {
	required := []string{
		"POINTS_DB", "POINTS_DB_PORT", "POINTS_DB_USER", "POINTS_DB_PASSWORD", "POINTS_DB_BASE",
		"POINTS_CACHE_URL",
		"ENGINE_MONGO",
		"RABBIT_URL", "RABBIT_PORT", "RABBIT_USER", "RABBIT_PASSWORD",
	}
	switch c.Engine.BalanceStream {
	case StreamRedis, StreamNone:
	case StreamKafka:
		required = append(required, "KAFKA_BALANCE_BROKERS")
	default:
		return fmt.Errorf("env LEDGERSYNC_BALANCE_STREAM: unknown stream %q", c.Engine.BalanceStream)
	}
	for _, key := range required {
		if v.GetString(key) == "" {
			return fmt.Errorf("env %s is not set", key)
		}
	}
	if c.Engine.PageSize < 1 {
		return fmt.Errorf("env LEDGERSYNC_PAGE_SIZE must be positive")
	}
	return nil
}
