package config

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func MustInitPostgres(s PostgresSettings, logger *zap.Logger) *sql.DB {
	connStr := "host=" + s.Host + " port=" + s.Port + " user=" + s.User +
		" password=" + s.Password + " dbname=" + s.Name + " sslmode=disable"

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	if err = db.Ping(); err != nil {
		logger.Fatal("failed to ping database", zap.Error(err))
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis(s RedisSettings, logger *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: s.Host + ":" + s.Port,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}

	return client
}

func NewKafkaReader(s KafkaSettings) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{s.Broker},
		Topic:   s.OrdersTopic,
		GroupID: s.ConsumerGroup,
	})
}

func NewKafkaWriter(s KafkaSettings) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(s.Broker),
		Topic:    s.OrdersTopic,
		Balancer: &kafka.Hash{},
	}
}
