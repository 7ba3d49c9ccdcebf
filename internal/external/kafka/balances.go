package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	config "github.com/glkeru/loyalty/ledgersync/internal/config"
	model "github.com/glkeru/loyalty/ledgersync/internal/models"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Событие изменения баланса в топике; ключ сообщения - пользователь
type BalanceEvent struct {
	User    string `json:"user"`
	Balance int64  `json:"balance"`
}

// Поток баланса из Kafka
type BalanceReader struct {
	cfg    config.KafkaConfig
	logger *zap.Logger
}

func NewBalanceReader(cfg config.KafkaConfig, logger *zap.Logger) (*BalanceReader, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("env KAFKA_BALANCE_BROKERS is not set")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("env KAFKA_BALANCE_TOPIC is not set")
	}
	if cfg.Partition < 0 {
		return nil, fmt.Errorf("env KAFKA_BALANCE_PARTITION must not be negative")
	}
	return &BalanceReader{cfg, logger}, nil
}

// Чтение партиции без группы: на брокере не остается групп и офсетов,
// каждый подписчик читает партицию с конца
func (k *BalanceReader) readerConfig() kafka.ReaderConfig {
	return kafka.ReaderConfig{
		Brokers:     k.cfg.Brokers,
		Topic:       k.cfg.Topic,
		Partition:   k.cfg.Partition,
		StartOffset: kafka.LastOffset,
	}
}

func (k *BalanceReader) WatchBalance(ctx context.Context, user string) (<-chan int64, error) {
	reader := kafka.NewReader(k.readerConfig())

	out := make(chan int64, 1)
	go func() {
		defer close(out)
		defer reader.Close()
		for {
			msg, err := reader.ReadMessage(ctx)
			if err != nil {
				if !errors.Is(err, context.Canceled) && ctx.Err() == nil {
					k.logger.Error("balance stream", zap.String("user", user), zap.Error(err))
				}
				return
			}
			if len(msg.Key) > 0 && string(msg.Key) != user {
				continue
			}
			points, err := parseBalanceEvent(msg.Value, user)
			if err != nil {
				if !errors.Is(err, model.ErrNotFound) {
					k.logger.Warn("bad balance event", zap.ByteString("value", msg.Value), zap.Error(err))
				}
				continue
			}
			sendLatest(out, points)
		}
	}()
	return out, nil
}

// Баланс из события; событие другого пользователя - ErrNotFound
func parseBalanceEvent(value []byte, user string) (int64, error) {
	var ev BalanceEvent
	if err := json.Unmarshal(value, &ev); err != nil {
		return 0, err
	}
	if ev.User != user {
		return 0, fmt.Errorf("balance event of %q: %w", ev.User, model.ErrNotFound)
	}
	return ev.Balance, nil
}

// Без блокировки; в буфере остается последнее значение
func sendLatest(out chan int64, v int64) {
	select {
	case out <- v:
		return
	default:
	}
	select {
	case <-out:
	default:
	}
	out <- v
}
