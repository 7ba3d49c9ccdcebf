package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	config "github.com/glkeru/loyalty/ledgersync/internal/config"
	model "github.com/glkeru/loyalty/ledgersync/internal/models"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func balanceKey(user string) string {
	return "balance:" + user
}

func balanceChannel(user string) string {
	return "balance:" + user + ":updates"
}

// Кэш баланса и поток изменений баланса через pub/sub
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCacheService(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (serv *CacheService, err error) {
	db := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		Username:    cfg.User,
		DB:          0,
		MaxRetries:  5,
		DialTimeout: 10 * time.Second,
	})
	err = db.Ping(ctx).Err()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("redis ping: %w: %w", model.ErrNetwork, err)
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CacheService{db, ttl, logger}, nil
}

func (c *CacheService) Close() error {
	return c.client.Close()
}

func (c *CacheService) GetBalance(ctx context.Context, user string) (points int64, err error) {
	val, err := c.client.Get(ctx, balanceKey(user)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("balance %s %w", user, model.ErrNotFound)
	} else if err != nil {
		return 0, err
	}

	points, err = strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, err
	}
	return points, nil
}

func (c *CacheService) SetBalance(ctx context.Context, user string, points int64) (err error) {
	return c.client.Set(ctx, balanceKey(user), points, c.ttl).Err()
}

func (c *CacheService) InvalidateBalance(ctx context.Context, user string) error {
	return c.client.Del(ctx, balanceKey(user)).Err()
}

// Опубликовать новый баланс подписчикам
func (c *CacheService) PublishBalance(ctx context.Context, user string, points int64) error {
	return c.client.Publish(ctx, balanceChannel(user), points).Err()
}

// Подписка на изменения баланса. Если потребитель не успевает, остается только последнее значение.
func (c *CacheService) WatchBalance(ctx context.Context, user string) (<-chan int64, error) {
	sub := c.client.Subscribe(ctx, balanceChannel(user))
	// ждем подтверждения подписки
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w: %w", user, model.ErrNetwork, err)
	}

	out := make(chan int64, 1)
	msgs := sub.Channel()
	go func() {
		defer close(out)
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				points, err := strconv.ParseInt(msg.Payload, 10, 64)
				if err != nil {
					c.logger.Warn("bad balance message",
						zap.String("user", user),
						zap.String("payload", msg.Payload),
						zap.Error(err),
					)
					continue
				}
				sendLatest(out, points)
			}
		}
	}()
	return out, nil
}

// Отправка без блокировки: устаревшее значение в буфере заменяется новым.
// Отправитель у канала один.
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
