package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/pathways-backend/internal/clients/kafka"
	"github.com/yungbote/pathways-backend/internal/clients/redis"
	"github.com/yungbote/pathways-backend/internal/data/aggregates"
	"github.com/yungbote/pathways-backend/internal/platform/logger"
	"github.com/yungbote/pathways-backend/internal/realtime/bus"
)

// Clients holds the optional infrastructure clients. A nil field means the
// integration is disabled and the in-process fallback is used.
type Clients struct {
	Redis   *goredis.Client
	Locker  aggregates.UserLocker
	SSEBus  bus.Bus
	Journey *kafka.JourneyPublisher
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	// Redis: shared user lock and cross-replica SSE fan-out
	if cfg.Redis.Addr != "" {
		rdb, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis: %w", err)
		}
		out.Redis = rdb
		out.Locker = redis.NewLocker(rdb, log, redis.LockerOptions{TTL: cfg.LockTTL, Wait: cfg.LockWait})
		b, err := bus.NewRedisBus(log, rdb, cfg.RedisChannel)
		if err != nil {
			_ = rdb.Close()
			return Clients{}, fmt.Errorf("init redis SSE bus: %w", err)
		}
		out.SSEBus = b
		log.Info("redis enabled", "addr", cfg.Redis.Addr, "channel", cfg.RedisChannel)
	} else {
		out.Locker = aggregates.NewMemoryLockerWithWait(cfg.LockWait)
		log.Info("redis disabled; using in-process user locks")
	}

	// Kafka: journey history event stream
	if len(cfg.Kafka.Brokers) > 0 {
		pub, err := kafka.NewJourneyPublisher(log, cfg.Kafka)
		if err != nil {
			out.Close(log)
			return Clients{}, fmt.Errorf("init kafka journey publisher: %w", err)
		}
		out.Journey = pub
		log.Info("kafka enabled", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}
	return out, nil
}

func (c Clients) Close(log *logger.Logger) {
	if c.Journey != nil {
		if err := c.Journey.Close(); err != nil {
			log.Warn("kafka publisher close failed", "error", err)
		}
	}
	if c.SSEBus != nil {
		_ = c.SSEBus.Close()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn("redis close failed", "error", err)
		}
	}
}
