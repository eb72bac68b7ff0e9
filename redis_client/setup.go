package redis_client

import (
	"context"
	"fmt"
	"time"

	"github.com/creasty/defaults"
	redis "github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// pingTimeout bounds the connectivity check in New.
const pingTimeout = 5 * time.Second

// New dials Redis and verifies the connection with a ping. The caller
// owns the returned client and must Close it.
func New(cnf Config, logger *zap.Logger) (*redis.Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := defaults.Set(&cnf); err != nil {
		return nil, fmt.Errorf("redis_client: apply defaults: %w", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cnf.Addr(),
		Password: cnf.Password,
		DB:       cnf.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis_client: ping %s: %w", cnf.Addr(), err)
	}

	logger.Debug("redis connected", zap.String("fields", configLogFields(cnf)))
	return client, nil
}

func configLogFields(cnf Config) string {
	return fmt.Sprintf("addr=%s db=%d password=%s", cnf.Addr(), cnf.DB, redactedPassword(cnf.Password))
}

func redactedPassword(password string) string {
	if password == "" {
		return "<empty>"
	}
	return "[REDACTED]"
}
