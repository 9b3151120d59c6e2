package chain

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ConnectConfig holds connection retry settings.
type ConnectConfig struct {
	RPCURL     string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// ConnectWithRetry dials the RPC endpoint up to MaxRetries times, waiting
// RetryDelay between attempts. Exhausting retries is a startup failure.
func ConnectWithRetry(ctx context.Context, cfg ConnectConfig, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 1
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxRetries; attempt++ {
		logger.Info("connecting to rpc", zap.Int("attempt", attempt), zap.Int("max_attempts", cfg.MaxRetries))

		client, err := Dial(ctx, cfg.RPCURL, cfg.Timeout)
		if err == nil {
			logger.Info("rpc connected", zap.String("rpc", cfg.RPCURL))
			return client, nil
		}

		lastErr = err
		logger.Warn("rpc connection attempt failed", zap.Int("attempt", attempt), zap.Error(err))

		if attempt == cfg.MaxRetries {
			break
		}

		timer := time.NewTimer(cfg.RetryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return nil, fmt.Errorf("connect rpc after %d attempts: %w", cfg.MaxRetries, lastErr)
}
