package health

import (
	"context"
	"errors"
	"fmt"
	"time"

	"regtest-transfer/internal/interfaces"
	"regtest-transfer/internal/logger"
	"regtest-transfer/internal/rpc"

	"github.com/avast/retry-go/v4"
)

// PollInterval is the delay between readiness probes.
var PollInterval = time.Second

// ErrNodeNotReady is returned when the node does not answer within the wait timeout.
var ErrNodeNotReady = errors.New("node not ready")

// WaitForNode probes getblockcount until the node answers and returns the
// chain height. A node in warmup or an unreachable endpoint is retried
// until timeout elapses; any other node error is returned immediately.
func WaitForNode(ctx context.Context, node interfaces.NodeAPI, timeout time.Duration) (int64, error) {
	log := logger.GetLogger()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		height   int64
		attempts int
		lastErr  error
	)
	err := retry.Do(
		func() error {
			attempts++
			h, err := node.GetBlockCount(ctx)
			if err != nil {
				lastErr = err
				if rpc.IsRPCError(err) && !rpc.IsCode(err, rpc.CodeInWarmup) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			height = h
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(0),
		retry.Delay(PollInterval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Debug().Err(err).Uint("attempt", n+1).Msg("Node not ready yet")
		}),
	)
	if err != nil {
		if ctx.Err() != nil && lastErr != nil {
			return 0, fmt.Errorf("%w after %d attempts: %w", ErrNodeNotReady, attempts, lastErr)
		}
		return 0, err
	}

	log.Info().Int64("height", height).Int("attempts", attempts).Msg("Node is ready")
	return height, nil
}
