package regtest

import (
	"context"
	"fmt"

	"regtest-transfer/internal/interfaces"
	"regtest-transfer/internal/logger"
)

// MineUntilSpendable generates one block at a time to address until the
// wallet reports a positive balance, and returns how many blocks it mined.
// maxBlocks bounds the loop; zero means no bound.
func MineUntilSpendable(ctx context.Context, wallet interfaces.WalletAPI, node interfaces.NodeAPI, address string, maxBlocks int) (int, error) {
	log := logger.GetLogger()

	mined := 0
	for {
		balance, err := wallet.GetBalance(ctx)
		if err != nil {
			return mined, fmt.Errorf("failed to get balance of %q: %w", wallet.Name(), err)
		}

		if balance > 0 {
			log.Info().
				Str("wallet", wallet.Name()).
				Int("blocks", mined).
				Stringer("balance", balance).
				Msg("Mined blocks to get spendable balance")
			return mined, nil
		}

		if maxBlocks > 0 && mined >= maxBlocks {
			return mined, fmt.Errorf("%w in %q after %d blocks", ErrNoSpendableBalance, wallet.Name(), mined)
		}

		if _, err := node.GenerateToAddress(ctx, 1, address); err != nil {
			return mined, fmt.Errorf("failed to mine block %d: %w", mined+1, err)
		}
		mined++

		if mined%25 == 0 {
			log.Debug().Int("blocks", mined).Msg("Still waiting for coinbase maturity")
		}
	}
}
