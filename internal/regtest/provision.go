package regtest

import (
	"context"
	"fmt"
	"slices"

	"regtest-transfer/internal/interfaces"
	"regtest-transfer/internal/logger"
	"regtest-transfer/internal/rpc"
)

// EnsureWallet makes sure the named wallet is loaded and returns a session
// bound to it. A wallet already on disk is loaded; otherwise it is created.
// Only node-level RPC errors trigger the create fallback; transport
// failures are returned as is.
func EnsureWallet(ctx context.Context, node interfaces.NodeAPI, name string) (interfaces.WalletAPI, error) {
	log := logger.GetLogger()

	wallets, err := node.ListWallets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}

	if slices.Contains(wallets, name) {
		log.Debug().Str("wallet", name).Msg("Wallet already loaded")
		return node.Wallet(name), nil
	}

	err = node.LoadWallet(ctx, name)
	switch {
	case err == nil:
		log.Info().Str("wallet", name).Msg("Loaded wallet from disk")
	case rpc.IsCode(err, rpc.CodeWalletAlreadyLoaded):
		log.Debug().Str("wallet", name).Msg("Wallet was loaded concurrently")
	case rpc.IsRPCError(err):
		log.Debug().Err(err).Str("wallet", name).Msg("Wallet could not be loaded, creating it")
		if err := node.CreateWallet(ctx, name); err != nil {
			return nil, fmt.Errorf("failed to create wallet %q: %w", name, err)
		}
		log.Info().Str("wallet", name).Msg("Created wallet")
	default:
		return nil, fmt.Errorf("failed to load wallet %q: %w", name, err)
	}

	return node.Wallet(name), nil
}
