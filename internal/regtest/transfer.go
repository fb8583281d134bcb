package regtest

import (
	"context"
	"fmt"

	"regtest-transfer/internal/interfaces"
	"regtest-transfer/internal/logger"
	"regtest-transfer/internal/models"
	"regtest-transfer/internal/validation"
)

// SendOptions parameterizes SendAndConfirm.
type SendOptions struct {
	Amount        models.Amount
	TraderLabel   string
	RewardAddress string
	ConfirmBlocks int
}

// Transfer is the outcome of a confirmed send.
type Transfer struct {
	TxID          string
	TraderAddress string
	BlockHashes   []string
}

// SendAndConfirm pays opts.Amount from miner to a fresh trader address,
// checks that the node accepted the transaction into its mempool and mines
// opts.ConfirmBlocks blocks to opts.RewardAddress.
func SendAndConfirm(ctx context.Context, miner, trader interfaces.WalletAPI, node interfaces.NodeAPI, opts SendOptions) (*Transfer, error) {
	log := logger.GetLogger()

	if opts.ConfirmBlocks < 1 {
		return nil, fmt.Errorf("confirm blocks must be at least 1, got %d", opts.ConfirmBlocks)
	}

	traderAddress, err := trader.GetNewAddress(ctx, opts.TraderLabel)
	if err != nil {
		return nil, fmt.Errorf("failed to get address from %q: %w", trader.Name(), err)
	}

	txid, err := miner.SendToAddress(ctx, traderAddress, opts.Amount)
	if err != nil {
		return nil, fmt.Errorf("failed to send %s to %s: %w", opts.Amount, traderAddress, err)
	}
	if err := validation.ValidateTxHash(txid); err != nil {
		return nil, fmt.Errorf("sendtoaddress returned a bad txid: %w", err)
	}

	log.Info().
		Str("txid", txid).
		Str("to", traderAddress).
		Stringer("amount", opts.Amount).
		Msg("Sent payment")

	entry, err := node.GetMempoolEntry(ctx, txid)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotInMempool, txid, err)
	}
	log.Debug().
		Str("txid", txid).
		Int64("vsize", entry.Vsize).
		Stringer("fee", entry.Fees.Base).
		Msg("Transaction accepted into mempool")

	hashes, err := node.GenerateToAddress(ctx, opts.ConfirmBlocks, opts.RewardAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to mine confirming block: %w", err)
	}

	log.Info().
		Str("txid", txid).
		Int("blocks", len(hashes)).
		Msg("Mined confirming blocks")

	return &Transfer{
		TxID:          txid,
		TraderAddress: traderAddress,
		BlockHashes:   hashes,
	}, nil
}
