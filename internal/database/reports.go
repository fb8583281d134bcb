package database

import (
	"context"
	"errors"
	"fmt"

	"regtest-transfer/internal/logger"
	"regtest-transfer/internal/models"
)

const insertReport = `
	INSERT INTO reports (
		txid, network,
		miner_input_address, miner_input_amount,
		trader_output_address, trader_output_amount,
		miner_change_address, miner_change_amount,
		fee, block_height, blockhash, reported_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (txid) DO NOTHING
`

// reportArgs lists the insert parameters in column order. Amounts are
// passed as their 8-decimal text so NUMERIC stores them exactly.
func reportArgs(event models.ReportEvent) []interface{} {
	return []interface{}{
		event.TxHash,
		event.Network.String(),
		event.MinerInputAddress,
		event.MinerInputAmount.String(),
		event.TraderOutputAddress,
		event.TraderOutputAmount.String(),
		event.MinerChangeAddress,
		event.MinerChangeAmount.String(),
		event.Fee.String(),
		event.BlockHeight,
		event.BlockHash,
		event.Timestamp,
	}
}

// SaveReport stores a report. Saving the same txid twice is a no-op.
func SaveReport(ctx context.Context, event models.ReportEvent) (bool, error) {
	if DB == nil {
		return false, errors.New("database is not initialized")
	}

	res, err := DB.ExecContext(ctx, insertReport, reportArgs(event)...)
	if err != nil {
		return false, fmt.Errorf("failed to save report %s: %w", event.TxHash, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ReportEmitter persists every report it is given.
type ReportEmitter struct{}

func (ReportEmitter) EmitEvent(ctx context.Context, event models.ReportEvent) error {
	inserted, err := SaveReport(ctx, event)
	if err != nil {
		return err
	}

	logger.GetLogger().Info().
		Str("txid", event.TxHash).
		Bool("inserted", inserted).
		Msg("Stored report")
	return nil
}
