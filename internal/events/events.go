package events

import (
	"context"

	"regtest-transfer/internal/interfaces"
	"regtest-transfer/internal/logger"
	"regtest-transfer/internal/models"
)

// LogEmitter logs every report field and forwards to the wrapped emitter
type LogEmitter struct {
	WrappedEmitter interfaces.EventEmitter
}

// EmitEvent logs the report and forwards it to the wrapped emitter
func (d *LogEmitter) EmitEvent(ctx context.Context, event models.ReportEvent) error {
	log := logger.GetLogger()

	log.Info().
		Str("txid", event.TxHash).
		Str("network", event.Network.String()).
		Msg("TRANSFER REPORT")

	log.Info().
		Str("txid", event.TxHash).
		Str("minerInputAddress", event.MinerInputAddress).
		Stringer("minerInputAmount", event.MinerInputAmount).
		Str("traderOutputAddress", event.TraderOutputAddress).
		Stringer("traderOutputAmount", event.TraderOutputAmount).
		Str("minerChangeAddress", event.MinerChangeAddress).
		Stringer("minerChangeAmount", event.MinerChangeAmount).
		Stringer("fee", event.Fee).
		Msg("Transaction details")

	log.Info().
		Str("txid", event.TxHash).
		Int64("blockHeight", event.BlockHeight).
		Str("blockHash", event.BlockHash).
		Time("timestamp", event.Timestamp).
		Msg("Block details")

	if d.WrappedEmitter != nil {
		return d.WrappedEmitter.EmitEvent(ctx, event)
	}
	return nil
}

// MultiEmitter hands each event to every emitter in order and stops at
// the first failure.
type MultiEmitter []interfaces.EventEmitter

func (m MultiEmitter) EmitEvent(ctx context.Context, event models.ReportEvent) error {
	for _, emitter := range m {
		if err := emitter.EmitEvent(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
