package regtest

import (
	"context"
	"fmt"
	"time"

	"regtest-transfer/internal/config"
	"regtest-transfer/internal/interfaces"
	"regtest-transfer/internal/logger"
	"regtest-transfer/internal/models"
	"regtest-transfer/internal/report"
)

// Options collects everything Run needs besides the node.
type Options struct {
	Network           models.Network
	MinerWallet       string
	TraderWallet      string
	MinerLabel        string
	TraderLabel       string
	SendAmount        models.Amount
	ConfirmBlocks     int
	MaxMaturityBlocks int
	OutputPath        string
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Network:           cfg.Network,
		MinerWallet:       cfg.Wallets.Miner,
		TraderWallet:      cfg.Wallets.Trader,
		MinerLabel:        cfg.Wallets.MinerLabel,
		TraderLabel:       cfg.Wallets.TraderLabel,
		SendAmount:        cfg.Wallets.SendAmount,
		ConfirmBlocks:     cfg.Mining.ConfirmBlocks,
		MaxMaturityBlocks: cfg.Mining.MaxMaturityBlocks,
		OutputPath:        cfg.OutputPath,
	}
}

// Run performs one complete transfer and writes its report to
// opts.OutputPath. The report is then handed to every sink; a sink
// failure fails the run.
func Run(ctx context.Context, node interfaces.NodeAPI, opts Options, sinks ...interfaces.EventEmitter) (*report.Report, error) {
	log := logger.GetLogger()

	params, err := opts.Network.Params()
	if err != nil {
		return nil, err
	}

	height, err := node.GetBlockCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reach node: %w", err)
	}
	log.Info().Int64("height", height).Str("network", opts.Network.String()).Msg("Connected to node")

	miner, err := EnsureWallet(ctx, node, opts.MinerWallet)
	if err != nil {
		return nil, err
	}
	trader, err := EnsureWallet(ctx, node, opts.TraderWallet)
	if err != nil {
		return nil, err
	}

	rewardAddress, err := miner.GetNewAddress(ctx, opts.MinerLabel)
	if err != nil {
		return nil, fmt.Errorf("failed to get reward address from %q: %w", miner.Name(), err)
	}

	if _, err := MineUntilSpendable(ctx, miner, node, rewardAddress, opts.MaxMaturityBlocks); err != nil {
		return nil, err
	}

	transfer, err := SendAndConfirm(ctx, miner, trader, node, SendOptions{
		Amount:        opts.SendAmount,
		TraderLabel:   opts.TraderLabel,
		RewardAddress: rewardAddress,
		ConfirmBlocks: opts.ConfirmBlocks,
	})
	if err != nil {
		return nil, err
	}

	r, err := Reconstruct(ctx, transfer.TxID, miner, node, transfer.TraderAddress, params)
	if err != nil {
		return nil, err
	}

	if err := report.Write(opts.OutputPath, r); err != nil {
		return nil, err
	}
	log.Info().Str("path", opts.OutputPath).Msg("Report written")

	event := r.Event(opts.Network, time.Now().UTC())
	for _, sink := range sinks {
		if err := sink.EmitEvent(ctx, event); err != nil {
			return r, fmt.Errorf("failed to publish report: %w", err)
		}
	}

	return r, nil
}
