package regtest

import (
	"context"
	"fmt"

	"regtest-transfer/internal/interfaces"
	"regtest-transfer/internal/logger"
	"regtest-transfer/internal/models"
	"regtest-transfer/internal/report"
	"regtest-transfer/internal/rpc"
	"regtest-transfer/internal/validation"

	"github.com/btcsuite/btcd/chaincfg"
)

// attributedOutput is an output together with its canonical address.
type attributedOutput struct {
	Address string
	Amount  models.Amount
}

// Reconstruct builds the report for a confirmed send transaction from the
// miner wallet's view of it, its decoded form, the output spent by its
// first input and the header of the including block.
func Reconstruct(ctx context.Context, txid string, miner interfaces.WalletAPI, node interfaces.NodeAPI, traderAddress string, params *chaincfg.Params) (*report.Report, error) {
	log := logger.GetLogger()

	trader, err := validation.CanonicalAddress(traderAddress, params)
	if err != nil {
		return nil, fmt.Errorf("trader address: %w", err)
	}

	walletTx, err := miner.GetTransaction(ctx, txid)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet transaction %s: %w", txid, err)
	}
	if walletTx.BlockHash == "" {
		return nil, fmt.Errorf("%w: %s has no blockhash (confirmations=%d)", ErrUnexpectedShape, txid, walletTx.Confirmations)
	}
	if walletTx.Fee == nil {
		return nil, fmt.Errorf("%w: wallet reports no fee for %s", ErrUnexpectedShape, txid)
	}
	blockHash, err := validation.NormalizeHash(walletTx.BlockHash)
	if err != nil {
		return nil, fmt.Errorf("%w: blockhash: %w", ErrUnexpectedShape, err)
	}
	fee := walletTx.Fee.Abs()

	decoded, err := miner.GetRawTransaction(ctx, txid, blockHash)
	if err != nil {
		return nil, fmt.Errorf("failed to decode transaction %s: %w", txid, err)
	}

	input, err := fundingInput(ctx, miner, decoded, params)
	if err != nil {
		return nil, err
	}

	payment, change, err := classifyOutputs(decoded.Vout, trader, params)
	if err != nil {
		return nil, err
	}

	header, err := node.GetBlockHeader(ctx, blockHash)
	if err != nil {
		return nil, fmt.Errorf("failed to get block header %s: %w", blockHash, err)
	}
	if header.Confirmations < 1 {
		return nil, fmt.Errorf("%w: block %s is not on the main chain", ErrUnexpectedShape, blockHash)
	}

	if len(decoded.Vin) == 1 {
		if spent := payment.Amount + change.Amount + fee; spent != input.Amount {
			return nil, fmt.Errorf("%w: input %s != payment %s + change %s + fee %s",
				ErrUnexpectedShape, input.Amount, payment.Amount, change.Amount, fee)
		}
	} else {
		log.Warn().
			Str("txid", txid).
			Int("inputs", len(decoded.Vin)).
			Msg("Transaction has several inputs, only input 0 is reported")
	}

	r := &report.Report{
		TxID:                txid,
		MinerInputAddress:   input.Address,
		MinerInputAmount:    input.Amount,
		TraderOutputAddress: payment.Address,
		TraderOutputAmount:  payment.Amount,
		MinerChangeAddress:  change.Address,
		MinerChangeAmount:   change.Amount,
		Fee:                 fee,
		BlockHeight:         header.Height,
		BlockHash:           blockHash,
	}

	log.Info().
		Str("txid", txid).
		Int64("height", r.BlockHeight).
		Str("blockhash", r.BlockHash).
		Stringer("fee", r.Fee).
		Msg("Reconstructed transaction")

	return r, nil
}

// fundingInput resolves the address and amount spent by input 0.
func fundingInput(ctx context.Context, wallet interfaces.WalletAPI, tx *models.RawTransaction, params *chaincfg.Params) (*attributedOutput, error) {
	if len(tx.Vin) == 0 {
		return nil, fmt.Errorf("%w: %s has no inputs", ErrUnexpectedShape, tx.Txid)
	}

	vin := tx.Vin[0]
	if !vin.HasPrevOut() {
		return nil, fmt.Errorf("%w: input 0 of %s does not reference a previous output", ErrUnexpectedShape, tx.Txid)
	}

	// Without -txindex the node only finds a confirmed transaction when
	// told its block; the wallet knows it for its own coins.
	var hint string
	prevWalletTx, err := wallet.GetTransaction(ctx, vin.Txid)
	switch {
	case err == nil:
		hint = prevWalletTx.BlockHash
	case rpc.IsCode(err, rpc.CodeInvalidAddressOrKey):
	default:
		return nil, fmt.Errorf("failed to get wallet transaction %s: %w", vin.Txid, err)
	}

	prev, err := wallet.GetRawTransaction(ctx, vin.Txid, hint)
	if err != nil {
		return nil, fmt.Errorf("failed to decode previous transaction %s: %w", vin.Txid, err)
	}

	index := *vin.Vout
	if int(index) >= len(prev.Vout) {
		return nil, fmt.Errorf("%w: %s has %d outputs, input 0 spends index %d",
			ErrUnexpectedShape, vin.Txid, len(prev.Vout), index)
	}

	out := prev.Vout[index]
	address, err := outputAddress(out, params)
	if err != nil {
		return nil, fmt.Errorf("previous output %s:%d: %w", vin.Txid, index, err)
	}

	return &attributedOutput{Address: address, Amount: out.Value}, nil
}

// classifyOutputs splits the outputs into the one paying trader and the
// change. Anything other than exactly one of each is a shape error.
func classifyOutputs(outputs []models.Vout, trader string, params *chaincfg.Params) (payment, change *attributedOutput, err error) {
	for _, out := range outputs {
		address, err := outputAddress(out, params)
		if err != nil {
			return nil, nil, fmt.Errorf("output %d: %w", out.N, err)
		}

		attributed := &attributedOutput{Address: address, Amount: out.Value}
		if address == trader {
			if payment != nil {
				return nil, nil, fmt.Errorf("%w: more than one output pays the trader address %s", ErrUnexpectedShape, trader)
			}
			payment = attributed
			continue
		}

		if change != nil {
			return nil, nil, fmt.Errorf("%w: more than one non-trader output (%s, %s)", ErrUnexpectedShape, change.Address, address)
		}
		change = attributed
	}

	if payment == nil {
		return nil, nil, fmt.Errorf("%w: no output pays the trader address %s", ErrUnexpectedShape, trader)
	}
	if change == nil {
		return nil, nil, fmt.Errorf("%w: no change output", ErrUnexpectedShape)
	}

	return payment, change, nil
}

func outputAddress(out models.Vout, params *chaincfg.Params) (string, error) {
	address, ok := out.ScriptPubKey.SingleAddress()
	if !ok {
		return "", fmt.Errorf("%w: script of type %q has no address", ErrUnexpectedShape, out.ScriptPubKey.Type)
	}

	canonical, err := validation.CanonicalAddress(address, params)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnexpectedShape, err)
	}
	return canonical, nil
}
