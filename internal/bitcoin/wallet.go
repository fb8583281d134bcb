package bitcoin

import (
	"context"
	"fmt"

	"regtest-transfer/internal/interfaces"
	"regtest-transfer/internal/models"
	"regtest-transfer/internal/rpc"
)

// Wallet issues wallet-scoped calls.
type Wallet struct {
	client *rpc.Client
}

var _ interfaces.WalletAPI = (*Wallet)(nil)

func NewWallet(client *rpc.Client) *Wallet {
	return &Wallet{client: client}
}

func (w *Wallet) Name() string {
	return w.client.Wallet
}

func (w *Wallet) GetNewAddress(ctx context.Context, label string) (string, error) {
	var address string
	if err := w.client.Call(ctx, "getnewaddress", []interface{}{label}, &address); err != nil {
		return "", err
	}
	if address == "" {
		return "", fmt.Errorf("getnewaddress: node returned an empty address")
	}
	return address, nil
}

// GetBalance returns the trusted, spendable balance. Immature coinbase
// outputs are not included.
func (w *Wallet) GetBalance(ctx context.Context) (models.Amount, error) {
	var balance models.Amount
	if err := w.client.Call(ctx, "getbalance", nil, &balance); err != nil {
		return 0, err
	}
	return balance, nil
}

func (w *Wallet) SendToAddress(ctx context.Context, address string, amount models.Amount) (string, error) {
	var txid string
	if err := w.client.Call(ctx, "sendtoaddress", []interface{}{address, amount}, &txid); err != nil {
		return "", err
	}
	return txid, nil
}

func (w *Wallet) GetTransaction(ctx context.Context, txid string) (*models.WalletTransaction, error) {
	var tx models.WalletTransaction
	// include_watchonly=true
	if err := w.client.Call(ctx, "gettransaction", []interface{}{txid, true}, &tx); err != nil {
		return nil, err
	}
	if tx.Txid == "" {
		return nil, fmt.Errorf("gettransaction: parsed transaction is invalid (empty txid)")
	}
	return &tx, nil
}

func (w *Wallet) GetRawTransaction(ctx context.Context, txid, blockHash string) (*models.RawTransaction, error) {
	params := []interface{}{txid, true}
	if blockHash != "" {
		params = append(params, blockHash)
	}

	var tx models.RawTransaction
	if err := w.client.Call(ctx, "getrawtransaction", params, &tx); err != nil {
		return nil, err
	}
	if tx.Txid == "" {
		return nil, fmt.Errorf("getrawtransaction: parsed transaction is invalid (empty txid)")
	}
	return &tx, nil
}
