package interfaces

import (
	"context"

	"regtest-transfer/internal/models"
)

// NodeAPI is the chain-level RPC surface, bound to the node root endpoint.
type NodeAPI interface {
	ListWallets(ctx context.Context) ([]string, error)
	LoadWallet(ctx context.Context, name string) error
	CreateWallet(ctx context.Context, name string) error
	GenerateToAddress(ctx context.Context, blocks int, address string) ([]string, error)
	GetMempoolEntry(ctx context.Context, txid string) (*models.MempoolEntry, error)
	GetBlockHeader(ctx context.Context, blockHash string) (*models.BlockHeader, error)
	GetBlockCount(ctx context.Context) (int64, error)

	// Wallet returns a session scoped to the named wallet. It does not
	// check that the wallet is loaded.
	Wallet(name string) WalletAPI
}

// WalletAPI is the wallet-scoped RPC surface, bound to <root>/wallet/<name>.
type WalletAPI interface {
	Name() string
	GetNewAddress(ctx context.Context, label string) (string, error)
	GetBalance(ctx context.Context) (models.Amount, error)
	SendToAddress(ctx context.Context, address string, amount models.Amount) (string, error)
	GetTransaction(ctx context.Context, txid string) (*models.WalletTransaction, error)
	// GetRawTransaction decodes txid. blockHash is optional; when set the
	// node can find confirmed transactions without -txindex.
	GetRawTransaction(ctx context.Context, txid, blockHash string) (*models.RawTransaction, error)
}
