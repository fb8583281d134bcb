package bitcoin

import (
	"context"
	"fmt"

	"regtest-transfer/internal/interfaces"
	"regtest-transfer/internal/models"
	"regtest-transfer/internal/rpc"
)

// Node issues chain-level calls against the node root endpoint.
type Node struct {
	client *rpc.Client
}

var _ interfaces.NodeAPI = (*Node)(nil)

func NewNode(client *rpc.Client) *Node {
	return &Node{client: client}
}

func (n *Node) ListWallets(ctx context.Context) ([]string, error) {
	var wallets []string
	if err := n.client.Call(ctx, "listwallets", nil, &wallets); err != nil {
		return nil, err
	}
	return wallets, nil
}

func (n *Node) LoadWallet(ctx context.Context, name string) error {
	var result models.LoadWalletResult
	if err := n.client.Call(ctx, "loadwallet", []interface{}{name}, &result); err != nil {
		return err
	}
	n.logWarning("loadwallet", result)
	return nil
}

func (n *Node) CreateWallet(ctx context.Context, name string) error {
	var result models.LoadWalletResult
	if err := n.client.Call(ctx, "createwallet", []interface{}{name}, &result); err != nil {
		return err
	}
	n.logWarning("createwallet", result)
	return nil
}

func (n *Node) logWarning(method string, result models.LoadWalletResult) {
	if result.Warning == "" {
		return
	}
	n.client.Logger.Warn().
		Str("method", method).
		Str("wallet", result.Name).
		Str("warning", result.Warning).
		Msg("Node returned a wallet warning")
}

// GenerateToAddress mines blocks paying the coinbase to address and returns their hashes.
func (n *Node) GenerateToAddress(ctx context.Context, blocks int, address string) ([]string, error) {
	var hashes []string
	if err := n.client.Call(ctx, "generatetoaddress", []interface{}{blocks, address}, &hashes); err != nil {
		return nil, err
	}
	if len(hashes) != blocks {
		return nil, fmt.Errorf("generatetoaddress: requested %d blocks, node mined %d", blocks, len(hashes))
	}
	return hashes, nil
}

func (n *Node) GetMempoolEntry(ctx context.Context, txid string) (*models.MempoolEntry, error) {
	var entry models.MempoolEntry
	if err := n.client.Call(ctx, "getmempoolentry", []interface{}{txid}, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (n *Node) GetBlockHeader(ctx context.Context, blockHash string) (*models.BlockHeader, error) {
	var header models.BlockHeader
	if err := n.client.Call(ctx, "getblockheader", []interface{}{blockHash, true}, &header); err != nil {
		return nil, err
	}
	if header.Hash == "" {
		return nil, fmt.Errorf("getblockheader: empty header for %s", blockHash)
	}
	return &header, nil
}

func (n *Node) GetBlockCount(ctx context.Context) (int64, error) {
	var height int64
	if err := n.client.Call(ctx, "getblockcount", nil, &height); err != nil {
		return 0, fmt.Errorf("failed to get current block number: %w", err)
	}
	return height, nil
}

// Wallet returns a session bound to <root>/wallet/<name>.
func (n *Node) Wallet(name string) interfaces.WalletAPI {
	return NewWallet(n.client.ForWallet(name))
}
