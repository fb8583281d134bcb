package regtest

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"testing"

	"regtest-transfer/internal/interfaces"
	"regtest-transfer/internal/logger"
	"regtest-transfer/internal/models"
	"regtest-transfer/internal/rpc"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

func TestMain(m *testing.M) {
	logger.InitWithWriter("error", io.Discard)
	os.Exit(m.Run())
}

const (
	coinbaseReward = models.Amount(5_000_000_000)
	coinbaseDepth  = 100
	defaultFee     = models.Amount(1410)
)

func hashOf(parts ...interface{}) string {
	return chainhash.HashH([]byte(fmt.Sprint(parts...))).String()
}

func rpcErr(code int, message string) error {
	return &models.RPCError{Code: code, Message: message}
}

type fakeCoin struct {
	txid     string
	vout     uint32
	value    models.Amount
	height   int64
	coinbase bool
	spent    bool
}

// fakeChain is an in-memory regtest node: wallets, coinbase maturity,
// a mempool and decoded transactions. It implements interfaces.NodeAPI.
type fakeChain struct {
	height  int64
	headers map[string]*models.BlockHeader
	raw     map[string]*models.RawTransaction
	mempool []string
	onDisk  map[string]bool
	loaded  []string
	wallets map[string]*fakeWallet
	owners  map[string]*fakeWallet
	keys    int
	sends   int
	fee     models.Amount
	txindex bool

	calls           []string
	loadErr         error
	createErr       error
	dropFromMempool bool
}

var _ interfaces.NodeAPI = (*fakeChain)(nil)

func newFakeChain() *fakeChain {
	return &fakeChain{
		headers: make(map[string]*models.BlockHeader),
		raw:     make(map[string]*models.RawTransaction),
		onDisk:  make(map[string]bool),
		wallets: make(map[string]*fakeWallet),
		owners:  make(map[string]*fakeWallet),
		fee:     defaultFee,
	}
}

func (c *fakeChain) record(method string) {
	c.calls = append(c.calls, method)
}

func (c *fakeChain) count(method string) int {
	n := 0
	for _, call := range c.calls {
		if call == method {
			n++
		}
	}
	return n
}

func (c *fakeChain) isLoaded(name string) bool {
	return slices.Contains(c.loaded, name)
}

func (c *fakeChain) ListWallets(ctx context.Context) ([]string, error) {
	c.record("listwallets")
	return slices.Clone(c.loaded), nil
}

func (c *fakeChain) LoadWallet(ctx context.Context, name string) error {
	c.record("loadwallet")
	if c.loadErr != nil {
		return c.loadErr
	}
	if c.isLoaded(name) {
		return rpcErr(rpc.CodeWalletAlreadyLoaded, "Wallet \""+name+"\" is already loaded.")
	}
	if !c.onDisk[name] {
		return rpcErr(rpc.CodeWalletNotFound, "Wallet file verification failed. Failed to load database path. Path does not exist.")
	}
	c.loaded = append(c.loaded, name)
	return nil
}

func (c *fakeChain) CreateWallet(ctx context.Context, name string) error {
	c.record("createwallet")
	if c.createErr != nil {
		return c.createErr
	}
	if c.onDisk[name] {
		return rpcErr(-4, "Wallet file verification failed. Failed to create database path. Database already exists.")
	}
	c.onDisk[name] = true
	c.loaded = append(c.loaded, name)
	return nil
}

func (c *fakeChain) GenerateToAddress(ctx context.Context, blocks int, address string) ([]string, error) {
	c.record("generatetoaddress")

	hashes := make([]string, 0, blocks)
	for i := 0; i < blocks; i++ {
		c.height++
		hash := hashOf("block", c.height)

		coinbase := hashOf("coinbase", c.height)
		c.raw[coinbase] = &models.RawTransaction{
			Txid: coinbase,
			Vin:  []models.Vin{{Coinbase: "51"}},
			Vout: []models.Vout{{
				Value:        coinbaseReward,
				ScriptPubKey: models.ScriptPubKey{Type: "witness_v0_keyhash", Address: address},
			}},
			BlockHash: hash,
		}
		if owner := c.owners[address]; owner != nil {
			owner.coins = append(owner.coins, &fakeCoin{txid: coinbase, value: coinbaseReward, height: c.height, coinbase: true})
			owner.txs[coinbase] = &models.WalletTransaction{
				Txid:        coinbase,
				Amount:      coinbaseReward,
				Generated:   true,
				BlockHash:   hash,
				BlockHeight: c.height,
			}
		}

		for _, txid := range c.mempool {
			c.raw[txid].BlockHash = hash
			for _, w := range c.wallets {
				if tx, ok := w.txs[txid]; ok {
					tx.BlockHash = hash
					tx.BlockHeight = c.height
				}
				for _, coin := range w.coins {
					if coin.txid == txid {
						coin.height = c.height
					}
				}
			}
		}

		c.headers[hash] = &models.BlockHeader{Hash: hash, Height: c.height, NTx: int64(1 + len(c.mempool))}
		c.mempool = nil
		hashes = append(hashes, hash)
	}

	return hashes, nil
}

func (c *fakeChain) GetMempoolEntry(ctx context.Context, txid string) (*models.MempoolEntry, error) {
	c.record("getmempoolentry")
	if c.dropFromMempool || !slices.Contains(c.mempool, txid) {
		return nil, rpcErr(rpc.CodeInvalidAddressOrKey, "Transaction not in mempool")
	}
	return &models.MempoolEntry{Vsize: 141, Weight: 561, Height: c.height, Fees: models.MempoolFees{Base: c.fee}}, nil
}

func (c *fakeChain) GetBlockHeader(ctx context.Context, blockHash string) (*models.BlockHeader, error) {
	c.record("getblockheader")
	header, ok := c.headers[blockHash]
	if !ok {
		return nil, rpcErr(rpc.CodeInvalidAddressOrKey, "Block not found")
	}
	cp := *header
	cp.Confirmations = c.height - header.Height + 1
	return &cp, nil
}

func (c *fakeChain) GetBlockCount(ctx context.Context) (int64, error) {
	c.record("getblockcount")
	return c.height, nil
}

func (c *fakeChain) Wallet(name string) interfaces.WalletAPI {
	w, ok := c.wallets[name]
	if !ok {
		w = &fakeWallet{chain: c, name: name, txs: make(map[string]*models.WalletTransaction)}
		c.wallets[name] = w
	}
	return w
}

type fakeWallet struct {
	chain *fakeChain
	name  string
	coins []*fakeCoin
	txs   map[string]*models.WalletTransaction
}

var _ interfaces.WalletAPI = (*fakeWallet)(nil)

func (w *fakeWallet) check() error {
	if !w.chain.isLoaded(w.name) {
		return rpcErr(rpc.CodeWalletNotFound, "Requested wallet does not exist or is not loaded")
	}
	return nil
}

func (w *fakeWallet) spendable(coin *fakeCoin) bool {
	if coin.spent || coin.height == 0 {
		return false
	}
	return !coin.coinbase || w.chain.height-coin.height >= coinbaseDepth
}

func (w *fakeWallet) newAddress() string {
	w.chain.keys++
	program := chainhash.HashB([]byte(fmt.Sprint("key", w.chain.keys)))[:20]
	addr, err := btcutil.NewAddressWitnessPubKeyHash(program, &chaincfg.RegressionNetParams)
	if err != nil {
		panic(err)
	}
	encoded := addr.EncodeAddress()
	w.chain.owners[encoded] = w
	return encoded
}

func (w *fakeWallet) Name() string {
	return w.name
}

func (w *fakeWallet) GetNewAddress(ctx context.Context, label string) (string, error) {
	w.chain.record("getnewaddress")
	if err := w.check(); err != nil {
		return "", err
	}
	return w.newAddress(), nil
}

func (w *fakeWallet) GetBalance(ctx context.Context) (models.Amount, error) {
	w.chain.record("getbalance")
	if err := w.check(); err != nil {
		return 0, err
	}
	var balance models.Amount
	for _, coin := range w.coins {
		if w.spendable(coin) {
			balance += coin.value
		}
	}
	return balance, nil
}

func (w *fakeWallet) SendToAddress(ctx context.Context, address string, amount models.Amount) (string, error) {
	c := w.chain
	c.record("sendtoaddress")
	if err := w.check(); err != nil {
		return "", err
	}

	var funding *fakeCoin
	for _, coin := range w.coins {
		if w.spendable(coin) && coin.value >= amount+c.fee {
			funding = coin
			break
		}
	}
	if funding == nil {
		return "", rpcErr(-6, "Insufficient funds")
	}
	funding.spent = true

	c.sends++
	txid := hashOf("send", c.sends)
	changeAddress := w.newAddress()
	changeValue := funding.value - amount - c.fee

	payment := models.Vout{Value: amount, ScriptPubKey: models.ScriptPubKey{Type: "witness_v0_keyhash", Address: address}}
	change := models.Vout{Value: changeValue, ScriptPubKey: models.ScriptPubKey{Type: "witness_v0_keyhash", Address: changeAddress}}
	outputs := []models.Vout{payment, change}
	// The node randomizes the change position; alternate it here.
	if c.sends%2 == 0 {
		outputs = []models.Vout{change, payment}
	}
	var changeIndex uint32
	for i := range outputs {
		outputs[i].N = uint32(i)
		if outputs[i].ScriptPubKey.Address == changeAddress {
			changeIndex = uint32(i)
		}
	}

	vout := funding.vout
	c.raw[txid] = &models.RawTransaction{
		Txid: txid,
		Vin:  []models.Vin{{Txid: funding.txid, Vout: &vout, Sequence: 0xfffffffd}},
		Vout: outputs,
	}
	c.mempool = append(c.mempool, txid)

	fee := -c.fee
	w.txs[txid] = &models.WalletTransaction{Txid: txid, Amount: -amount, Fee: &fee}
	w.coins = append(w.coins, &fakeCoin{txid: txid, vout: changeIndex, value: changeValue})

	if recipient := c.owners[address]; recipient != nil && recipient != w {
		recipient.txs[txid] = &models.WalletTransaction{Txid: txid, Amount: amount}
		recipient.coins = append(recipient.coins, &fakeCoin{txid: txid, vout: 1 - changeIndex, value: amount})
	}

	return txid, nil
}

func (w *fakeWallet) GetTransaction(ctx context.Context, txid string) (*models.WalletTransaction, error) {
	w.chain.record("gettransaction")
	if err := w.check(); err != nil {
		return nil, err
	}
	tx, ok := w.txs[txid]
	if !ok {
		return nil, rpcErr(rpc.CodeInvalidAddressOrKey, "Invalid or non-wallet transaction id")
	}
	cp := *tx
	if cp.BlockHash != "" {
		cp.Confirmations = w.chain.height - cp.BlockHeight + 1
	}
	return &cp, nil
}

func (w *fakeWallet) GetRawTransaction(ctx context.Context, txid, blockHash string) (*models.RawTransaction, error) {
	c := w.chain
	c.record("getrawtransaction")
	if err := w.check(); err != nil {
		return nil, err
	}
	tx, ok := c.raw[txid]
	if !ok {
		return nil, rpcErr(rpc.CodeInvalidAddressOrKey, "No such mempool or blockchain transaction")
	}
	if blockHash != "" && tx.BlockHash != blockHash {
		return nil, rpcErr(rpc.CodeInvalidAddressOrKey, "No such transaction found in the provided block")
	}
	if blockHash == "" && tx.BlockHash != "" && !c.txindex {
		return nil, rpcErr(rpc.CodeInvalidAddressOrKey, "No such mempool transaction. Use -txindex or provide a block hash")
	}
	return tx, nil
}
