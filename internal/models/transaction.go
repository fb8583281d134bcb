package models

// RawTransaction is the decoded form returned by getrawtransaction with verbose=true.
type RawTransaction struct {
	Txid          string `json:"txid"`
	Hash          string `json:"hash"`
	Size          int64  `json:"size"`
	Vsize         int64  `json:"vsize"`
	Vin           []Vin  `json:"vin"`
	Vout          []Vout `json:"vout"`
	BlockHash     string `json:"blockhash,omitempty"`
	Confirmations int64  `json:"confirmations,omitempty"`
}

// Vin references the output it spends. Coinbase inputs carry no txid/vout.
type Vin struct {
	Txid     string  `json:"txid,omitempty"`
	Vout     *uint32 `json:"vout,omitempty"`
	Coinbase string  `json:"coinbase,omitempty"`
	Sequence uint32  `json:"sequence"`
}

// HasPrevOut reports whether the input names a previous output.
func (v Vin) HasPrevOut() bool {
	return v.Txid != "" && v.Vout != nil
}

type Vout struct {
	Value        Amount       `json:"value"`
	N            uint32       `json:"n"`
	ScriptPubKey ScriptPubKey `json:"scriptPubKey"`
}

type ScriptPubKey struct {
	Asm     string `json:"asm,omitempty"`
	Hex     string `json:"hex,omitempty"`
	Type    string `json:"type,omitempty"`
	Address string `json:"address,omitempty"`
	// Addresses is only populated by nodes older than v22.
	Addresses []string `json:"addresses,omitempty"`
}

// SingleAddress returns the script's address when it pays exactly one.
func (s ScriptPubKey) SingleAddress() (string, bool) {
	if s.Address != "" {
		return s.Address, true
	}
	if len(s.Addresses) == 1 && s.Addresses[0] != "" {
		return s.Addresses[0], true
	}
	return "", false
}

// WalletTransaction is the wallet view returned by gettransaction.
// Fee is only present for transactions the wallet sent; it is negative.
type WalletTransaction struct {
	Txid          string  `json:"txid"`
	Amount        Amount  `json:"amount"`
	Fee           *Amount `json:"fee,omitempty"`
	Confirmations int64   `json:"confirmations"`
	Generated     bool    `json:"generated,omitempty"`
	BlockHash     string  `json:"blockhash,omitempty"`
	BlockHeight   int64   `json:"blockheight,omitempty"`
	BlockIndex    int64   `json:"blockindex,omitempty"`
	Time          int64   `json:"time"`
	Hex           string  `json:"hex,omitempty"`
}

// MempoolEntry is the subset of getmempoolentry used to confirm acceptance.
type MempoolEntry struct {
	Vsize  int64       `json:"vsize"`
	Weight int64       `json:"weight"`
	Time   int64       `json:"time"`
	Height int64       `json:"height"`
	Fees   MempoolFees `json:"fees"`
}

type MempoolFees struct {
	Base Amount `json:"base"`
}

// BlockHeader from Bitcoin Core getblockheader with verbose=true.
// Confirmations = -1 means the block is not on the main chain.
type BlockHeader struct {
	Hash              string `json:"hash"`
	Confirmations     int64  `json:"confirmations"`
	Height            int64  `json:"height"`
	Version           int32  `json:"version"`
	MerkleRoot        string `json:"merkleroot"`
	Time              int64  `json:"time"`
	MedianTime        int64  `json:"mediantime"`
	Nonce             uint32 `json:"nonce"`
	Bits              string `json:"bits"`
	NTx               int64  `json:"nTx"`
	PreviousBlockHash string `json:"previousblockhash,omitempty"`
	NextBlockHash     string `json:"nextblockhash,omitempty"`
}

// LoadWalletResult is returned by loadwallet and createwallet.
type LoadWalletResult struct {
	Name    string `json:"name"`
	Warning string `json:"warning,omitempty"`
}
