package models

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
)

type Network string

const (
	Regtest Network = "regtest"
	Testnet Network = "testnet3"
	Signet  Network = "signet"
	Mainnet Network = "mainnet"
)

func (n Network) String() string {
	return string(n)
}

// Params returns the chain parameters used to decode and re-encode addresses.
func (n Network) Params() (*chaincfg.Params, error) {
	switch n {
	case Regtest:
		return &chaincfg.RegressionNetParams, nil
	case Testnet:
		return &chaincfg.TestNet3Params, nil
	case Signet:
		return &chaincfg.SigNetParams, nil
	case Mainnet:
		return &chaincfg.MainNetParams, nil
	default:
		return nil, fmt.Errorf("unknown network %q", string(n))
	}
}
