package models

import (
	"time"
)

// ReportEvent is the transfer report as published to the optional sinks.
type ReportEvent struct {
	TxHash              string    `json:"txid"`
	Network             Network   `json:"network"`
	MinerInputAddress   string    `json:"miner_input_address"`
	MinerInputAmount    Amount    `json:"miner_input_amount"`
	TraderOutputAddress string    `json:"trader_output_address"`
	TraderOutputAmount  Amount    `json:"trader_output_amount"`
	MinerChangeAddress  string    `json:"miner_change_address"`
	MinerChangeAmount   Amount    `json:"miner_change_amount"`
	Fee                 Amount    `json:"fee"`
	BlockHeight         int64     `json:"block_height"`
	BlockHash           string    `json:"blockhash"`
	Timestamp           time.Time `json:"timestamp"`
}
