package regtest

import "errors"

var (
	// ErrUnexpectedShape marks a transaction or chain state that does not
	// match the single-payment, single-change layout the report assumes.
	ErrUnexpectedShape = errors.New("unexpected transaction shape")

	// ErrNotInMempool is returned when a just-sent transaction is not
	// accepted into the node's mempool.
	ErrNotInMempool = errors.New("transaction not in mempool")

	// ErrNoSpendableBalance is returned when the mining guard is reached
	// before the wallet balance turns positive.
	ErrNoSpendableBalance = errors.New("no spendable balance")
)
