/*
Package regtest drives a regression-test Bitcoin Core node through one
funded transfer and reconstructs the resulting transaction.

The stages run strictly in order:

	EnsureWallet        list, then load, then create
	MineUntilSpendable  one block at a time until the balance is positive
	SendAndConfirm      sendtoaddress, mempool check, confirming block(s)
	Reconstruct         wallet view + decoded tx + prevout + block header
	report.Write        ten-line report file

Run executes the whole sequence. Every stage talks to the node only
through interfaces.NodeAPI and interfaces.WalletAPI.

Coinbase outputs mature after 100 confirmations, so a fresh chain needs
101 blocks before the first send. The mining loop watches the balance
instead of counting, which lets a node with earlier state skip it.
*/
package regtest
