package models

import (
	"encoding/json"
	"fmt"
)

// RPCRequest is a JSON-RPC request envelope as accepted by Bitcoin Core.
type RPCRequest struct {
	Jsonrpc string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

// RPCResponse is a JSON-RPC response envelope.
type RPCResponse struct {
	Jsonrpc string          `json:"jsonrpc,omitempty"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}

// RPCError is a method-level failure reported by the node.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("RPC error: %d - %s", e.Code, e.Message)
}
