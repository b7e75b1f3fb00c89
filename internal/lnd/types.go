// Package lnd provides access to a Lightning Network node's channel state.
package lnd

import "context"

// Channel is a raw portfolio entry as reported by the node. Balance
// consistency (local + remote <= capacity) is trusted upstream data and
// not enforced here.
type Channel struct {
	RemotePubkey  string `json:"remote_pubkey"`
	Capacity      uint64 `json:"capacity"`
	LocalBalance  uint64 `json:"local_balance"`
	RemoteBalance uint64 `json:"remote_balance"`
	Active        bool   `json:"active"`
}

// Gateway exposes the node operations the query pipeline consumes. Both
// calls are fallible per-call; callers are responsible for sanitizing
// errors before they cross the module boundary.
type Gateway interface {
	ListChannels(ctx context.Context) ([]Channel, error)
	GetPeerAlias(ctx context.Context, pubkey string) (string, error)
}
