package lnd

import (
	"context"
	"sync"
)

// MockGateway serves deterministic fixture data so the advisor can run
// without a node, and lets tests inject per-call failures.
type MockGateway struct {
	mu          sync.Mutex
	Channels    []Channel
	Aliases     map[string]string
	FailList    error
	FailAliases map[string]error
	aliasCalls  map[string]int
	listCalls   int
}

// NewMockGateway returns a gateway preloaded with a small channel
// portfolio: two well-balanced active channels, one depleted and one
// inactive.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		Channels: []Channel{
			{RemotePubkey: "02a1b2c3d4e5f60718293a4b5c6d7e8f9a0b1c2d3e4f5a6b7c8d9e0f1a2b3c4d5e", Capacity: 5_000_000, LocalBalance: 2_500_000, RemoteBalance: 2_500_000, Active: true},
			{RemotePubkey: "03b2c3d4e5f60718293a4b5c6d7e8f9a0b1c2d3e4f5a6b7c8d9e0f1a2b3c4d5e6", Capacity: 2_000_000, LocalBalance: 1_200_000, RemoteBalance: 800_000, Active: true},
			{RemotePubkey: "02c3d4e5f60718293a4b5c6d7e8f9a0b1c2d3e4f5a6b7c8d9e0f1a2b3c4d5e6f7", Capacity: 1_000_000, LocalBalance: 50_000, RemoteBalance: 950_000, Active: true},
			{RemotePubkey: "03d4e5f60718293a4b5c6d7e8f9a0b1c2d3e4f5a6b7c8d9e0f1a2b3c4d5e6f7a8", Capacity: 3_000_000, LocalBalance: 1_500_000, RemoteBalance: 1_500_000, Active: false},
		},
		Aliases: map[string]string{
			"02a1b2c3d4e5f60718293a4b5c6d7e8f9a0b1c2d3e4f5a6b7c8d9e0f1a2b3c4d5e": "ACINQ",
			"03b2c3d4e5f60718293a4b5c6d7e8f9a0b1c2d3e4f5a6b7c8d9e0f1a2b3c4d5e6": "Bitrefill",
			"02c3d4e5f60718293a4b5c6d7e8f9a0b1c2d3e4f5a6b7c8d9e0f1a2b3c4d5e6f7": "WalletOfSatoshi",
			"03d4e5f60718293a4b5c6d7e8f9a0b1c2d3e4f5a6b7c8d9e0f1a2b3c4d5e6f7a8": "LNBig",
		},
	}
}

func (m *MockGateway) ListChannels(ctx context.Context) ([]Channel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.FailList != nil {
		return nil, m.FailList
	}
	out := make([]Channel, len(m.Channels))
	copy(out, m.Channels)
	return out, nil
}

func (m *MockGateway) GetPeerAlias(ctx context.Context, pubkey string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.aliasCalls == nil {
		m.aliasCalls = make(map[string]int)
	}
	m.aliasCalls[pubkey]++
	if err, ok := m.FailAliases[pubkey]; ok {
		return "", err
	}
	if alias, ok := m.Aliases[pubkey]; ok {
		return alias, nil
	}
	return "", nil
}

// ListCalls reports how many channel fetches were issued.
func (m *MockGateway) ListCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls
}

// AliasCalls reports how many lookups were issued for a pubkey.
func (m *MockGateway) AliasCalls(pubkey string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.aliasCalls[pubkey]
}

// TotalAliasCalls reports how many lookups were issued across all pubkeys.
func (m *MockGateway) TotalAliasCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.aliasCalls {
		total += n
	}
	return total
}
