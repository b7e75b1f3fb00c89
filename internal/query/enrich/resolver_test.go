package enrich

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lnd-advisor/internal/common/logger"
	"lnd-advisor/internal/lnd"
)

func testChannel(pubkey string, capacity uint64) lnd.Channel {
	return lnd.Channel{
		RemotePubkey:  pubkey,
		Capacity:      capacity,
		LocalBalance:  capacity / 2,
		RemoteBalance: capacity / 2,
		Active:        true,
	}
}

func TestResolver_Resolve_Empty(t *testing.T) {
	gateway := lnd.NewMockGateway()
	resolver := NewResolver(gateway, logger.NewTestLogger(t))

	result := resolver.Resolve(context.Background(), nil)

	assert.NotNil(t, result)
	assert.Len(t, result, 0)
	assert.Equal(t, 0, gateway.TotalAliasCalls())
}

func TestResolver_Resolve_OneLookupPerDistinctPeer(t *testing.T) {
	gateway := lnd.NewMockGateway()
	gateway.Channels = nil
	gateway.Aliases = map[string]string{}

	// 10 channels shared across 3 peers must issue exactly 3 lookups.
	var channels []lnd.Channel
	for i := 0; i < 10; i++ {
		pubkey := fmt.Sprintf("peer-%d", i%3)
		channels = append(channels, testChannel(pubkey, 1_000_000))
		gateway.Aliases[pubkey] = fmt.Sprintf("alias-%d", i%3)
	}

	resolver := NewResolver(gateway, logger.NewTestLogger(t))
	result := resolver.Resolve(context.Background(), channels)

	require.Len(t, result, 10)
	assert.Equal(t, 3, gateway.TotalAliasCalls())
	for i := 0; i < 3; i++ {
		assert.Equal(t, 1, gateway.AliasCalls(fmt.Sprintf("peer-%d", i)))
	}
	for i, ch := range result {
		assert.Equal(t, fmt.Sprintf("alias-%d", i%3), ch.RemoteAlias)
		assert.Nil(t, ch.Err)
	}
}

func TestResolver_Resolve_PartialFailureIsolated(t *testing.T) {
	gateway := lnd.NewMockGateway()
	gateway.Channels = nil
	gateway.Aliases = map[string]string{
		"peer-ok-1": "Alpha",
		"peer-ok-2": "Beta",
	}
	gateway.FailAliases = map[string]error{
		"peer-bad": errors.New("connection refused"),
	}

	channels := []lnd.Channel{
		testChannel("peer-ok-1", 1_000_000),
		testChannel("peer-bad", 2_000_000),
		testChannel("peer-ok-2", 3_000_000),
		testChannel("peer-bad", 4_000_000),
	}

	resolver := NewResolver(gateway, logger.NewTestLogger(t))
	result := resolver.Resolve(context.Background(), channels)

	require.Len(t, result, 4)

	assert.Equal(t, "Alpha", result[0].RemoteAlias)
	assert.Nil(t, result[0].Err)

	assert.Equal(t, UnknownAlias, result[1].RemoteAlias)
	require.NotNil(t, result[1].Err)
	assert.Equal(t, ErrKindAliasRetrieval, result[1].Err.Kind)
	assert.Contains(t, result[1].Err.Message, "connection refused")

	assert.Equal(t, "Beta", result[2].RemoteAlias)
	assert.Nil(t, result[2].Err)

	// Both channels of the failing peer carry the annotation, from a
	// single lookup.
	assert.Equal(t, UnknownAlias, result[3].RemoteAlias)
	require.NotNil(t, result[3].Err)
	assert.Equal(t, 1, gateway.AliasCalls("peer-bad"))
}

func TestResolver_Resolve_WholeStageFailure(t *testing.T) {
	resolver := NewResolver(nil, logger.NewTestLogger(t))

	channels := []lnd.Channel{
		testChannel("peer-1", 1_000_000),
		testChannel("peer-2", 2_000_000),
	}

	result := resolver.Resolve(context.Background(), channels)

	require.Len(t, result, 2)
	for _, ch := range result {
		assert.Equal(t, UnknownAlias, ch.RemoteAlias)
		require.NotNil(t, ch.Err)
		assert.Equal(t, ErrKindAliasRetrieval, ch.Err.Kind)
	}
}

func TestResolver_Resolve_PreservesChannelData(t *testing.T) {
	gateway := lnd.NewMockGateway()
	resolver := NewResolver(gateway, logger.NewTestLogger(t))

	channels, err := gateway.ListChannels(context.Background())
	require.NoError(t, err)

	result := resolver.Resolve(context.Background(), channels)

	require.Len(t, result, len(channels))
	for i, ch := range result {
		assert.Equal(t, channels[i].RemotePubkey, ch.RemotePubkey)
		assert.Equal(t, channels[i].Capacity, ch.Capacity)
		assert.Equal(t, channels[i].LocalBalance, ch.LocalBalance)
		assert.Equal(t, channels[i].RemoteBalance, ch.RemoteBalance)
		assert.Equal(t, channels[i].Active, ch.Active)
	}
}
