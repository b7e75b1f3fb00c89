// Package enrich resolves peer aliases for a channel set with per-peer
// failure isolation.
package enrich

import (
	"context"
	"sync"

	"lnd-advisor/internal/common/logger"
	"lnd-advisor/internal/common/metrics"
	"lnd-advisor/internal/lnd"
)

// UnknownAlias is the placeholder shown for peers whose alias lookup failed.
const UnknownAlias = "Unknown (Error retrieving)"

// ErrKindAliasRetrieval tags per-channel enrichment error annotations.
const ErrKindAliasRetrieval = "alias_retrieval_failed"

// EnrichmentError annotates a channel whose peer alias could not be
// resolved. Its presence never removes the channel from results.
type EnrichmentError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// EnrichedChannel is a raw channel plus its peer's display alias and, when
// resolution failed, an error annotation.
type EnrichedChannel struct {
	lnd.Channel
	RemoteAlias string           `json:"remote_alias"`
	Err         *EnrichmentError `json:"error,omitempty"`
}

// Resolver deduplicates peer pubkeys across a channel set and resolves
// each distinct peer to an alias through the gateway.
type Resolver struct {
	gateway lnd.Gateway
	logger  logger.Logger
}

func NewResolver(gateway lnd.Gateway, log logger.Logger) *Resolver {
	return &Resolver{
		gateway: gateway,
		logger:  log.WithFields(map[string]interface{}{"component": "alias-resolver"}),
	}
}

type lookupResult struct {
	alias string
	err   error
}

// Resolve maps every channel to an EnrichedChannel. Lookups are issued
// once per distinct pubkey, all concurrently, and the call joins only
// after every lookup has settled; one peer's failure neither blocks nor
// cancels the others. Resolve never returns an error and the output
// always has the same length as the input.
func (r *Resolver) Resolve(ctx context.Context, channels []lnd.Channel) []EnrichedChannel {
	if len(channels) == 0 {
		return []EnrichedChannel{}
	}

	if r.gateway == nil {
		return r.markAll(channels, "alias lookups could not start: no gateway")
	}

	distinct := distinctPubkeys(channels)

	results := make(map[string]lookupResult, len(distinct))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, pubkey := range distinct {
		wg.Add(1)
		go func(pubkey string) {
			defer wg.Done()
			metrics.AliasLookups.Inc()
			alias, err := r.gateway.GetPeerAlias(ctx, pubkey)
			if err != nil {
				metrics.AliasLookupFailures.Inc()
			}
			mu.Lock()
			results[pubkey] = lookupResult{alias: alias, err: err}
			mu.Unlock()
		}(pubkey)
	}
	wg.Wait()

	enriched := make([]EnrichedChannel, 0, len(channels))
	failures := 0
	for _, ch := range channels {
		res := results[ch.RemotePubkey]
		if res.err != nil {
			failures++
			enriched = append(enriched, EnrichedChannel{
				Channel:     ch,
				RemoteAlias: UnknownAlias,
				Err: &EnrichmentError{
					Kind:    ErrKindAliasRetrieval,
					Message: res.err.Error(),
				},
			})
			continue
		}
		enriched = append(enriched, EnrichedChannel{
			Channel:     ch,
			RemoteAlias: res.alias,
		})
	}

	if failures > 0 {
		r.logger.Warn("alias resolution partially failed", map[string]interface{}{
			"channels":      len(channels),
			"distinctPeers": len(distinct),
			"failed":        failures,
		})
	}

	return enriched
}

// markAll handles the case where the fan-out as a whole cannot start: the
// full channel set is returned with a shared annotation, nothing dropped.
func (r *Resolver) markAll(channels []lnd.Channel, message string) []EnrichedChannel {
	r.logger.Error("alias resolution unavailable", map[string]interface{}{
		"channels": len(channels),
		"reason":   message,
	})
	enriched := make([]EnrichedChannel, 0, len(channels))
	for _, ch := range channels {
		enriched = append(enriched, EnrichedChannel{
			Channel:     ch,
			RemoteAlias: UnknownAlias,
			Err: &EnrichmentError{
				Kind:    ErrKindAliasRetrieval,
				Message: message,
			},
		})
	}
	return enriched
}

func distinctPubkeys(channels []lnd.Channel) []string {
	seen := make(map[string]struct{}, len(channels))
	distinct := make([]string, 0, len(channels))
	for _, ch := range channels {
		if _, ok := seen[ch.RemotePubkey]; ok {
			continue
		}
		seen[ch.RemotePubkey] = struct{}{}
		distinct = append(distinct, ch.RemotePubkey)
	}
	return distinct
}
