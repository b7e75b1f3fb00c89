// Package summary computes derived portfolio statistics from enriched
// channels. Everything here is pure; no I/O, no mutation of inputs.
package summary

import (
	"math"

	"lnd-advisor/internal/query/enrich"
)

// HealthCriteria bounds the acceptable local-balance ratio. Fixed for the
// lifetime of the handler that carries it.
type HealthCriteria struct {
	MinLocalRatio float64 `json:"minLocalRatio"`
	MaxLocalRatio float64 `json:"maxLocalRatio"`
}

// DefaultHealthCriteria flags channels holding less than 10% or more than
// 90% of their capacity locally.
func DefaultHealthCriteria() HealthCriteria {
	return HealthCriteria{MinLocalRatio: 0.1, MaxLocalRatio: 0.9}
}

// ImbalancedChannel is the single most skewed channel in a set, with its
// distance from the 50/50 midpoint.
type ImbalancedChannel struct {
	Channel enrich.EnrichedChannel `json:"channel"`
	Ratio   float64                `json:"ratio"`
}

// ChannelSummary is the aggregate view over one enriched channel set.
// Derived per query, never persisted.
type ChannelSummary struct {
	TotalCount         int                `json:"totalCount"`
	ActiveCount        int                `json:"activeCount"`
	InactiveCount      int                `json:"inactiveCount"`
	HealthyCount       int                `json:"healthyCount"`
	UnhealthyCount     int                `json:"unhealthyCount"`
	TotalCapacity      uint64             `json:"totalCapacity"`
	TotalLocalBalance  uint64             `json:"totalLocalBalance"`
	TotalRemoteBalance uint64             `json:"totalRemoteBalance"`
	AverageCapacity    float64            `json:"averageCapacity"`
	MostImbalanced     *ImbalancedChannel `json:"mostImbalanced,omitempty"`
}

// LocalRatio is the fraction of a channel's capacity held locally.
// Undefined for zero-capacity channels; those report 0.
func LocalRatio(ch enrich.EnrichedChannel) float64 {
	if ch.Capacity == 0 {
		return 0
	}
	return float64(ch.LocalBalance) / float64(ch.Capacity)
}

// ImbalanceRatio is the distance of the local-balance fraction from 0.5.
func ImbalanceRatio(ch enrich.EnrichedChannel) float64 {
	return math.Abs(0.5 - LocalRatio(ch))
}

// IsUnhealthy flags inactive channels and channels whose local ratio falls
// outside the configured bounds.
func IsUnhealthy(ch enrich.EnrichedChannel, criteria HealthCriteria) bool {
	if !ch.Active {
		return true
	}
	ratio := LocalRatio(ch)
	return ratio < criteria.MinLocalRatio || ratio > criteria.MaxLocalRatio
}

// Summarize computes the aggregate view of a channel set. An empty input
// yields all-zero counters and no most-imbalanced entry. For every input,
// HealthyCount + UnhealthyCount equals TotalCount.
func Summarize(channels []enrich.EnrichedChannel, criteria HealthCriteria) ChannelSummary {
	s := ChannelSummary{TotalCount: len(channels)}
	if len(channels) == 0 {
		return s
	}

	bestRatio := -1.0
	var bestChannel *enrich.EnrichedChannel

	for i, ch := range channels {
		s.TotalCapacity += ch.Capacity
		s.TotalLocalBalance += ch.LocalBalance
		s.TotalRemoteBalance += ch.RemoteBalance

		if ch.Active {
			s.ActiveCount++
		} else {
			s.InactiveCount++
		}

		if IsUnhealthy(ch, criteria) {
			s.UnhealthyCount++
		} else {
			s.HealthyCount++
		}

		// Zero-capacity channels have no defined ratio and are excluded
		// from the imbalance comparison. Ties keep the first encountered.
		if ch.Capacity == 0 {
			continue
		}
		if ratio := ImbalanceRatio(ch); ratio > bestRatio {
			bestRatio = ratio
			bestChannel = &channels[i]
		}
	}

	s.AverageCapacity = float64(s.TotalCapacity) / float64(len(channels))

	if bestChannel != nil {
		s.MostImbalanced = &ImbalancedChannel{
			Channel: *bestChannel,
			Ratio:   bestRatio,
		}
	}

	return s
}
