// Package format renders enriched channel data into human-readable text,
// one view per known intent type. All formatters are pure and
// deterministic: same input, same text.
package format

import (
	"fmt"
	"strings"

	"lnd-advisor/internal/query/enrich"
	"lnd-advisor/internal/query/summary"
)

// Data is the shared input of every formatter: the enriched channel set
// and its derived summary. Formatters never mutate it.
type Data struct {
	Channels []enrich.EnrichedChannel
	Summary  summary.ChannelSummary
	Criteria summary.HealthCriteria
}

// ChannelList renders the portfolio overview.
func ChannelList(d Data) string {
	if d.Summary.TotalCount == 0 {
		return "Your node has no open channels."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Your node has %d %s with a total capacity of %d sats. %d active, %d inactive.\n",
		d.Summary.TotalCount, pluralChannels(d.Summary.TotalCount),
		d.Summary.TotalCapacity, d.Summary.ActiveCount, d.Summary.InactiveCount)

	for _, ch := range d.Channels {
		state := "active"
		if !ch.Active {
			state = "inactive"
		}
		fmt.Fprintf(&b, "- %s (%s): %d sats capacity, %d sats local, %s\n",
			displayName(ch), shortPubkey(ch.RemotePubkey), ch.Capacity, ch.LocalBalance, state)
	}

	return strings.TrimRight(b.String(), "\n")
}

// ChannelHealth renders the health view: counts plus one line per flagged
// channel with the reason it was flagged.
func ChannelHealth(d Data) string {
	if d.Summary.TotalCount == 0 {
		return "Your node has no open channels, so there is nothing to check."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d of %d channels are healthy (%d active, %d inactive).\n",
		d.Summary.HealthyCount, d.Summary.TotalCount,
		d.Summary.ActiveCount, d.Summary.InactiveCount)

	if d.Summary.UnhealthyCount == 0 {
		b.WriteString("No channels need attention.")
		return b.String()
	}

	fmt.Fprintf(&b, "%d %s attention:\n", d.Summary.UnhealthyCount, needVerb(d.Summary.UnhealthyCount))
	for _, ch := range d.Channels {
		if !summary.IsUnhealthy(ch, d.Criteria) {
			continue
		}
		fmt.Fprintf(&b, "- %s (%s): %s\n", displayName(ch), shortPubkey(ch.RemotePubkey), unhealthyReason(ch, d.Criteria))
	}

	return strings.TrimRight(b.String(), "\n")
}

// ChannelLiquidity renders the liquidity view: the local/remote split and
// the most imbalanced channel when one exists.
func ChannelLiquidity(d Data) string {
	if d.Summary.TotalCount == 0 {
		return "Your node has no open channels, so there is no liquidity to report."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Across %d %s you hold %d sats locally and %d sats sit on the remote side",
		d.Summary.TotalCount, pluralChannels(d.Summary.TotalCount),
		d.Summary.TotalLocalBalance, d.Summary.TotalRemoteBalance)

	if d.Summary.TotalCapacity > 0 {
		pct := 100 * float64(d.Summary.TotalLocalBalance) / float64(d.Summary.TotalCapacity)
		fmt.Fprintf(&b, " (%.1f%% local)", pct)
	}
	fmt.Fprintf(&b, ". Average channel capacity is %.0f sats.", d.Summary.AverageCapacity)

	if mi := d.Summary.MostImbalanced; mi != nil {
		fmt.Fprintf(&b, "\nMost imbalanced: %s (%s) at %.1f%% local balance, %.2f from an even split.",
			displayName(mi.Channel), shortPubkey(mi.Channel.RemotePubkey),
			100*summary.LocalRatio(mi.Channel), mi.Ratio)
	}

	return b.String()
}

func unhealthyReason(ch enrich.EnrichedChannel, criteria summary.HealthCriteria) string {
	if !ch.Active {
		return "inactive"
	}
	return fmt.Sprintf("local balance ratio %.2f is outside [%.2f, %.2f]",
		summary.LocalRatio(ch), criteria.MinLocalRatio, criteria.MaxLocalRatio)
}

func displayName(ch enrich.EnrichedChannel) string {
	if ch.RemoteAlias != "" {
		return ch.RemoteAlias
	}
	return "(no alias)"
}

func shortPubkey(pubkey string) string {
	if len(pubkey) <= 10 {
		return pubkey
	}
	return pubkey[:10] + "..."
}

func pluralChannels(n int) string {
	if n == 1 {
		return "channel"
	}
	return "channels"
}

func needVerb(n int) string {
	if n == 1 {
		return "channel needs"
	}
	return "channels need"
}
