// Package intent classifies free-text questions into typed query intents.
package intent

import (
	"regexp"
	"strings"
)

// Type identifies a known query intent.
type Type string

const (
	TypeChannelList      Type = "channel_list"
	TypeChannelHealth    Type = "channel_health"
	TypeChannelLiquidity Type = "channel_liquidity"
	TypeUnknown          Type = "unknown"
)

// Intent is the structured classification of one free-text query.
// It is immutable once produced.
type Intent struct {
	Type       Type
	Query      string
	Parameters map[string]string
}

// rule pairs a predicate with the intent it produces. Rules are evaluated
// in declaration order and the first match wins, so more specific rules
// must come first.
type rule struct {
	match      func(text string) bool
	intentType Type
	extract    func(text string) map[string]string
}

var pubkeyPattern = regexp.MustCompile(`\b0[23][0-9a-fA-F]{64}\b`)

// Parser classifies raw text against an ordered rule table. It is pure
// and performs no I/O; unmappable input always yields an unknown intent.
type Parser struct {
	rules []rule
}

func NewParser() *Parser {
	return &Parser{
		rules: []rule{
			{
				match:      containsAny("liquidity", "imbalance", "imbalanced", "balance", "distribution"),
				intentType: TypeChannelLiquidity,
				extract:    extractPubkey,
			},
			{
				match:      containsAny("health", "healthy", "unhealthy", "status", "inactive", "offline", "problem"),
				intentType: TypeChannelHealth,
				extract:    extractPubkey,
			},
			{
				match:      containsAny("channel", "channels", "peers"),
				intentType: TypeChannelList,
				extract:    extractPubkey,
			},
		},
	}
}

// Parse never fails: text matching no rule is classified as unknown,
// carrying the original query for the guidance response.
func (p *Parser) Parse(text string) Intent {
	lowered := strings.ToLower(text)
	for _, r := range p.rules {
		if r.match(lowered) {
			return Intent{
				Type:       r.intentType,
				Query:      text,
				Parameters: r.extract(text),
			}
		}
	}
	return Intent{
		Type:       TypeUnknown,
		Query:      text,
		Parameters: map[string]string{},
	}
}

func containsAny(keywords ...string) func(string) bool {
	return func(text string) bool {
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				return true
			}
		}
		return false
	}
}

// extractPubkey pulls a peer public key out of the query text when one is
// present, e.g. "how is my channel with 02abc... doing".
func extractPubkey(text string) map[string]string {
	params := map[string]string{}
	if match := pubkeyPattern.FindString(text); match != "" {
		params["pubkey"] = strings.ToLower(match)
	}
	return params
}
