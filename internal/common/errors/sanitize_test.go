package errors

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrub(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string
		excludes string
	}{
		{
			name:     "unix path",
			input:    "open /home/alice/.lnd/data/chain/admin.macaroon: no such file",
			contains: "[path]",
			excludes: "/home/alice",
		},
		{
			name:     "hex macaroon",
			input:    "bad macaroon: " + strings.Repeat("ab", 40),
			contains: "[redacted]",
			excludes: strings.Repeat("ab", 40),
		},
		{
			name:     "dial target",
			input:    "dial tcp 10.0.0.12:10009: connection refused",
			contains: "[host]",
			excludes: "10.0.0.12:10009",
		},
		{
			name:     "clean message untouched",
			input:    "status 502",
			contains: "status 502",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Scrub(tt.input)
			assert.Contains(t, out, tt.contains)
			if tt.excludes != "" {
				assert.NotContains(t, out, tt.excludes)
			}
		})
	}
}

func TestSanitize_Nil(t *testing.T) {
	assert.Nil(t, Sanitize(nil))
}

func TestSanitize_StandardErrorKeepsCode(t *testing.T) {
	orig := NewChannelFetchFailedError(errors.New("read /var/lib/lnd/tls.cert: permission denied"))

	out := Sanitize(orig)

	require.NotNil(t, out)
	assert.Equal(t, ErrCodeChannelFetchFailed, out.Code)
	assert.True(t, out.Retryable)
	assert.NotContains(t, out.Details, "/var/lib")
}

func TestSanitize_WrappedStandardError(t *testing.T) {
	wrapped := errors.Join(errors.New("outer"), NewGatewayUnavailableError(errors.New("down")))

	out := Sanitize(wrapped)

	require.NotNil(t, out)
	assert.Equal(t, ErrCodeGatewayUnavailable, out.Code)
}

func TestSanitize_PlainError(t *testing.T) {
	out := Sanitize(errors.New("something odd happened"))

	require.NotNil(t, out)
	assert.Equal(t, ErrCodeQueryExecutionFailed, out.Code)
	assert.False(t, out.Retryable)
	assert.Equal(t, "something odd happened", out.Details)
}
