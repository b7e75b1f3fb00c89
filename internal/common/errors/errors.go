// Package errors provides standardized error handling for the query pipeline.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeChannelFetchFailed   ErrorCode = "CHANNEL_FETCH_FAILED"
	ErrCodeAliasRetrievalFailed ErrorCode = "ALIAS_RETRIEVAL_FAILED"
	ErrCodeEnrichmentFailed     ErrorCode = "ENRICHMENT_FAILED"
	ErrCodeGatewayUnavailable   ErrorCode = "GATEWAY_UNAVAILABLE"
	ErrCodeQueryExecutionFailed ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeInvalidToolInput     ErrorCode = "INVALID_TOOL_INPUT"
	ErrCodeHistoryWriteFailed   ErrorCode = "HISTORY_WRITE_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewChannelFetchFailedError creates a retryable channel retrieval error.
func NewChannelFetchFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeChannelFetchFailed,
		Message:   "Failed to retrieve channel list from node",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAliasRetrievalFailedError creates a retryable per-peer alias lookup error.
func NewAliasRetrievalFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAliasRetrievalFailed,
		Message:   "Failed to retrieve peer alias",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEnrichmentFailedError creates an error for a fully failed enrichment stage.
func NewEnrichmentFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEnrichmentFailed,
		Message:   "Channel enrichment could not run",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewGatewayUnavailableError creates a retryable node connection error.
func NewGatewayUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGatewayUnavailable,
		Message:   "Lightning node is unreachable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a non-retryable internal orchestration error.
func NewQueryExecutionFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Query execution failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidToolInputError creates a non-retryable tool argument validation error.
func NewInvalidToolInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidToolInput,
		Message:   "Tool arguments failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewHistoryWriteFailedError creates a retryable history persistence error.
func NewHistoryWriteFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeHistoryWriteFailed,
		Message:   "Failed to record query history",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
