package errors

import (
	stderrors "errors"
	"regexp"
	"time"
)

// Patterns for material that must not cross the module boundary: filesystem
// paths (macaroon/cert locations), long hex blobs (macaroons, full pubkeys)
// and dial targets.
var (
	pathPattern     = regexp.MustCompile(`(?:[A-Za-z]:)?(?:/[\w.~-]+){2,}`)
	hexBlobPattern  = regexp.MustCompile(`\b[0-9a-fA-F]{40,}\b`)
	hostPortPattern = regexp.MustCompile(`\b[\w.-]+\.[a-zA-Z]{2,}:\d{2,5}\b|\b(?:\d{1,3}\.){3}\d{1,3}:\d{2,5}\b`)
)

// Scrub removes sensitive substrings from a message while keeping it readable.
func Scrub(msg string) string {
	msg = pathPattern.ReplaceAllString(msg, "[path]")
	msg = hexBlobPattern.ReplaceAllString(msg, "[redacted]")
	msg = hostPortPattern.ReplaceAllString(msg, "[host]")
	return msg
}

// Sanitize converts any error into a StandardError safe to log or return
// across the public boundary. StandardErrors keep their code; everything
// else becomes QUERY_EXECUTION_FAILED.
func Sanitize(err error) *StandardError {
	if err == nil {
		return nil
	}

	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return &StandardError{
			Code:      stdErr.Code,
			Message:   Scrub(stdErr.Message),
			Details:   Scrub(stdErr.Details),
			Retryable: stdErr.Retryable,
			Timestamp: stdErr.Timestamp,
		}
	}

	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Query execution failed",
		Details:   Scrub(err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
