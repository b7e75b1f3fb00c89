// Package query orchestrates the intent-driven channel query pipeline:
// fetch, enrich, summarize, format. Every exit path returns a Result;
// no error crosses this boundary unsanitized.
package query

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	cerrors "lnd-advisor/internal/common/errors"
	"lnd-advisor/internal/common/logger"
	"lnd-advisor/internal/common/metrics"
	"lnd-advisor/internal/common/observability"
	"lnd-advisor/internal/history"
	"lnd-advisor/internal/lnd"
	"lnd-advisor/internal/query/enrich"
	"lnd-advisor/internal/query/format"
	"lnd-advisor/internal/query/intent"
	"lnd-advisor/internal/query/summary"
)

// GuidanceText answers intents the pipeline cannot map to a known view.
const GuidanceText = "I didn't understand that question. You can ask me to list your channels, check channel health, or review liquidity distribution."

// Result is the outcome of one handled query. Data carries the
// machine-readable summary; Err is set only on error-typed results.
type Result struct {
	Type string                 `json:"type"`
	Text string                 `json:"text"`
	Data interface{}            `json:"data"`
	Err  *cerrors.StandardError `json:"error,omitempty"`
}

// Handler runs the query pipeline. Its health criteria are fixed at
// construction; no state is shared between HandleQuery calls.
type Handler struct {
	gateway  lnd.Gateway
	resolver *enrich.Resolver
	criteria summary.HealthCriteria
	hist     *history.Store
	obs      *observability.Observability
	logger   logger.Logger
}

// NewHandler wires the pipeline. hist and obs may be nil; both are
// advisory side channels.
func NewHandler(gateway lnd.Gateway, criteria summary.HealthCriteria, hist *history.Store, obs *observability.Observability, log logger.Logger) *Handler {
	return &Handler{
		gateway:  gateway,
		resolver: enrich.NewResolver(gateway, log),
		criteria: criteria,
		hist:     hist,
		obs:      obs,
		logger:   log.WithFields(map[string]interface{}{"component": "query-handler"}),
	}
}

// HandleQuery runs the full pipeline for one intent. It is read-only and
// always returns a Result: retrieval failures, enrichment failures and
// panics all come back sanitized inside the Result, never as an error.
func (h *Handler) HandleQuery(ctx context.Context, in intent.Intent) (result Result) {
	correlationID := uuid.NewString()
	start := time.Now()

	log := h.logger.WithFields(map[string]interface{}{
		"correlationId": correlationID,
		"intentType":    string(in.Type),
	})
	log.Info("handling query", map[string]interface{}{
		"queryLength": len(in.Query),
	})

	defer func() {
		if r := recover(); r != nil {
			stdErr := cerrors.Sanitize(cerrors.NewQueryExecutionFailedError(fmt.Sprintf("panic: %v", r)))
			log.Error("query panicked", map[string]interface{}{
				"error": stdErr.Details,
			})
			result = errorResult(stdErr)
		}
		h.finish(ctx, in, result, correlationID, time.Since(start), log)
	}()

	channels, err := h.gateway.ListChannels(ctx)
	if err != nil {
		stdErr := cerrors.Sanitize(cerrors.NewChannelFetchFailedError(err))
		log.Error("channel fetch failed", map[string]interface{}{
			"error": stdErr.Details,
		})
		return errorResult(stdErr)
	}
	if channels == nil {
		channels = []lnd.Channel{}
	}

	var enriched []enrich.EnrichedChannel
	if len(channels) > 0 {
		enriched = h.resolver.Resolve(ctx, channels)
	} else {
		enriched = []enrich.EnrichedChannel{}
	}
	log.Info("enrichment complete", map[string]interface{}{
		"channels": len(enriched),
	})

	sum := summary.Summarize(enriched, h.criteria)

	data := format.Data{
		Channels: enriched,
		Summary:  sum,
		Criteria: h.criteria,
	}

	switch in.Type {
	case intent.TypeChannelList:
		return Result{Type: string(in.Type), Text: format.ChannelList(data), Data: sum}
	case intent.TypeChannelHealth:
		return Result{Type: string(in.Type), Text: format.ChannelHealth(data), Data: sum}
	case intent.TypeChannelLiquidity:
		return Result{Type: string(in.Type), Text: format.ChannelLiquidity(data), Data: sum}
	default:
		return Result{Type: string(intent.TypeUnknown), Text: GuidanceText, Data: sum}
	}
}

func (h *Handler) finish(ctx context.Context, in intent.Intent, result Result, correlationID string, elapsed time.Duration, log logger.Logger) {
	metrics.QueriesTotal.WithLabelValues(string(in.Type)).Inc()
	metrics.QueryDuration.WithLabelValues(string(in.Type)).Observe(elapsed.Seconds())
	if result.Err != nil {
		metrics.QueriesFailed.WithLabelValues(string(in.Type), string(result.Err.Code)).Inc()
	}
	if h.obs != nil {
		h.obs.RecordQueryHandled(ctx, result.Type)
		h.obs.RecordQueryDuration(ctx, elapsed, result.Type)
	}

	if h.hist != nil {
		_ = h.hist.Record(ctx, history.Entry{
			ID:         correlationID,
			IntentType: string(in.Type),
			Query:      in.Query,
			ResultType: result.Type,
			DurationMs: elapsed.Milliseconds(),
			CreatedAt:  time.Now().UTC(),
		})
	}

	if result.Err != nil {
		log.Error("query failed", map[string]interface{}{
			"resultType": result.Type,
			"errorCode":  string(result.Err.Code),
			"durationMs": elapsed.Milliseconds(),
		})
		return
	}
	log.Info("query complete", map[string]interface{}{
		"resultType": result.Type,
		"durationMs": elapsed.Milliseconds(),
	})
}

func errorResult(stdErr *cerrors.StandardError) Result {
	return Result{
		Type: "error",
		Text: "Sorry, something went wrong while answering that: " + stdErr.Message,
		Data: map[string]interface{}{},
		Err:  stdErr,
	}
}
