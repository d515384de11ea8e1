package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/skillcheck/internal/logger"
)

// RequestRecord is one logged LLM call.
type RequestRecord struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
	CreatedAt    time.Time
}

// RequestRecorder persists RequestRecords. The store implements it.
type RequestRecorder interface {
	RecordLLMRequest(ctx context.Context, rec RequestRecord) error
}

// LoggingProvider records every request through a RequestRecorder and
// writes a structured log line.
type LoggingProvider struct {
	inner    Provider
	provider string
	rec      RequestRecorder
	log      *logger.Logger
}

// WithLogging wraps a Provider with event logging. Either rec or log may be nil.
func WithLogging(p Provider, providerName string, rec RequestRecorder, log *logger.Logger) Provider {
	if log == nil {
		log = logger.Nop()
	}
	return &LoggingProvider{inner: p, provider: providerName, rec: rec, log: log}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	rec := RequestRecord{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     req.Purpose.String(),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
		CreatedAt:   start.UTC(),
	}
	if resp != nil {
		rec.InputTokens = resp.Usage.InputTokens
		rec.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			rec.Model = resp.Model
		}
		rec.ResponseBody = string(resp.Content)
	}
	if err != nil {
		rec.ErrorMessage = err.Error()
		l.log.Warn("llm request failed", "provider", rec.Provider, "purpose", rec.Purpose, "latency_ms", rec.LatencyMs, "error", err)
	} else {
		l.log.Debug("llm request", "provider", rec.Provider, "model", rec.Model, "purpose", rec.Purpose,
			"latency_ms", rec.LatencyMs, "input_tokens", rec.InputTokens, "output_tokens", rec.OutputTokens)
	}

	// A recording failure never fails the request.
	if l.rec != nil {
		if recErr := l.rec.RecordLLMRequest(context.WithoutCancel(ctx), rec); recErr != nil {
			l.log.Warn("record llm request", "error", recErr)
		}
	}
	return resp, err
}

func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }

// serializeRequest renders the request as readable text for the event log.
func serializeRequest(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
