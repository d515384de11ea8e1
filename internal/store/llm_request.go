package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/skillcheck/internal/llm"
)

const llmRequestsTable = "llm_requests"

// LLMRequestRepo stores the LLM request event log. It implements
// llm.RequestRecorder.
type LLMRequestRepo struct {
	drv *entsql.Driver
}

var _ llm.RequestRecorder = (*LLMRequestRepo)(nil)

// LLMRequest is a stored llm.RequestRecord with its row ID.
type LLMRequest struct {
	ID int64
	llm.RequestRecord
}

func (r *LLMRequestRepo) RecordLLMRequest(ctx context.Context, rec llm.RequestRecord) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(llmRequestsTable).
		Columns("provider", "model", "purpose", "input_tokens", "output_tokens", "latency_ms",
			"success", "error_message", "request_body", "response_body", "created_at").
		Values(rec.Provider, rec.Model, rec.Purpose, rec.InputTokens, rec.OutputTokens, rec.LatencyMs,
			rec.Success, rec.ErrorMessage, rec.RequestBody, rec.ResponseBody, toUnix(rec.CreatedAt)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

// List returns the most recent requests first.
func (r *LLMRequestRepo) List(ctx context.Context, limit int) ([]LLMRequest, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select("id", "provider", "model", "purpose", "input_tokens", "output_tokens", "latency_ms",
			"success", "error_message", "request_body", "response_body", "created_at").
		From(entsql.Table(llmRequestsTable)).
		OrderBy(entsql.Desc("id"))
	if limit > 0 {
		sel.Limit(limit)
	}

	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query LLM requests: %w", err)
	}
	defer rows.Close()

	var out []LLMRequest
	for rows.Next() {
		var (
			e  LLMRequest
			at int64
		)
		if err := rows.Scan(&e.ID, &e.Provider, &e.Model, &e.Purpose, &e.InputTokens, &e.OutputTokens,
			&e.LatencyMs, &e.Success, &e.ErrorMessage, &e.RequestBody, &e.ResponseBody, &at); err != nil {
			return nil, fmt.Errorf("scan LLM request: %w", err)
		}
		e.CreatedAt = fromUnix(at)
		out = append(out, e)
	}
	return out, rows.Err()
}
