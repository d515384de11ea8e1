package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRecorder struct {
	mu   sync.Mutex
	recs []RequestRecord
	err  error
}

func (m *memRecorder) RecordLLMRequest(_ context.Context, rec RequestRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = append(m.recs, rec)
	return m.err
}

func TestLoggingProvider_RecordsSuccessAndFailure(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 4}},
		MockResponse{Err: errors.New("boom")},
	)
	rec := &memRecorder{}
	p := WithLogging(mock, ProviderMock, rec, nil)
	ctx := context.Background()

	req := Request{Purpose: PurposeGrading, System: "sys", Messages: []Message{{Role: RoleUser, Content: "hi"}}}
	_, err := p.Generate(ctx, req)
	require.NoError(t, err)
	_, err = p.Generate(ctx, req)
	require.Error(t, err)

	require.Len(t, rec.recs, 2)
	ok, failed := rec.recs[0], rec.recs[1]
	assert.True(t, ok.Success)
	assert.Equal(t, "grading", ok.Purpose)
	assert.Equal(t, 10, ok.InputTokens)
	assert.Equal(t, `{"a":1}`, ok.ResponseBody)
	assert.Contains(t, ok.RequestBody, "[system]\nsys")
	assert.Contains(t, ok.RequestBody, "[user]\nhi")

	assert.False(t, failed.Success)
	assert.Equal(t, "boom", failed.ErrorMessage)
}

func TestLoggingProvider_RecorderErrorIgnored(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	p := WithLogging(mock, ProviderMock, &memRecorder{err: errors.New("disk full")}, nil)

	_, err := p.Generate(context.Background(), Request{})
	assert.NoError(t, err)
}

func TestLoggingProvider_UnlabelledPurpose(t *testing.T) {
	rec := &memRecorder{}
	p := WithLogging(NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)}), ProviderMock, rec, nil)

	_, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	require.Len(t, rec.recs, 1)
	assert.Equal(t, "unknown", rec.recs[0].Purpose)
}

func TestRequestDefaultsFromPurpose(t *testing.T) {
	tests := []struct {
		req  Request
		want int
	}{
		{Request{Purpose: PurposeQuestionSet}, 4096},
		{Request{Purpose: PurposeGrading}, 512},
		{Request{}, fallbackMaxTokens},
		{Request{Purpose: PurposeGrading, MaxTokens: 64}, 64},
	}
	for _, tt := range tests {
		t.Run(tt.req.Purpose.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.withDefaults().MaxTokens)
		})
	}
}
