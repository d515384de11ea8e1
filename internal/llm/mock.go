package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider is a deterministic Provider for tests and the "mock" provider
// setting. Canned responses are returned in FIFO order; once the queue is
// empty the Fallback func answers, or ErrProviderUnavailable when unset.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request

	Fallback func(Request) MockResponse
}

func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	req = req.withDefaults()
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	var (
		resp MockResponse
		ok   bool
	)
	if len(m.responses) > 0 {
		resp, m.responses, ok = m.responses[0], m.responses[1:], true
	}
	fallback := m.Fallback
	m.mu.Unlock()

	if !ok {
		if fallback == nil {
			return nil, &ErrProviderUnavailable{}
		}
		resp = fallback(req)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if resp.Err != nil {
		return nil, resp.Err
	}
	return finish(req, resp.Content, resp.Usage, "mock", StopEnd)
}

func (m *MockProvider) ModelID() string { return "mock" }

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
