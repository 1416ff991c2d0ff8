// Package model normalizes generative completion providers behind a single
// synchronous interface. A Request carries the system instruction, the
// conversation contents and the available tool definitions; the Response
// is either a natural-language answer or one or more tool-invocation
// requests, unified across vendors so the agent loop never branches per
// provider.
package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/hungryfork/concierge/core"
)

// ToolDefinition declaratively exposes a callable tool to the model.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"` // JSON Schema, minimal subset
}

// Request captures the normalized model input for one reasoning step.
type Request struct {
	Instructions string
	Contents     []core.Content
	Tools        []ToolDefinition
}

// TokenUsage captures token accounting for a response when the provider
// reports it.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the completed model output for one request.
type Response struct {
	Content      core.Content
	FinishReason string // "stop", "tool_calls", "length", ...
	Usage        *TokenUsage
}

// Info describes a model implementation.
type Info struct {
	Name          string
	Provider      string // "openai", "anthropic", "mock", ...
	SupportsTools bool
}

// Model is the minimal interface the agent loop needs to drive generation.
// Implementations must honor ctx cancellation and deadlines; the caller
// applies a request-level timeout.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	Info() Info
}

// MockModel is an in-memory Model for tests. It replays a scripted
// sequence of responses and counts calls, which the behavioral tests use
// to prove that trivial turns never reach the model.
type MockModel struct {
	mu      sync.Mutex
	info    Info
	script  []Response
	next    int
	err     error
	calls   int
	history []Request
}

// NewMockModel constructs a MockModel with tool support enabled.
func NewMockModel() *MockModel {
	return &MockModel{info: Info{Name: "mock", Provider: "mock", SupportsTools: true}}
}

// Reply appends a plain text response to the script.
func (m *MockModel) Reply(text string) *MockModel {
	return m.enqueue(Response{
		Content:      core.NewAssistantContent(text),
		FinishReason: "stop",
	})
}

// ReplyToolCall appends a response requesting a single tool invocation.
func (m *MockModel) ReplyToolCall(id, name, arguments string) *MockModel {
	return m.enqueue(Response{
		Content: core.Content{Role: "assistant", Parts: []core.Part{
			core.FunctionCallPart{FunctionCall: core.FunctionCall{ID: id, Name: name, Arguments: arguments}},
		}},
		FinishReason: "tool_calls",
	})
}

// Fail makes every subsequent Generate call return err.
func (m *MockModel) Fail(err error) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// Calls returns how many times Generate has been invoked.
func (m *MockModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastRequest returns the most recent request, or nil before any call.
func (m *MockModel) LastRequest() *Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.history) == 0 {
		return nil
	}
	req := m.history[len(m.history)-1]
	return &req
}

// Generate implements Model. When the script is exhausted the last
// response repeats, which lets a single scripted tool call model an
// endlessly looping agent.
func (m *MockModel) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	m.history = append(m.history, req)
	if m.err != nil {
		return nil, m.err
	}
	if len(m.script) == 0 {
		return nil, fmt.Errorf("mock model: no scripted responses")
	}
	resp := m.script[m.next]
	if m.next < len(m.script)-1 {
		m.next++
	}
	return &resp, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }

func (m *MockModel) enqueue(resp Response) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, resp)
	return m
}
