// Package tool implements the five retrieval capabilities the agent can
// invoke: structured category search, semantic menu search, FAQ search,
// exact item lookup and promotion listing. Every tool is cache-aware
// (tool-scoped keys into the shared response cache), resilient (internal
// faults become user-safe apology strings, never errors) and bounded
// (listings truncate to a fixed display limit with a remainder note).
package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hungryfork/concierge/logging"
	"github.com/hungryfork/concierge/model"
)

// displayLimit bounds every listing a tool produces.
const displayLimit = 10

// Tool is a named retrieval capability with a JSON-schema'd argument
// contract. Call never fails outward: whatever goes wrong inside, the
// returned string is safe to show a customer.
type Tool interface {
	// Name returns the unique identifier used in function call routing.
	Name() string
	// Description is surfaced to the model to guide tool selection.
	Description() string
	// Parameters returns a minimal JSON Schema for the arguments.
	Parameters() map[string]any
	// Call executes the tool with raw JSON arguments.
	Call(ctx context.Context, args json.RawMessage) string
}

// ToolError tags internal tool faults for logging. It never crosses the
// tool boundary; Call converts it to an apology string first.
type ToolError struct {
	Tool    string `json:"tool"`
	Message string `json:"message"`
	Code    string `json:"code"` // "EXECUTION_ERROR", "ARGUMENT_ERROR", ...
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
}

// Registry holds the tool set in a fixed order and dispatches calls by
// name. A Registry has no mutable state after construction and is safe
// for concurrent use.
type Registry struct {
	order  []string
	tools  map[string]Tool
	logger logging.Logger
}

// NewRegistry builds a registry preserving the given tool order, which is
// also the order definitions are presented to the model.
func NewRegistry(logger logging.Logger, tools ...Tool) *Registry {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	r := &Registry{tools: make(map[string]Tool, len(tools)), logger: logger}
	for _, t := range tools {
		if _, dup := r.tools[t.Name()]; dup {
			continue
		}
		r.order = append(r.order, t.Name())
		r.tools[t.Name()] = t
	}
	return r
}

// Definitions exposes the tool set to the model layer.
func (r *Registry) Definitions() []model.ToolDefinition {
	defs := make([]model.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		defs = append(defs, model.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return defs
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Dispatch routes a function call to its tool. Unknown names and panics
// inside a tool both degrade to a user-safe string; Dispatch never fails.
func (r *Registry) Dispatch(ctx context.Context, name string, args json.RawMessage) (result string) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("tool.panic", "tool", name, "recover", fmt.Sprintf("%v", rec))
			result = "I ran into a problem answering that. Please try rephrasing your question!"
		}
	}()

	t, ok := r.tools[name]
	if !ok {
		r.logger.Warn("tool.unknown", "tool", name)
		return fmt.Sprintf("I don't have a capability called %q. Try asking about our menu, restaurant info, or current deals!", name)
	}
	r.logger.Debug("tool.call", "tool", name)
	return t.Call(ctx, args)
}
