// Package agent drives the bounded reason-act loop: send the conversation
// and tool definitions to the model, execute any requested tool calls,
// feed the results back and repeat until the model produces a final text
// answer or the iteration cap is hit. The cap keeps a confused model from
// burning tool calls forever; callers translate the resulting error into a
// label-appropriate fallback reply.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hungryfork/concierge/core"
	"github.com/hungryfork/concierge/logging"
	"github.com/hungryfork/concierge/model"
	"github.com/hungryfork/concierge/tool"
)

// DefaultMaxIterations caps the reason-act loop. Three rounds cover every
// sensible tool chain for this domain (redirect plus lookup plus answer).
const DefaultMaxIterations = 3

// DefaultModelTimeout bounds a single model call.
const DefaultModelTimeout = 10 * time.Second

// ErrIterationsExhausted reports that the model kept requesting tools
// past the iteration cap without producing a final answer.
var ErrIterationsExhausted = errors.New("agent: iteration limit reached without final answer")

// ErrEmptyResponse reports a model turn with neither text nor tool calls.
var ErrEmptyResponse = errors.New("agent: model returned empty response")

// Options configures an Agent.
type Options struct {
	MaxIterations int
	ModelTimeout  time.Duration // 0 disables the per-call timeout
	Logger        logging.Logger
}

// Agent runs the tool-calling loop over one model and one tool registry.
// Safe for concurrent use; all per-invocation state is local to Run.
type Agent struct {
	model    model.Model
	registry *tool.Registry
	opts     Options
}

// New constructs an Agent with the given options applied over defaults.
func New(m model.Model, registry *tool.Registry, optFns ...func(o *Options)) *Agent {
	opts := Options{
		MaxIterations: DefaultMaxIterations,
		ModelTimeout:  DefaultModelTimeout,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Agent{model: m, registry: registry, opts: opts}
}

// Run executes the loop for one turn and returns the model's final text.
// contents is the prior conversation plus the current user turn; Run never
// mutates it.
func (a *Agent) Run(ctx context.Context, instructions string, contents []core.Content) (string, error) {
	invocationID := uuid.NewString()
	conv := make([]core.Content, len(contents))
	copy(conv, contents)

	defs := a.registry.Definitions()
	for iteration := 1; iteration <= a.opts.MaxIterations; iteration++ {
		resp, err := a.generate(ctx, model.Request{
			Instructions: instructions,
			Contents:     conv,
			Tools:        defs,
		})
		if err != nil {
			return "", fmt.Errorf("agent: model call failed: %w", err)
		}

		calls := resp.Content.FunctionCalls()
		if len(calls) == 0 {
			text := strings.TrimSpace(resp.Content.Text())
			if text == "" {
				a.opts.Logger.Warn("agent.empty_response", "invocation_id", invocationID, "iteration", iteration)
				return "", ErrEmptyResponse
			}
			a.opts.Logger.Debug("agent.done", "invocation_id", invocationID, "iterations", iteration)
			return text, nil
		}

		conv = append(conv, resp.Content)
		parts := make([]core.Part, 0, len(calls))
		for _, fc := range calls {
			a.opts.Logger.Debug("agent.tool_call",
				"invocation_id", invocationID, "iteration", iteration, "tool", fc.Name)
			result := a.registry.Dispatch(ctx, fc.Name, json.RawMessage(fc.Arguments))
			parts = append(parts, core.FunctionResponsePart{FunctionResponse: core.FunctionResponse{
				ID:       fc.ID,
				Name:     fc.Name,
				Response: result,
			}})
		}
		conv = append(conv, core.Content{Role: "tool", Parts: parts})
	}

	a.opts.Logger.Warn("agent.iterations_exhausted",
		"invocation_id", invocationID, "max_iterations", a.opts.MaxIterations)
	return "", ErrIterationsExhausted
}

func (a *Agent) generate(ctx context.Context, req model.Request) (*model.Response, error) {
	if a.opts.ModelTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.ModelTimeout)
		defer cancel()
	}
	return a.model.Generate(ctx, req)
}
