// Package dialog implements the top-level orchestrator: classify the turn,
// answer trivial labels from templates, and delegate everything else to the
// bounded tool-calling agent. Every path terminates in a non-empty string;
// agent failures degrade to deterministic, label-specific fallback replies
// instead of surfacing errors to the caller.
package dialog

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/hungryfork/concierge/agent"
	"github.com/hungryfork/concierge/classify"
	"github.com/hungryfork/concierge/core"
	"github.com/hungryfork/concierge/logging"
	"github.com/hungryfork/concierge/session"
)

// DefaultMaxHistoryTurns bounds how much chat history reaches the model.
// Three turns keep the prompt light without losing the immediate context.
const DefaultMaxHistoryTurns = 3

// budgetPattern extracts the first number from a menu question as a
// budget hint for later turns.
var budgetPattern = regexp.MustCompile(`(\d+)`)

// systemPolicy is the standing instruction for the agent path. It encodes
// the tool-selection rules and the answer-formatting contract.
const systemPolicy = `You are Lily, the friendly assistant of our restaurant. You help customers explore the menu, find deals and get restaurant information.

Tool selection rules:
- For category plus price queries (e.g. "starters under 150", "paneer items below 200") ALWAYS use category_filter_search.
- For general food searches (e.g. "show me spicy food", "vegetarian options") use menu_search.
- For restaurant information (hours, location, delivery, payment) use faq_search.
- For details of one specific dish use exact_item_lookup.
- For deals and promotions use promotion_lookup.
- Never state factual menu data that did not come from a tool result.

Response rules:
- Use Markdown. Use bullet points when listing multiple items and make dish names bold.
- Format prices with the rupee symbol (₹).
- Include name, description, price and availability when you have them.
- Complete the full request; do not give partial answers.
- If the customer writes in Hinglish, answer in the same language.
- Keep responses conversational and end with a helpful suggestion where natural.`

// Options configures an Orchestrator.
type Options struct {
	MaxHistoryTurns int
	Logger          logging.Logger
}

// Orchestrator is the single entry point of the engine. Safe for
// concurrent use across sessions.
type Orchestrator struct {
	sessions   *session.Store
	classifier *classify.Classifier
	agent      *agent.Agent
	templates  *templates
	opts       Options
}

// NewOrchestrator wires the orchestrator.
func NewOrchestrator(sessions *session.Store, classifier *classify.Classifier, ag *agent.Agent, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		MaxHistoryTurns: DefaultMaxHistoryTurns,
		Logger:          logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Orchestrator{
		sessions:   sessions,
		classifier: classifier,
		agent:      ag,
		templates:  newTemplates(),
		opts:       opts,
	}
}

// Respond handles one customer turn and always returns a presentable
// answer. history is the caller-supplied recent transcript, oldest first.
func (o *Orchestrator) Respond(ctx context.Context, sessionID, question string, history []core.Message) string {
	sess := o.sessions.GetOrCreate(sessionID)
	sess.SetContext("last_query", question)

	label := o.classifier.Classify(question)
	o.opts.Logger.Info("dialog.turn", "session_id", sessionID, "label", string(label))

	if label.Trivial() {
		return o.templated(sessionID, sess, label)
	}

	answer, err := o.agent.Run(ctx, o.buildInstructions(sess), o.buildContents(question, history))

	// An empty final answer still means the loop completed: the menu hints
	// are recorded so the next turn benefits, and only the reply degrades.
	completed := err == nil || errors.Is(err, agent.ErrEmptyResponse)
	if completed && label == core.LabelMenuQuery {
		sess.SetContext("looking_for_food", true)
		if m := budgetPattern.FindStringSubmatch(question); m != nil {
			if budget, convErr := strconv.Atoi(m[1]); convErr == nil {
				sess.SetContext("budget_mentioned", budget)
			}
		}
	}

	if err != nil || strings.TrimSpace(answer) == "" {
		if err != nil {
			o.opts.Logger.Warn("dialog.fallback", "session_id", sessionID, "label", string(label), "error", err.Error())
		}
		return fallbackFor(label)
	}
	return answer
}

// templated answers a trivial turn from the response pools, mutating the
// conversation stage for greeting and goodbye.
func (o *Orchestrator) templated(sessionID string, sess *core.Session, label core.Label) string {
	switch label {
	case core.LabelGreeting:
		o.sessions.SetStage(sessionID, core.StageActive)
		return o.templates.Greeting(sess.ContextString("user_name"))
	case core.LabelGoodbye:
		o.sessions.SetStage(sessionID, core.StageEnded)
		return o.templates.Goodbye()
	default:
		return o.templates.HowAreYou()
	}
}

// buildInstructions combines the standing policy with session-derived
// hints.
func (o *Orchestrator) buildInstructions(sess *core.Session) string {
	var b strings.Builder
	b.WriteString(systemPolicy)

	if prefs := sess.ContextString("user_preferences"); prefs != "" {
		b.WriteString("\n\nCustomer preferences: ")
		b.WriteString(prefs)
	}
	if budget, ok := sess.Context("budget_mentioned"); ok {
		if v, ok := budget.(int); ok && v > 0 {
			b.WriteString("\n\nThe customer previously mentioned a budget of ₹")
			b.WriteString(strconv.Itoa(v))
			b.WriteString(".")
		}
	}
	return b.String()
}

// buildContents converts the bounded recent history plus the current turn
// into model contents.
func (o *Orchestrator) buildContents(question string, history []core.Message) []core.Content {
	recent := history
	if max := o.opts.MaxHistoryTurns; max > 0 && len(recent) > max {
		recent = recent[len(recent)-max:]
	}
	contents := make([]core.Content, 0, len(recent)+1)
	for _, msg := range recent {
		if msg.Sender == core.SenderUser {
			contents = append(contents, core.NewUserContent(msg.Text))
			continue
		}
		contents = append(contents, core.NewAssistantContent(msg.Text))
	}
	return append(contents, core.NewUserContent(question))
}
