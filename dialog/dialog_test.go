package dialog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hungryfork/concierge/agent"
	"github.com/hungryfork/concierge/cache"
	"github.com/hungryfork/concierge/catalog"
	"github.com/hungryfork/concierge/classify"
	"github.com/hungryfork/concierge/core"
	"github.com/hungryfork/concierge/model"
	"github.com/hungryfork/concierge/session"
	"github.com/hungryfork/concierge/tool"
)

func newOrchestrator(mock *model.MockModel) (*Orchestrator, *session.Store) {
	store := catalog.NewInMemoryStore([]catalog.Item{{
		Name:         "Masala Chaat",
		Pricing:      []catalog.PriceOption{{Price: 90}},
		Available:    true,
		Tags:         []string{"veg", "chaat"},
		CategoryName: "Starters",
	}}, nil)
	c := cache.New()
	registry := tool.NewRegistry(nil,
		tool.NewCategoryFilterTool(store, c, nil),
		tool.NewExactLookupTool(store, c, nil),
	)
	sessions := session.NewStore()
	o := NewOrchestrator(sessions, classify.New(), agent.New(mock, registry))
	o.templates.pick = func(int) int { return 0 }
	return o, sessions
}

func TestTrivialTurnsNeverCallModel(t *testing.T) {
	mock := model.NewMockModel()
	o, _ := newOrchestrator(mock)

	for _, question := range []string{"hi", "how are you doing?", "ok bye"} {
		answer := o.Respond(context.Background(), "s1", question, nil)
		assert.NotEmpty(t, answer, "question %q", question)
	}
	assert.Equal(t, 0, mock.Calls())
}

func TestGreetingMutatesStageAndPersonalizes(t *testing.T) {
	mock := model.NewMockModel()
	o, sessions := newOrchestrator(mock)

	sessions.MergeContext("s1", "user_name", "Priya")
	answer := o.Respond(context.Background(), "s1", "hello", nil)

	assert.Contains(t, answer, "Priya")
	assert.Contains(t, answer, "I can help you with")
	assert.Equal(t, core.StageActive, sessions.GetOrCreate("s1").Stage())
}

func TestGoodbyeEndsSession(t *testing.T) {
	mock := model.NewMockModel()
	o, sessions := newOrchestrator(mock)

	answer := o.Respond(context.Background(), "s1", "goodbye", nil)

	assert.NotEmpty(t, answer)
	assert.Equal(t, core.StageEnded, sessions.GetOrCreate("s1").Stage())
}

func TestMenuQueryDelegatesToAgent(t *testing.T) {
	mock := model.NewMockModel().
		ReplyToolCall("call-1", "category_filter_search", `{"category":"starter","max_price":150}`).
		Reply("Try the **Masala Chaat** at ₹90!")
	o, sessions := newOrchestrator(mock)

	answer := o.Respond(context.Background(), "s1", "I'm hungry, show me starters under 150", nil)

	assert.Contains(t, answer, "Masala Chaat")

	// The turn leaves menu hints behind for later turns.
	sess := sessions.GetOrCreate("s1")
	hungry, _ := sess.Context("looking_for_food")
	assert.Equal(t, true, hungry)
	budget, _ := sess.Context("budget_mentioned")
	assert.Equal(t, 150, budget)
}

func TestIterationCapReturnsLabelFallback(t *testing.T) {
	mock := model.NewMockModel().
		ReplyToolCall("call-1", "category_filter_search", `{"category":"starter"}`)
	o, _ := newOrchestrator(mock)

	answer := o.Respond(context.Background(), "s1", "what food do you have", nil)

	assert.Equal(t, fallbacks[core.LabelMenuQuery], answer)
	assert.Equal(t, agent.DefaultMaxIterations, mock.Calls())
}

func TestModelFailureReturnsDistinctFallbacks(t *testing.T) {
	cases := []struct {
		question string
		label    core.Label
	}{
		{"what pizza do you have", core.LabelMenuQuery},
		{"when do you open", core.LabelRestaurantInfo},
		{"any special offers today", core.LabelPromotionQuery},
		{"tell me something", core.LabelGeneral},
	}
	seen := map[string]bool{}
	for _, tc := range cases {
		mock := model.NewMockModel().Fail(errors.New("provider down"))
		o, _ := newOrchestrator(mock)

		answer := o.Respond(context.Background(), "s1", tc.question, nil)

		require.Equal(t, fallbacks[tc.label], answer, "question %q", tc.question)
		seen[answer] = true
	}
	assert.Len(t, seen, len(cases), "fallbacks must differ per label")
}

func TestEmptyAgentAnswerFallsBackButKeepsHints(t *testing.T) {
	mock := model.NewMockModel().Reply("   ")
	o, sessions := newOrchestrator(mock)

	answer := o.Respond(context.Background(), "s1", "what pizza do you have under 300", nil)

	assert.Equal(t, fallbacks[core.LabelMenuQuery], answer)

	// The loop completed, so the menu hints survive for the next turn.
	sess := sessions.GetOrCreate("s1")
	hungry, _ := sess.Context("looking_for_food")
	assert.Equal(t, true, hungry)
	budget, _ := sess.Context("budget_mentioned")
	assert.Equal(t, 300, budget)
}

func TestAgentFailureRecordsNoHints(t *testing.T) {
	mock := model.NewMockModel().Fail(errors.New("provider down"))
	o, sessions := newOrchestrator(mock)

	answer := o.Respond(context.Background(), "s1", "what pizza do you have under 300", nil)

	assert.Equal(t, fallbacks[core.LabelMenuQuery], answer)
	_, ok := sessions.GetOrCreate("s1").Context("looking_for_food")
	assert.False(t, ok)
}

func TestHistoryBoundedToRecentTurns(t *testing.T) {
	mock := model.NewMockModel().Reply("Sure!")
	o, _ := newOrchestrator(mock)

	history := []core.Message{
		{Sender: core.SenderUser, Text: "turn one"},
		{Sender: core.SenderBot, Text: "turn two"},
		{Sender: core.SenderUser, Text: "turn three"},
		{Sender: core.SenderBot, Text: "turn four"},
		{Sender: core.SenderUser, Text: "turn five"},
	}
	o.Respond(context.Background(), "s1", "what pizza do you have", history)

	req := mock.LastRequest()
	require.NotNil(t, req)
	// Last three history turns plus the current question.
	require.Len(t, req.Contents, 4)
	assert.Equal(t, "turn three", req.Contents[0].Text())
	assert.False(t, strings.Contains(req.Contents[0].Text()+req.Contents[1].Text(), "turn one"))
}

func TestLastQueryRecordedInSession(t *testing.T) {
	mock := model.NewMockModel().Reply("Sure!")
	o, sessions := newOrchestrator(mock)

	o.Respond(context.Background(), "s1", "what pizza do you have", nil)

	assert.Equal(t, "what pizza do you have", sessions.GetOrCreate("s1").ContextString("last_query"))
}

func TestBudgetHintReachesInstructions(t *testing.T) {
	mock := model.NewMockModel().Reply("Sure!")
	o, sessions := newOrchestrator(mock)

	sessions.MergeContext("s1", "budget_mentioned", 200)
	o.Respond(context.Background(), "s1", "what pizza do you have", nil)

	req := mock.LastRequest()
	require.NotNil(t, req)
	assert.Contains(t, req.Instructions, "₹200")
}
