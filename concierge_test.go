package concierge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hungryfork/concierge/catalog"
	"github.com/hungryfork/concierge/core"
	"github.com/hungryfork/concierge/model"
)

func TestAssistantGreetingEndToEnd(t *testing.T) {
	a := New()

	answer := a.Respond(context.Background(), "s1", "hi", nil)

	assert.NotEmpty(t, answer)
	assert.Equal(t, core.StageActive, a.Sessions().GetOrCreate("s1").Stage())
}

func TestAssistantToolBackedTurn(t *testing.T) {
	mock := model.NewMockModel().
		ReplyToolCall("call-1", "category_filter_search", `{"category":"starter"}`).
		Reply("Our top starter is the **Masala Chaat** at ₹90!")
	a := New(func(o *Options) {
		o.Model = mock
		o.Catalog = catalog.NewInMemoryStore([]catalog.Item{{
			Name:         "Masala Chaat",
			Pricing:      []catalog.PriceOption{{Price: 90}},
			Available:    true,
			CategoryName: "Starters",
		}}, nil)
	})

	answer := a.Respond(context.Background(), "s1", "what food do you have", nil)

	require.Contains(t, answer, "Masala Chaat")
	assert.Equal(t, 2, mock.Calls())
}

func TestAssistantDefaultsDegradeGracefully(t *testing.T) {
	// The default mock model has no scripted responses, so every
	// non-trivial turn must land on its label fallback rather than error.
	a := New()

	answer := a.Respond(context.Background(), "s1", "what pizza do you have", nil)

	assert.Contains(t, answer, "trouble accessing our menu")
}
