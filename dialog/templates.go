package dialog

import (
	"fmt"
	"math/rand/v2"

	"github.com/hungryfork/concierge/core"
)

// greetingHelp is appended to every greeting so new customers learn what
// the assistant can do.
const greetingHelp = "\n\nI can help you with:\n" +
	"- Menu items and recommendations\n" +
	"- Prices and deals\n" +
	"- Restaurant info and hours\n" +
	"- Current promotions"

var greetingPool = []string{
	"Hello%s! Welcome to our restaurant! I'm Lily, your assistant.",
	"Hi there%s! I'm Lily and I'm here to help you explore our delicious menu!",
	"Hey%s! Ready to discover some amazing food? I'm Lily, your personal food guide!",
}

var howAreYouPool = []string{
	"I'm doing great, thank you! Ready to help you find some delicious food. What are you in the mood for today?",
	"I'm fantastic! Just excited to help you discover our amazing menu. Any particular cuisine you're craving?",
	"I'm wonderful, thanks for asking! I'm here and ready to make your food ordering experience amazing!",
}

var goodbyePool = []string{
	"Thank you for visiting! Come back soon for more delicious food!",
	"Goodbye! Hope to see you again soon. Enjoy your meal if you ordered!",
	"Take care! We're always here when you need great food recommendations!",
}

// fallbacks are the deterministic per-label replies used when the agent
// loop fails or returns nothing. Distinct text per label keeps the
// degradation meaningful to the customer.
var fallbacks = map[core.Label]string{
	core.LabelMenuQuery:      "I'm having trouble accessing our menu right now. Please try asking about specific food items or categories like 'pizza' or 'vegetarian options'.",
	core.LabelRestaurantInfo: "I'm having trouble getting restaurant information. Please call us directly or visit our website for current hours and location details.",
	core.LabelPromotionQuery: "I can't access current promotions right now. Please check our website or ask our staff about current deals!",
	core.LabelGeneral:        "I'm experiencing some technical difficulties. Please try rephrasing your question or contact our restaurant directly for assistance.",
}

// fallbackFor returns the label-specific fallback, defaulting to the
// general one for labels without dedicated text.
func fallbackFor(label core.Label) string {
	if msg, ok := fallbacks[label]; ok {
		return msg
	}
	return fallbacks[core.LabelGeneral]
}

// templates picks replies for trivial labels. pick is injectable so tests
// can make the choice deterministic.
type templates struct {
	pick func(n int) int
}

func newTemplates() *templates {
	return &templates{pick: rand.IntN}
}

// Greeting renders a greeting, personalized when the customer's name is
// known from session context.
func (t *templates) Greeting(userName string) string {
	name := ""
	if userName != "" {
		name = " " + userName
	}
	base := greetingPool[t.pick(len(greetingPool))]
	return fmt.Sprintf(base, name) + greetingHelp
}

// HowAreYou renders a small-talk reply.
func (t *templates) HowAreYou() string {
	return howAreYouPool[t.pick(len(howAreYouPool))]
}

// Goodbye renders a closing reply.
func (t *templates) Goodbye() string {
	return goodbyePool[t.pick(len(goodbyePool))]
}
