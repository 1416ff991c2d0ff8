package core

// Label is a closed-set tag describing the conversational purpose of a
// single user turn. Labels are derived per turn and never persisted.
type Label string

const (
	// LabelGreeting marks an opening turn ("hi", "hello", ...).
	LabelGreeting Label = "greeting"
	// LabelGoodbye marks a closing turn ("bye", "thanks bye", ...).
	LabelGoodbye Label = "goodbye"
	// LabelHowAreYou marks small talk about the assistant itself.
	LabelHowAreYou Label = "how_are_you"
	// LabelMenuQuery marks questions about food, dishes or prices.
	LabelMenuQuery Label = "menu_query"
	// LabelRestaurantInfo marks questions about hours, location, delivery etc.
	LabelRestaurantInfo Label = "restaurant_info"
	// LabelPromotionQuery marks questions about deals and offers.
	LabelPromotionQuery Label = "promotion_query"
	// LabelGeneral is the universal fallback when no pattern matches.
	LabelGeneral Label = "general"
)

// Trivial reports whether the label is answered from a response template
// without touching any tool or external model.
func (l Label) Trivial() bool {
	switch l {
	case LabelGreeting, LabelGoodbye, LabelHowAreYou:
		return true
	}
	return false
}
