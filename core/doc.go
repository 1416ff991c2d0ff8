// Package core holds the shared domain types of the concierge engine:
// conversation sessions, classification labels, chat messages and the
// polymorphic content parts exchanged with generative models. Higher level
// packages (classify, session, tool, agent, dialog) depend on core; core
// depends on nothing but the standard library.
package core
