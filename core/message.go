package core

// Message sender values as supplied by the caller of the engine. Any sender
// other than SenderUser is treated as the assistant side of the dialog.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// Message is one turn of chat history as handed over by the HTTP layer.
type Message struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}
