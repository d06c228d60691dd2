package chat

type EventType int

const (
	// EventSources names the documents whose chunks ground the answer.
	// Emitted exactly once, before any other event.
	EventSources EventType = iota
	// EventReasoning carries intermediate thought text, when the model
	// exposes it.
	EventReasoning
	// EventAnswer carries a fragment of the final answer, in generation
	// order.
	EventAnswer
	// EventError terminates a stream that failed after output began.
	// Already-emitted events are not retracted.
	EventError
)

// Event is one entry of the chat stream. Exactly one payload field is
// meaningful per type: Sources for EventSources, Text for the rest.
type Event struct {
	Type    EventType
	Sources []string
	Text    string
}

// HistoryPart is one text part of a conversation turn.
type HistoryPart struct {
	Text string `json:"text"`
}

// HistoryItem is one caller-supplied turn. The server holds no session
// state; each call carries its full history.
type HistoryItem struct {
	Role  string        `json:"role"`
	Parts []HistoryPart `json:"parts"`
}
