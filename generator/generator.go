package generator

import "context"

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Turn is one role-tagged entry of a conversation. Parts are concatenated or
// mapped to model-native text parts by each provider.
type Turn struct {
	Role  string
	Parts []string
}

// Fragment is one streamed piece of model output. Thought marks reasoning
// text the model exposes before or alongside its answer; providers that do
// not surface reasoning only ever emit answer fragments.
type Fragment struct {
	Thought bool
	Text    string
}

// Stream is a pull iterator over generated fragments. Next returns io.EOF
// when the model's stream ends.
type Stream interface {
	Next() (Fragment, error)
	Close() error
}

// Generator produces a live fragment stream for a conversation. The system
// instruction is sent out-of-band on every call and is never part of the
// conversation itself. The final turn must be the newest user turn.
type Generator interface {
	Stream(ctx context.Context, system string, turns []Turn) (Stream, error)
}
