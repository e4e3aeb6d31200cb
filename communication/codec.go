package communication

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("communication: failed to create CBOR enc mode: %v", err))
	}
	encMode = em
}

type envelope struct {
	Kind Kind            `cbor:"kind"`
	Body cbor.RawMessage `cbor:"body"`
}

// Encode serializes m into a self describing envelope.
func Encode(m Message) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("communication: cannot encode a nil message")
	}
	body, err := encMode.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("communication: marshal %s: %w", m.Kind(), err)
	}
	return encMode.Marshal(envelope{Kind: m.Kind(), Body: body})
}

// Decode parses an envelope produced by Encode. Every failure wraps
// ErrMalformedMessage.
func Decode(data []byte) (Message, error) {
	var env envelope
	if err := cbor.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	switch env.Kind {
	case KindIdentify:
		return decodeAs[Identify](env)
	case KindBetCreated:
		return decodeAs[BetCreated](env)
	case KindStakePlaced:
		return decodeAs[StakePlaced](env)
	case KindBetResolved:
		return decodeAs[BetResolved](env)
	case KindChat:
		return decodeAs[Chat](env)
	case "":
		return nil, fmt.Errorf("%w: missing kind", ErrMalformedMessage)
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrMalformedMessage, env.Kind)
	}
}

func decodeAs[T Message](env envelope) (Message, error) {
	var m T
	if len(env.Body) == 0 {
		return nil, fmt.Errorf("%w: %s without body", ErrMalformedMessage, env.Kind)
	}
	if err := cbor.Unmarshal(env.Body, &m); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedMessage, env.Kind, err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedMessage, env.Kind, err)
	}
	return m, nil
}
