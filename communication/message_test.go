package communication

import (
	"errors"
	"reflect"
	"testing"

	"github.com/fxamacker/cbor/v2"

	"github.com/luca-patrignani/mental-bet/domain/bet"
)

func TestRoundTrip(t *testing.T) {
	resolved := bet.New("r1", "bob", "Who wins", []string{"A", "B", "C"})
	resolved.Participants["carol"] = bet.Stake{Option: "B", Amount: 12}
	resolved.Status = bet.Resolved
	resolved.Winner = "B"

	messages := []Message{
		Identify{Name: "alice"},
		BetCreated{Bet: bet.New("b1", "alice", "Will it rain", []string{"Yes", "No"})},
		BetCreated{Bet: resolved},
		StakePlaced{BetID: "b1", Participant: "bob", Option: "Yes", Amount: 40},
		BetResolved{BetID: "b1", WinningOption: "Yes"},
		Chat{Name: "alice", Text: "hello"},
		Chat{Name: "alice"},
	}
	for _, m := range messages {
		data, err := Encode(m)
		if err != nil {
			t.Fatalf("failed to encode %s: %v", m.Kind(), err)
		}
		decoded, err := Decode(data)
		if err != nil {
			t.Fatalf("failed to decode %s: %v", m.Kind(), err)
		}
		if !reflect.DeepEqual(m, decoded) {
			t.Fatalf("round trip mismatch: sent %#v, received %#v", m, decoded)
		}
	}
}

func TestEncodeDeterministic(t *testing.T) {
	b := bet.New("b1", "alice", "d", []string{"Yes", "No"})
	b.Participants["x"] = bet.Stake{Option: "Yes", Amount: 1}
	b.Participants["y"] = bet.Stake{Option: "No", Amount: 2}
	first, err := Encode(BetCreated{Bet: b})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		again, err := Encode(BetCreated{Bet: b})
		if err != nil {
			t.Fatal(err)
		}
		if string(again) != string(first) {
			t.Fatal("encoding is not deterministic")
		}
	}
}

func TestEncodeNil(t *testing.T) {
	if _, err := Encode(nil); err == nil {
		t.Fatal("expected error encoding nil")
	}
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	b, err := cbor.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	return b
}

func TestDecodeMalformed(t *testing.T) {
	stakeBody := mustMarshal(t, map[string]any{"bet_id": "b1", "participant": "bob", "amount": 3})
	cases := map[string][]byte{
		"empty":           nil,
		"not cbor":        []byte("{\"type\":\"CHAT\"}"),
		"integer":         mustMarshal(t, 42),
		"missing kind":    mustMarshal(t, map[string]any{"body": mustMarshal(t, Chat{Name: "a"})}),
		"unknown kind":    mustMarshal(t, map[string]any{"kind": "delete_bet", "body": mustMarshal(t, Chat{Name: "a"})}),
		"missing body":    mustMarshal(t, map[string]any{"kind": "chat"}),
		"wrong body type": mustMarshal(t, map[string]any{"kind": "chat", "body": mustMarshal(t, []int{1, 2})}),
		"missing option":  mustMarshal(t, map[string]any{"kind": "stake_placed", "body": stakeBody}),
		"missing bet id":  mustMarshal(t, map[string]any{"kind": "bet_created", "body": mustMarshal(t, BetCreated{})}),
		"missing name":    mustMarshal(t, map[string]any{"kind": "identify", "body": mustMarshal(t, Identify{})}),
		"missing winner":  mustMarshal(t, map[string]any{"kind": "bet_resolved", "body": mustMarshal(t, BetResolved{BetID: "b1"})}),
	}
	for name, data := range cases {
		m, err := Decode(data)
		if !errors.Is(err, ErrMalformedMessage) {
			t.Fatalf("%s: expected ErrMalformedMessage, got message %v and error %v", name, m, err)
		}
	}
}

func TestDecodeTruncated(t *testing.T) {
	data, err := Encode(StakePlaced{BetID: "b1", Participant: "bob", Option: "Yes", Amount: 40})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < len(data); i++ {
		if _, err := Decode(data[:i]); !errors.Is(err, ErrMalformedMessage) {
			t.Fatalf("truncated at %d: expected ErrMalformedMessage, got %v", i, err)
		}
	}
}
