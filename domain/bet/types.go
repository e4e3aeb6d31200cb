package bet

import "math"

type Status string

const (
	Open     Status = "open"
	Resolved Status = "resolved"
)

// Stake is the position of one participant on a bet.
// Option is fixed at the first placement, Amount accumulates.
type Stake struct {
	Option string `cbor:"option"`
	Amount int64  `cbor:"amount"`
}

// Bet is the replicated unit of state. Every peer holds its own copy.
type Bet struct {
	ID           string           `cbor:"id"`
	Creator      string           `cbor:"creator"`
	Description  string           `cbor:"description"`
	Options      []string         `cbor:"options"`
	Participants map[string]Stake `cbor:"participants"`
	Status       Status           `cbor:"status"`
	Winner       string           `cbor:"winner,omitempty"`
}

// New returns an open bet with no participants.
func New(id, creator, description string, options []string) Bet {
	return Bet{
		ID:           id,
		Creator:      creator,
		Description:  description,
		Options:      append([]string(nil), options...),
		Participants: map[string]Stake{},
		Status:       Open,
	}
}

// Clone returns a deep copy of the bet.
func (b Bet) Clone() Bet {
	c := b
	c.Options = append([]string(nil), b.Options...)
	c.Participants = CloneParticipants(b.Participants)
	return c
}

func (b Bet) IsOpen() bool {
	return b.Status == Open
}

// HasOption reports whether option is one of the declared options of the bet.
func (b Bet) HasOption(option string) bool {
	for _, o := range b.Options {
		if o == option {
			return true
		}
	}
	return false
}

// Pool returns the sum of all the stakes placed on the bet, capped at
// math.MaxInt64.
func (b Bet) Pool() int64 {
	var total int64
	for _, s := range b.Participants {
		if total > math.MaxInt64-s.Amount {
			return math.MaxInt64
		}
		total += s.Amount
	}
	return total
}

func CloneParticipants(p map[string]Stake) map[string]Stake {
	c := make(map[string]Stake, len(p))
	for name, s := range p {
		c[name] = s
	}
	return c
}
