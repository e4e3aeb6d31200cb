package communication

import (
	"errors"
	"fmt"

	"github.com/luca-patrignani/mental-bet/domain/bet"
)

var ErrMalformedMessage = errors.New("malformed message")

type Kind string

const (
	KindIdentify    Kind = "identify"
	KindBetCreated  Kind = "bet_created"
	KindStakePlaced Kind = "stake_placed"
	KindBetResolved Kind = "bet_resolved"
	KindChat        Kind = "chat"
)

// Message is implemented only by the five message kinds of this package.
type Message interface {
	Kind() Kind
	validate() error
}

// Identify announces the display name of the sender.
type Identify struct {
	Name string `cbor:"name"`
}

// BetCreated carries the full value of a newly created bet.
type BetCreated struct {
	Bet bet.Bet `cbor:"bet"`
}

type StakePlaced struct {
	BetID       string `cbor:"bet_id"`
	Participant string `cbor:"participant"`
	Option      string `cbor:"option"`
	Amount      int64  `cbor:"amount"`
}

type BetResolved struct {
	BetID         string `cbor:"bet_id"`
	WinningOption string `cbor:"winning_option"`
}

type Chat struct {
	Name string `cbor:"name"`
	Text string `cbor:"text"`
}

func (Identify) Kind() Kind    { return KindIdentify }
func (BetCreated) Kind() Kind  { return KindBetCreated }
func (StakePlaced) Kind() Kind { return KindStakePlaced }
func (BetResolved) Kind() Kind { return KindBetResolved }
func (Chat) Kind() Kind        { return KindChat }

func (m Identify) validate() error {
	return required("name", m.Name)
}

func (m BetCreated) validate() error {
	return required("bet.id", m.Bet.ID)
}

func (m StakePlaced) validate() error {
	return errors.Join(
		required("bet_id", m.BetID),
		required("participant", m.Participant),
		required("option", m.Option),
	)
}

func (m BetResolved) validate() error {
	return errors.Join(
		required("bet_id", m.BetID),
		required("winning_option", m.WinningOption),
	)
}

func (m Chat) validate() error {
	return required("name", m.Name)
}

func required(field, value string) error {
	if value == "" {
		return fmt.Errorf("missing %s", field)
	}
	return nil
}
