package ledger

import (
	"fmt"
	"math"
	"sync"

	"github.com/luca-patrignani/mental-bet/domain/bet"
)

type Ledger struct {
	mu    sync.RWMutex
	bets  map[string]*bet.Bet
	order []string
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		bets:  make(map[string]*bet.Bet),
		order: make([]string, 0),
	}
}

// CreateBet inserts a new open bet with no participants. It returns false
// without error when a bet with the same id is already present.
func (l *Ledger) CreateBet(id, creator, description string, options []string) (bool, error) {
	if err := bet.CheckCreate(id, description, options); err != nil {
		return false, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.bets[id]; ok {
		return false, nil
	}
	b := bet.New(id, creator, description, options)
	l.bets[id] = &b
	l.order = append(l.order, id)
	return true, nil
}

// CheckStake reports whether PlaceStake would accept the stake, without
// modifying the ledger.
func (l *Ledger) CheckStake(betID, option string, amount int64) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	b, ok := l.bets[betID]
	if !ok {
		return fmt.Errorf("%w: %s", bet.ErrUnknownBet, betID)
	}
	return bet.CheckStake(*b, option, amount)
}

// PlaceStake adds amount to the stake of participant on the bet. The option
// of an existing stake is never changed. The ledger does not touch any
// balance: the local caller must have reserved amount beforehand.
func (l *Ledger) PlaceStake(betID, participant, option string, amount int64) error {
	if participant == "" {
		return fmt.Errorf("%w: empty participant", bet.ErrInvalidBet)
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.bets[betID]
	if !ok {
		return fmt.Errorf("%w: %s", bet.ErrUnknownBet, betID)
	}
	if err := bet.CheckStake(*b, option, amount); err != nil {
		return err
	}
	stake, ok := b.Participants[participant]
	if !ok {
		stake = bet.Stake{Option: option}
	}
	if stake.Amount > math.MaxInt64-amount {
		return fmt.Errorf("%w: stake of %s on bet %s would exceed %d", bet.ErrInvalidAmount, participant, betID, int64(math.MaxInt64))
	}
	stake.Amount += amount
	b.Participants[participant] = stake
	return nil
}

// ResolveBet closes the bet with winningOption and returns a copy of its
// participants, so that the caller can compute the payouts exactly once.
// The resolver is not authorized here: any peer may resolve any bet.
func (l *Ledger) ResolveBet(betID, winningOption, resolver string) (map[string]bet.Stake, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.bets[betID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", bet.ErrUnknownBet, betID)
	}
	if err := bet.CheckResolve(*b, winningOption); err != nil {
		return nil, err
	}
	b.Status = bet.Resolved
	b.Winner = winningOption
	return bet.CloneParticipants(b.Participants), nil
}

// Bet returns a copy of the bet with the given id.
func (l *Ledger) Bet(id string) (bet.Bet, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	b, ok := l.bets[id]
	if !ok {
		return bet.Bet{}, false
	}
	return b.Clone(), true
}

// Bets returns a snapshot of every bet, in the order they were first seen.
func (l *Ledger) Bets() []bet.Bet {
	l.mu.RLock()
	defer l.mu.RUnlock()

	bets := make([]bet.Bet, 0, len(l.order))
	for _, id := range l.order {
		bets = append(bets, l.bets[id].Clone())
	}
	return bets
}

// Len returns the number of bets and how many of them are still open.
func (l *Ledger) Len() (total, open int) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, b := range l.bets {
		if b.IsOpen() {
			open++
		}
	}
	return len(l.bets), open
}
