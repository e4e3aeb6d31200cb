// Package wallet holds the spendable balance of the local peer.
// The balance is never replicated: each peer derives it from its own
// placements and from the payouts of the bets it knows about.
package wallet

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

// DefaultSeed is the balance every peer starts with.
const DefaultSeed int64 = 1000

var ErrInsufficientBalance = errors.New("insufficient balance")

type Wallet struct {
	mu      sync.RWMutex
	balance int64
}

func New(seed int64) *Wallet {
	return &Wallet{balance: seed}
}

// Reserve debits amount from the balance. It fails without side effects
// when the balance does not cover amount.
func (w *Wallet) Reserve(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("cannot reserve %d", amount)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if amount > w.balance {
		return fmt.Errorf("%w: requested %d, available %d", ErrInsufficientBalance, amount, w.balance)
	}
	w.balance -= amount
	return nil
}

// Credit adds amount to the balance. Non positive amounts are ignored and the
// balance saturates at math.MaxInt64.
func (w *Wallet) Credit(amount int64) {
	if amount <= 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.balance > math.MaxInt64-amount {
		w.balance = math.MaxInt64
		return
	}
	w.balance += amount
}

func (w *Wallet) Balance() int64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.balance
}
