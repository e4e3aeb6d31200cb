package wallet

import (
	"errors"
	"math"
	"testing"
)

func TestReserve(t *testing.T) {
	w := New(DefaultSeed)
	if err := w.Reserve(400); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Balance() != 600 {
		t.Fatalf("expected 600, got %d", w.Balance())
	}
	if err := w.Reserve(601); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if w.Balance() != 600 {
		t.Fatalf("failed reserve changed the balance to %d", w.Balance())
	}
	if err := w.Reserve(600); err != nil {
		t.Fatalf("reserving the whole balance failed: %v", err)
	}
	if w.Balance() != 0 {
		t.Fatalf("expected 0, got %d", w.Balance())
	}
}

func TestReserveNonPositive(t *testing.T) {
	w := New(10)
	if err := w.Reserve(0); err == nil {
		t.Fatal("expected error reserving 0")
	}
	if err := w.Reserve(-1); err == nil {
		t.Fatal("expected error reserving a negative amount")
	}
}

func TestCredit(t *testing.T) {
	w := New(10)
	w.Credit(40)
	w.Credit(0)
	w.Credit(-3)
	if w.Balance() != 50 {
		t.Fatalf("expected 50, got %d", w.Balance())
	}
}

func TestCreditSaturates(t *testing.T) {
	w := New(math.MaxInt64 - 5)
	w.Credit(10)
	if w.Balance() != math.MaxInt64 {
		t.Fatalf("expected %d, got %d", int64(math.MaxInt64), w.Balance())
	}
}
