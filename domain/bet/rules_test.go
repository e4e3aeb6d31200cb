package bet

import (
	"errors"
	"testing"
)

func TestCheckCreate(t *testing.T) {
	if err := CheckCreate("id", "Will it rain", []string{"Yes", "No"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cases := []struct {
		name        string
		id          string
		description string
		options     []string
	}{
		{"empty id", "", "d", []string{"a", "b"}},
		{"empty description", "id", "  ", []string{"a", "b"}},
		{"single option", "id", "d", []string{"a"}},
		{"empty option", "id", "d", []string{"a", ""}},
		{"duplicate options", "id", "d", []string{"a", "a"}},
	}
	for _, c := range cases {
		if err := CheckCreate(c.id, c.description, c.options); !errors.Is(err, ErrInvalidBet) {
			t.Fatalf("%s: expected ErrInvalidBet, got %v", c.name, err)
		}
	}
}

func TestCheckStake(t *testing.T) {
	b := New("id", "alice", "d", []string{"Yes", "No"})
	if err := CheckStake(b, "Yes", 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := CheckStake(b, "Maybe", 10); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption, got %v", err)
	}
	if err := CheckStake(b, "Yes", 0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if err := CheckStake(b, "Yes", -5); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	b.Status = Resolved
	if err := CheckStake(b, "Yes", 10); !errors.Is(err, ErrBetClosed) {
		t.Fatalf("expected ErrBetClosed, got %v", err)
	}
}

func TestCheckResolve(t *testing.T) {
	b := New("id", "alice", "d", []string{"Yes", "No"})
	if err := CheckResolve(b, "No"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := CheckResolve(b, "Maybe"); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption, got %v", err)
	}
	b.Status = Resolved
	if err := CheckResolve(b, "No"); !errors.Is(err, ErrAlreadyResolved) {
		t.Fatalf("expected ErrAlreadyResolved, got %v", err)
	}
}

func TestParseOptions(t *testing.T) {
	got := ParseOptions(" Yes, No ,Maybe")
	if len(got) != 3 || got[0] != "Yes" || got[1] != "No" || got[2] != "Maybe" {
		t.Fatalf("unexpected options %q", got)
	}
}

func TestClone(t *testing.T) {
	b := New("id", "alice", "d", []string{"Yes", "No"})
	b.Participants["bob"] = Stake{Option: "Yes", Amount: 10}
	c := b.Clone()
	c.Participants["bob"] = Stake{Option: "Yes", Amount: 99}
	c.Options[0] = "changed"
	if b.Participants["bob"].Amount != 10 || b.Options[0] != "Yes" {
		t.Fatalf("clone shares state with the original")
	}
	if b.Pool() != 10 {
		t.Fatalf("expected pool 10, got %d", b.Pool())
	}
}
