package identity

import (
	"testing"
)

func TestSignVerify(t *testing.T) {
	k := Generate()
	msg := []byte("topic" + k.ID())
	sig, err := k.Sign(msg)
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}
	if err := Verify(k.PublicBytes(), msg, sig); err != nil {
		t.Fatalf("valid signature rejected: %v", err)
	}
	if err := Verify(k.PublicBytes(), []byte("other"), sig); err == nil {
		t.Fatal("signature verified for a different message")
	}
	other := Generate()
	if err := Verify(other.PublicBytes(), msg, sig); err == nil {
		t.Fatal("signature verified with a different key")
	}
	if err := Verify([]byte("garbage"), msg, sig); err == nil {
		t.Fatal("signature verified with an invalid key")
	}
}

func TestID(t *testing.T) {
	a, b := Generate(), Generate()
	if a.ID() == b.ID() {
		t.Fatal("two key pairs share the same id")
	}
	if len(a.ID()) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(a.ID()))
	}
	id, err := IDFromPublic(a.PublicBytes())
	if err != nil {
		t.Fatal(err)
	}
	if id != a.ID() {
		t.Fatalf("expected %s, got %s", a.ID(), id)
	}
	if _, err := IDFromPublic([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for invalid public key")
	}
}

func TestShortID(t *testing.T) {
	if got := ShortID("abcdef0123"); got != "abcdef" {
		t.Fatalf("expected abcdef, got %s", got)
	}
	if got := ShortID("abc"); got != "abc" {
		t.Fatalf("expected abc, got %s", got)
	}
}
