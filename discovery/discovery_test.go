package discovery

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"
)

var errUnavailable = errors.New("multicast unavailable")

func packet(t *testing.T, key string, a Announcement) []byte {
	t.Helper()
	b, err := cbor.Marshal(a)
	if err != nil {
		t.Fatal(err)
	}
	return append([]byte(key), b...)
}

func TestParsePacket(t *testing.T) {
	own := []byte("0000abcd")
	a := Announcement{Topic: "room", PeerID: "p1", Address: "10.0.0.1:4000"}

	got, ok := parsePacket(own, "room", packet(t, "1234abcd", a))
	if !ok || got != a {
		t.Fatalf("expected %v, got %v %v", a, got, ok)
	}
	if _, ok := parsePacket(own, "room", packet(t, "0000abcd", a)); ok {
		t.Fatal("own packet accepted")
	}
	if _, ok := parsePacket(own, "other", packet(t, "1234abcd", a)); ok {
		t.Fatal("foreign topic accepted")
	}
	if _, ok := parsePacket(own, "room", []byte("1234abcdgarbage")); ok {
		t.Fatal("garbage accepted")
	}
	if _, ok := parsePacket(own, "room", []byte("123")); ok {
		t.Fatal("short packet accepted")
	}
	noAddr := a
	noAddr.Address = ""
	if _, ok := parsePacket(own, "room", packet(t, "1234abcd", noAddr)); ok {
		t.Fatal("announcement without address accepted")
	}
}

func TestDeliverRepeatsAndDrops(t *testing.T) {
	d := Discover{Entries: make(chan Entry, 1)}
	a := Announcement{Topic: "room", PeerID: "p1", Address: "10.0.0.1:4000"}

	if !d.deliver(a) {
		t.Fatal("first announcement not delivered")
	}
	if d.deliver(a) {
		t.Fatal("announcement delivered to a full channel")
	}
	if entry := <-d.Entries; entry.Announcement != a {
		t.Fatalf("expected %v, got %v", a, entry.Announcement)
	}
	if !d.deliver(a) {
		t.Fatal("repeated announcement not delivered after the reader caught up")
	}
}

func TestDiscover(t *testing.T) {
	n := 3
	fatal := make(chan error, n)
	for i := range n {
		go func() {
			d := Discover{
				Announcement: Announcement{
					Topic:   "room",
					PeerID:  fmt.Sprint(i),
					Address: fmt.Sprintf("localhost:%d", 4000+i),
				},
				IntervalBetweenAnnouncements: 200 * time.Millisecond,
				Port:                         53552,
			}
			if err := d.Start(); err != nil {
				fatal <- fmt.Errorf("%w: %v", errUnavailable, err)
				return
			}
			defer d.Close()
			set := make(map[string]struct{})
			timeout := time.After(5 * time.Second)
			for len(set) < n-1 {
				select {
				case entry := <-d.Entries:
					if entry.PeerID == fmt.Sprint(i) {
						fatal <- fmt.Errorf("node %d discovered itself", i)
						return
					}
					set[entry.PeerID] = struct{}{}
				case <-timeout:
					fatal <- fmt.Errorf("%w: node %d found %d peers", errUnavailable, i, len(set))
					return
				}
			}
			fatal <- nil
		}()
	}
	for range n {
		if err := <-fatal; err != nil {
			if errors.Is(err, errUnavailable) {
				t.Skipf("multicast not available: %v", err)
			}
			t.Fatal(err)
		}
	}
}
