package main

import (
	"net"
	"testing"
)

func TestGuessIpAddress(t *testing.T) {
	base := net.IP{192, 168, 0, 1}
	tests := map[string]net.IP{
		"42":           {192, 168, 0, 42},
		"15.42":        {192, 168, 15, 42},
		"10.100.15.42": {10, 100, 15, 42},
		"":             base,
	}
	for partial, expected := range tests {
		actual, err := guessIpAddress(base, partial)
		if err != nil {
			t.Fatal(err)
		}
		if !actual.Equal(expected) {
			t.Fatalf("%q: expected %v, actual %v", partial, expected, actual)
		}
	}
	if _, err := guessIpAddress(base, "1.2.3.4.5"); err == nil {
		t.Fatal("expected an error for too many octets")
	}
	if _, err := guessIpAddress(base, "a.b"); err == nil {
		t.Fatal("expected an error for a non numeric octet")
	}
}

func TestAdvertiseAddress(t *testing.T) {
	addr, err := advertiseAddress(&net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: 4000}, "")
	if err != nil {
		t.Fatal(err)
	}
	if addr != "127.0.0.1:4000" {
		t.Fatalf("unexpected address %s", addr)
	}

	addr, err = advertiseAddress(&net.TCPAddr{IP: net.IPv4zero, Port: 4000}, "")
	if err != nil {
		t.Fatal(err)
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil || port != "4000" || net.ParseIP(host).IsUnspecified() {
		t.Fatalf("unexpected address %s", addr)
	}

	if addr, _ := advertiseAddress(&net.TCPAddr{Port: 4000}, "bet.example:5000"); addr != "bet.example:5000" {
		t.Fatalf("configured address ignored, got %s", addr)
	}
	if _, err := advertiseAddress(&net.TCPAddr{Port: 4000}, "no port"); err == nil {
		t.Fatal("expected an error for an address without port")
	}
}

func TestResolvePeerAddress(t *testing.T) {
	local := &net.TCPAddr{IP: net.IPv4(192, 168, 0, 1), Port: 4000}
	tests := map[string]string{
		"42":            "192.168.0.42:4000",
		"15.42:5000":    "192.168.15.42:5000",
		"10.0.0.7:4100": "10.0.0.7:4100",
	}
	for typed, expected := range tests {
		actual, err := resolvePeerAddress(local, typed)
		if err != nil {
			t.Fatal(err)
		}
		if actual != expected {
			t.Fatalf("%q: expected %s, actual %s", typed, expected, actual)
		}
	}
}
