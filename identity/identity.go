// Package identity derives the opaque peer identifiers used by the transport
// from Ed25519 key pairs, and signs the connection handshake with them.
package identity

import (
	"encoding/hex"
	"fmt"

	"go.dedis.ch/kyber/v4"
	"go.dedis.ch/kyber/v4/sign/schnorr"
	"go.dedis.ch/kyber/v4/suites"
)

// ShortLen is the number of hex characters shown for a peer by default.
const ShortLen = 6

var suite suites.Suite = suites.MustFind("Ed25519")

// KeyPair is the long term identity of a peer for the lifetime of the process.
type KeyPair struct {
	private kyber.Scalar
	Public  kyber.Point
}

// Generate picks a fresh random key pair.
func Generate() *KeyPair {
	private := suite.Scalar().Pick(suite.RandomStream())
	return &KeyPair{
		private: private,
		Public:  suite.Point().Mul(private, nil),
	}
}

// PublicBytes returns the binary encoding of the public key.
func (k *KeyPair) PublicBytes() []byte {
	b, err := k.Public.MarshalBinary()
	if err != nil {
		// Ed25519 points always marshal.
		panic(err)
	}
	return b
}

// ID returns the peer identifier: the hex encoding of the public key.
func (k *KeyPair) ID() string {
	return hex.EncodeToString(k.PublicBytes())
}

// Sign returns a Schnorr signature of msg.
func (k *KeyPair) Sign(msg []byte) ([]byte, error) {
	return schnorr.Sign(suite, k.private, msg)
}

// Verify checks that sig is a signature of msg by the owner of public.
func Verify(public, msg, sig []byte) error {
	p := suite.Point()
	if err := p.UnmarshalBinary(public); err != nil {
		return fmt.Errorf("invalid public key: %w", err)
	}
	return schnorr.Verify(suite, p, msg, sig)
}

// IDFromPublic returns the peer identifier of a binary public key.
func IDFromPublic(public []byte) (string, error) {
	if err := suite.Point().UnmarshalBinary(public); err != nil {
		return "", fmt.Errorf("invalid public key: %w", err)
	}
	return hex.EncodeToString(public), nil
}

// ShortID renders the first ShortLen characters of a peer identifier.
func ShortID(id string) string {
	if len(id) <= ShortLen {
		return id
	}
	return id[:ShortLen]
}
