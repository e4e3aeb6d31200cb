package network

import (
	"errors"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/gorilla/websocket"

	"github.com/luca-patrignani/mental-bet/identity"
)

var (
	ErrTopicMismatch = errors.New("topic mismatch")
	ErrSelfConnect   = errors.New("connection to self")
)

type hello struct {
	PublicKey []byte `cbor:"public_key"`
	Topic     string `cbor:"topic"`
	Signature []byte `cbor:"sig"`
}

func helloSigningBytes(topic string, publicKey []byte) []byte {
	return append([]byte(topic), publicKey...)
}

func (p *Peer) makeHello() ([]byte, error) {
	pub := p.keys.PublicBytes()
	sig, err := p.keys.Sign(helloSigningBytes(p.Topic, pub))
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(hello{PublicKey: pub, Topic: p.Topic, Signature: sig})
}

// handshake exchanges hellos on ws and returns the id of the remote peer.
func (p *Peer) handshake(ws *websocket.Conn) (string, error) {
	deadline := time.Now().Add(p.timeout)
	msg, err := p.makeHello()
	if err != nil {
		return "", err
	}
	if err := ws.SetWriteDeadline(deadline); err != nil {
		return "", err
	}
	if err := ws.WriteMessage(websocket.BinaryMessage, msg); err != nil {
		return "", fmt.Errorf("failed to send hello: %w", err)
	}
	if err := ws.SetReadDeadline(deadline); err != nil {
		return "", err
	}
	_, data, err := ws.ReadMessage()
	if err != nil {
		return "", fmt.Errorf("failed to receive hello: %w", err)
	}
	var h hello
	if err := cbor.Unmarshal(data, &h); err != nil {
		return "", fmt.Errorf("invalid hello: %w", err)
	}
	if h.Topic != p.Topic {
		return "", fmt.Errorf("%w: %q", ErrTopicMismatch, h.Topic)
	}
	if err := identity.Verify(h.PublicKey, helloSigningBytes(h.Topic, h.PublicKey), h.Signature); err != nil {
		return "", fmt.Errorf("bad hello signature: %w", err)
	}
	id, err := identity.IDFromPublic(h.PublicKey)
	if err != nil {
		return "", err
	}
	if id == p.ID {
		return "", ErrSelfConnect
	}
	if err := ws.SetReadDeadline(time.Time{}); err != nil {
		return "", err
	}
	if err := ws.SetWriteDeadline(time.Time{}); err != nil {
		return "", err
	}
	return id, nil
}
