package discovery

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net"
	"time"

	"github.com/fxamacker/cbor/v2"
)

const (
	multicastIpAddress = "239.0.0.1"
	keyLen             = 8
	maxPacketSize      = 1024
)

// Announcement is what a peer tells the others about itself.
type Announcement struct {
	Topic   string `cbor:"topic"`
	PeerID  string `cbor:"peer_id"`
	Address string `cbor:"address"`
}

// Entry is an announcement received from another peer of the same topic.
type Entry struct {
	Announcement
	Time time.Time
}

// Discover announces Announcement and listens for the announcements of the
// other peers of the same topic. Configure the exported fields before Start.
type Discover struct {
	Announcement                 Announcement
	Port                         uint16
	IntervalBetweenAnnouncements time.Duration
	Logger                       *slog.Logger
	Entries                      chan Entry
	conn                         *net.UDPConn
	sendConn                     *net.UDPConn
	key                          []byte
}

// Start joins the multicast group and starts announcing and listening in
// background goroutines.
func (d *Discover) Start() error {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.IntervalBetweenAnnouncements <= 0 {
		d.IntervalBetweenAnnouncements = time.Second
	}
	d.Entries = make(chan Entry, 16)
	d.key = []byte(fmt.Sprintf("%08x", rand.Uint32()))
	payload, err := cbor.Marshal(d.Announcement)
	if err != nil {
		return err
	}
	addr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", multicastIpAddress, d.Port))
	if err != nil {
		return err
	}
	d.conn, err = net.ListenMulticastUDP("udp", nil, addr)
	if err != nil {
		return err
	}
	d.sendConn, err = net.DialUDP("udp", nil, addr)
	if err != nil {
		_ = d.conn.Close()
		return err
	}
	d.startListener()
	d.startDialer(append(append([]byte(nil), d.key...), payload...))
	return nil
}

// Close stops the discovery and closes the underlying UDP connections.
func (d *Discover) Close() error {
	err1 := d.conn.Close()
	err2 := d.sendConn.Close()
	return errors.Join(err1, err2)
}

// parsePacket decodes a packet, reporting false for our own packets, foreign
// topics and garbage.
func parsePacket(key []byte, topic string, packet []byte) (Announcement, bool) {
	if len(packet) < keyLen || string(packet[:keyLen]) == string(key) {
		return Announcement{}, false
	}
	var a Announcement
	if err := cbor.Unmarshal(packet[keyLen:], &a); err != nil {
		return Announcement{}, false
	}
	if a.Topic != topic || a.PeerID == "" || a.Address == "" {
		return Announcement{}, false
	}
	return a, true
}

func (d *Discover) startListener() {
	go func() {
		defer close(d.Entries)
		buffer := make([]byte, maxPacketSize)
		for {
			n, _, err := d.conn.ReadFromUDP(buffer)
			if err != nil {
				if errors.Is(err, net.ErrClosed) {
					return
				}
				d.Logger.Warn("discovery read failed", "err", err)
				continue
			}
			a, ok := parsePacket(d.key, d.Announcement.Topic, buffer[:n])
			if !ok {
				continue
			}
			d.deliver(a)
		}
	}()
}

// deliver hands a to the reader of Entries without blocking. Every
// announcement is delivered, repeats included, so a peer whose connection
// dropped is seen again. It reports false when Entries was full.
func (d *Discover) deliver(a Announcement) bool {
	select {
	case d.Entries <- Entry{Announcement: a, Time: time.Now()}:
		return true
	default:
		return false
	}
}

func (d *Discover) startDialer(packet []byte) {
	go func() {
		for {
			if _, err := d.sendConn.Write(packet); err != nil {
				if errors.Is(err, net.ErrClosed) {
					return
				}
				d.Logger.Warn("discovery announcement failed", "err", err)
			}
			time.Sleep(d.IntervalBetweenAnnouncements)
		}
	}()
}
