package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/luca-patrignani/mental-bet/discovery"
	"github.com/luca-patrignani/mental-bet/network"
)

const dialTimeout = 5 * time.Second

// guessIpAddress takes a base IP address and a partial address string,
// and fills in the missing octets from the base address.
func guessIpAddress(baseAddress net.IP, partialAddr string) (net.IP, error) {
	ip := make(net.IP, len(baseAddress))
	copy(ip, baseAddress)
	octets := strings.Split(partialAddr, ".")
	if len(octets) == 1 && octets[0] == "" {
		return ip, nil
	}
	if len(octets) > 4 {
		return net.IP{}, fmt.Errorf("too many octets in %q", partialAddr)
	}
	for i := 0; i < len(octets); i++ {
		var octet byte
		_, err := fmt.Sscanf(octets[i], "%d", &octet)
		if err != nil {
			return net.IP{}, err
		}
		ip[len(ip)-len(octets)+i] = octet
	}
	return ip, nil
}

// advertiseAddress returns the host:port the other peers should dial. A
// configured address wins; otherwise an unspecified listener IP is replaced by
// the first non loopback IPv4 address of the host.
func advertiseAddress(listener *net.TCPAddr, configured string) (string, error) {
	if configured != "" {
		if _, _, err := net.SplitHostPort(configured); err != nil {
			return "", fmt.Errorf("invalid advertise address %q: %w", configured, err)
		}
		return configured, nil
	}
	ip := listener.IP
	if ip == nil || ip.IsUnspecified() {
		var err error
		ip, err = hostIPv4()
		if err != nil {
			return "", err
		}
	}
	return net.JoinHostPort(ip.String(), strconv.Itoa(listener.Port)), nil
}

func hostIPv4() (net.IP, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	for _, ifi := range ifaces {
		if ifi.Flags&net.FlagUp == 0 || ifi.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := ifi.Addrs()
		for _, a := range addrs {
			ipnet, ok := a.(*net.IPNet)
			if !ok {
				continue
			}
			if ip4 := ipnet.IP.To4(); ip4 != nil {
				return ip4, nil
			}
		}
	}
	return net.IPv4(127, 0, 0, 1).To4(), nil
}

// splitHostPort splits an address into host and port, using defaultPort if no port is specified.
func splitHostPort(addr string, defaultPort int) (string, string, error) {
	ipaddr, port, err := net.SplitHostPort(addr)
	if err != nil {
		addr = addr + ":" + strconv.Itoa(defaultPort)
		ipaddr, port, err = net.SplitHostPort(addr)
		if err != nil {
			return "", "", err
		}
	}
	return ipaddr, port, nil
}

// resolvePeerAddress completes a partially typed address using the local
// address: "42" becomes 192.168.0.42 on a 192.168.0.x host, with the local
// port when none is given.
func resolvePeerAddress(local *net.TCPAddr, typed string) (string, error) {
	host, port, err := splitHostPort(typed, local.Port)
	if err != nil {
		return "", err
	}
	base := local.IP.To4()
	if base == nil || base.IsUnspecified() {
		if base, err = hostIPv4(); err != nil {
			return "", err
		}
	}
	ip, err := guessIpAddress(base, host)
	if err != nil {
		return "", err
	}
	return net.JoinHostPort(ip.String(), port), nil
}

// shouldDial reports whether self opens the connection to other. Only the
// peer with the lower id dials, so every pair ends up with one connection.
func shouldDial(self, other string, connected bool) bool {
	return !connected && other != "" && self < other
}

func connectDiscovered(ctx context.Context, peer *network.Peer, entries <-chan discovery.Entry, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-entries:
			if !ok {
				return
			}
			if !shouldDial(peer.ID, e.PeerID, peer.Connected(e.PeerID)) {
				continue
			}
			dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
			if err := peer.Dial(dialCtx, e.Address); err != nil {
				logger.Debug("cannot connect to discovered peer", "peer", e.PeerID, "address", e.Address, "err", err)
			}
			cancel()
		}
	}
}
