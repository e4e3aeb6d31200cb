// Package discovery provides a lightweight UDP multicast discovery of the
// peers sharing a room topic.
//
// Typical usage:
//
//	d := &discovery.Discover{
//		Announcement: discovery.Announcement{Topic: topic, PeerID: id, Address: addr},
//		Port:                         53550,
//		IntervalBetweenAnnouncements: 2 * time.Second,
//	}
//	if err := d.Start(); err != nil {
//		return err
//	}
//	defer d.Close()
//
//	for entry := range d.Entries {
//		fmt.Printf("Discovered: %s at %s\n", entry.PeerID, entry.Address)
//	}
//
// Behavior:
//   - Announcements are sent via UDP multicast to 239.0.0.1 on the specified port.
//   - Each instance prefixes its packets with a random 8-byte key to filter them out.
//   - Announcements of other topics and undecodable packets are dropped.
//   - Entries is buffered; when the reader falls behind, announcements are dropped
//     and will be seen again at the next interval.
package discovery
