package broker

import (
	"fmt"
	"log/slog"
	"net"
)

// Datagram sends each message as one UDP datagram per destination. It
// is the catch-all: any descriptor the other brokers decline is treated
// as a remote address.
//
// Both outbound sockets are bound up front and every destination is
// resolved at attach time, so a process with a bad address refuses to
// start instead of failing mid-relay.
type Datagram struct {
	conn4  *net.UDPConn
	conn6  *net.UDPConn
	dests  []datagramDest
	logger *slog.Logger
}

type datagramDest struct {
	raw  string
	addr *net.UDPAddr
}

// NewDatagram creates the datagram broker. It must sit last in the
// broker list because it matches every descriptor.
func NewDatagram(logger *slog.Logger) (*Datagram, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conn4, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero})
	if err != nil {
		return nil, fmt.Errorf("bind udp4 socket: %w", err)
	}
	conn6, err := net.ListenUDP("udp6", &net.UDPAddr{IP: net.IPv6unspecified})
	if err != nil {
		conn4.Close()
		return nil, fmt.Errorf("bind udp6 socket: %w", err)
	}

	return &Datagram{
		conn4:  conn4,
		conn6:  conn6,
		logger: logger.With("component", "udp_broker"),
	}, nil
}

func (b *Datagram) Matches(desc string) bool {
	return true
}

// AddDestination resolves the descriptor once; sends never re-resolve.
func (b *Datagram) AddDestination(desc string) error {
	addr, err := net.ResolveUDPAddr("udp", desc)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", desc, err)
	}
	if addr.IP == nil {
		return fmt.Errorf("resolve %s: no host", desc)
	}

	b.dests = append(b.dests, datagramDest{raw: desc, addr: addr})
	b.logger.Debug("datagram destination resolved", "desc", desc, "addr", addr.String())
	return nil
}

// Send routes each destination through the socket matching its address
// family. A send failure is fatal: datagram delivery has no
// per-connection state to evict.
func (b *Datagram) Send(message string) {
	for _, dest := range b.dests {
		conn := b.conn6
		if dest.addr.IP.To4() != nil {
			conn = b.conn4
		}
		if _, err := conn.WriteToUDP([]byte(message), dest.addr); err != nil {
			panic(fmt.Sprintf("datagram broker: send to %s: %v", dest.raw, err))
		}
	}
}

// Close releases both sockets. Only for teardown.
func (b *Datagram) Close() error {
	err4 := b.conn4.Close()
	err6 := b.conn6.Close()
	if err4 != nil {
		return err4
	}
	return err6
}
