package receiver

import (
	"fmt"
	"log/slog"
	"net"
	"sync"
)

// datagramReceiver binds a local UDP address and yields one message per
// datagram. It is the catch-all: any descriptor the other receivers
// decline is treated as a bind address.
type datagramReceiver struct {
	cfg    Config
	logger *slog.Logger
}

// NewDatagram creates the datagram receiver. It must sit last in the
// receiver list because it matches every descriptor.
func NewDatagram(cfg Config, logger *slog.Logger) Receiver {
	if logger == nil {
		logger = slog.Default()
	}
	return &datagramReceiver{
		cfg:    cfg,
		logger: logger.With("component", "udp_receiver"),
	}
}

func (r *datagramReceiver) Matches(desc string) bool {
	return true
}

func (r *datagramReceiver) Open(desc string) (Stream, error) {
	conn, err := net.ListenPacket("udp", desc)
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", desc, err)
	}

	s := &datagramStream{
		conn:   conn,
		buf:    make([]byte, r.cfg.DatagramBuffer),
		queue:  NewQueue[string](r.cfg.QueueCapacity),
		done:   make(chan struct{}),
		logger: r.logger,
	}
	go s.readLoop()

	r.logger.Debug("datagram socket bound", "addr", conn.LocalAddr().String())
	return s, nil
}

// datagramStream queues one message per received datagram. Payloads
// larger than the buffer are truncated by the read.
type datagramStream struct {
	conn      net.PacketConn
	buf       []byte
	queue     *Queue[string]
	done      chan struct{}
	closeOnce sync.Once
	logger    *slog.Logger
}

func (s *datagramStream) Next() (string, bool) {
	return s.queue.Receive()
}

// Close shuts the socket and ends the stream.
func (s *datagramStream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.conn.Close()
		s.queue.Close()
	})
	return err
}

func (s *datagramStream) readLoop() {
	defer s.queue.Close()

	for {
		n, addr, err := s.conn.ReadFrom(s.buf)
		if err != nil {
			// Ignore errors after Close() is called
			select {
			case <-s.done:
				return
			default:
			}
			s.logger.Warn("datagram read failed", "error", err)
			return
		}

		msg, err := decodeText(s.buf[:n])
		if err != nil {
			panic(fmt.Sprintf("datagram receiver: %v (from %s)", err, addr))
		}
		if !s.queue.Send(msg) {
			return
		}
	}
}
