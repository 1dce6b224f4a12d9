package broker

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// WebSocket is the fan-out broker: one listener per "ws://" destination,
// every message delivered to every connected client.
//
// Clients never send application data on these connections. Each
// connection gets a monitor goroutine whose sole job is to observe the
// peer (close frames, resets, stray messages) and record the outcome;
// Send consults that record as its liveness probe, so the probe never
// blocks the relay.
//
// Send holds a destination's lock for the whole probe-and-write pass.
// Writes carry a deadline, so a stalled peer delays the pass by at most
// one write timeout before it is evicted.
type WebSocket struct {
	cfg      Config
	logger   *slog.Logger
	upgrader websocket.Upgrader
	dests    []*fanoutDestination
}

// NewWebSocket creates the fan-out broker for "ws://" descriptors.
func NewWebSocket(cfg Config, logger *slog.Logger) *WebSocket {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocket{
		cfg:    cfg,
		logger: logger.With("component", "ws_broker"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBuffer,
			WriteBufferSize: cfg.WriteBuffer,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (b *WebSocket) Matches(desc string) bool {
	return strings.HasPrefix(desc, "ws://")
}

// AddDestination binds the descriptor's host:port and starts its accept
// loop. Every call creates an independent listener and connection
// collection; Send visits them in attachment order.
func (b *WebSocket) AddDestination(desc string) error {
	hostPort, err := hostPortFromURI(desc)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", hostPort)
	if err != nil {
		return fmt.Errorf("listen %s: %w", hostPort, err)
	}

	d := &fanoutDestination{addr: hostPort, ln: ln}
	b.dests = append(b.dests, d)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.handleUpgrade(d, w, r)
	})
	go func() {
		if err := http.Serve(ln, handler); err != nil && !errors.Is(err, net.ErrClosed) {
			b.logger.Warn("accept loop ended", "addr", d.addr, "error", err)
		}
	}()

	b.logger.Info("fan-out listening", "addr", d.addr)
	return nil
}

// Send delivers the message to every live connection of every
// destination. Dead peers are evicted along the way; a peer that spoke
// out of turn or failed in an unrecognized way is fatal.
func (b *WebSocket) Send(message string) {
	for _, d := range b.dests {
		b.sendTo(d, message)
	}
}

// Close stops all listeners and drops all connections. Only for
// teardown; Send must not race with it.
func (b *WebSocket) Close() error {
	for _, d := range b.dests {
		d.ln.Close()
		d.mu.Lock()
		for _, c := range d.conns {
			c.ws.Close()
		}
		d.conns = nil
		d.mu.Unlock()
	}
	return nil
}

// FanoutStats is a point-in-time view of the broker.
type FanoutStats struct {
	Destinations int
	Connections  int
}

// Stats returns destination and live-connection counts.
func (b *WebSocket) Stats() FanoutStats {
	s := FanoutStats{Destinations: len(b.dests)}
	for _, d := range b.dests {
		d.mu.Lock()
		s.Connections += len(d.conns)
		d.mu.Unlock()
	}
	return s
}

func (b *WebSocket) handleUpgrade(d *fanoutDestination, w http.ResponseWriter, r *http.Request) {
	ws, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// A failed or hostile handshake costs only this attempt
		b.logger.Warn("websocket upgrade failed", "addr", d.addr, "error", err)
		return
	}

	c := &fanoutConn{
		id:     uuid.New().String(),
		remote: ws.RemoteAddr().String(),
		ws:     ws,
	}

	d.mu.Lock()
	d.conns = append(d.conns, c)
	d.mu.Unlock()

	b.logger.Info("client connected", "addr", d.addr, "peer", c.remote, "conn_id", c.id)
	go c.monitor()
}

func (b *WebSocket) sendTo(d *fanoutDestination, message string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	kept := d.conns[:0]
	for _, c := range d.conns {
		if b.deliver(d, c, message) {
			kept = append(kept, c)
		}
	}
	// Clear trailing slots so evicted entries can be collected
	for i := len(kept); i < len(d.conns); i++ {
		d.conns[i] = nil
	}
	d.conns = kept
}

// deliver probes the recorded peer state, then writes. Reports whether
// the connection stays in the collection.
func (b *WebSocket) deliver(d *fanoutDestination, c *fanoutConn, message string) bool {
	// Probe before writing
	if cond := c.condition(); cond != nil {
		return b.evict(d, c, cond)
	}

	c.ws.SetWriteDeadline(time.Now().Add(b.cfg.WriteTimeout))
	err := c.ws.WriteMessage(websocket.TextMessage, []byte(message))
	if err == nil {
		// A connection the monitor saw die takes no further writes
		if cond := c.condition(); cond != nil {
			return b.evict(d, c, cond)
		}
		return true
	}

	switch {
	case errors.Is(err, websocket.ErrCloseSent):
		b.logger.Info("client closed connection", "addr", d.addr, "peer", c.remote, "conn_id", c.id)
	case errors.Is(err, syscall.ECONNRESET):
		b.logger.Warn("client connection reset", "addr", d.addr, "peer", c.remote, "conn_id", c.id)
	case errors.Is(err, syscall.ECONNABORTED), errors.Is(err, syscall.EPIPE):
		b.logger.Warn("client connection aborted", "addr", d.addr, "peer", c.remote, "conn_id", c.id)
	default:
		var ne net.Error
		if !errors.As(err, &ne) {
			panic(fmt.Sprintf("fan-out broker: write to %s failed: %v", c.remote, err))
		}
		if ne.Timeout() {
			b.logger.Warn("client write timed out", "addr", d.addr, "peer", c.remote, "conn_id", c.id)
		} else {
			b.logger.Warn("client write failed", "addr", d.addr, "peer", c.remote, "conn_id", c.id, "error", err)
		}
	}
	c.ws.Close()
	return false
}

// evict logs the recorded condition and drops the connection, or
// aborts the process for conditions the relay must not tolerate.
func (b *WebSocket) evict(d *fanoutDestination, c *fanoutConn, cond *condition) bool {
	switch cond.kind {
	case condPeerClosed:
		b.logger.Info("client closed connection", "addr", d.addr, "peer", c.remote, "conn_id", c.id)
	case condReset:
		b.logger.Warn("client connection reset", "addr", d.addr, "peer", c.remote, "conn_id", c.id, "error", cond.err)
	case condAbnormal:
		b.logger.Warn("client closed without handshake", "addr", d.addr, "peer", c.remote, "conn_id", c.id, "error", cond.err)
	case condMessage:
		panic(fmt.Sprintf("fan-out broker: unexpected message from %s: %q", c.remote, cond.payload))
	default:
		panic(fmt.Sprintf("fan-out broker: connection %s failed: %v", c.remote, cond.err))
	}
	c.ws.Close()
	return false
}

// fanoutDestination is one listen address with its connection collection.
type fanoutDestination struct {
	addr string
	ln   net.Listener

	mu    sync.Mutex
	conns []*fanoutConn
}

// fanoutConn is one client connection plus the terminal condition its
// monitor recorded, nil while the peer is healthy.
type fanoutConn struct {
	id     string
	remote string
	ws     *websocket.Conn

	mu   sync.Mutex
	cond *condition
}

func (c *fanoutConn) condition() *condition {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cond
}

func (c *fanoutConn) record(cond *condition) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cond == nil {
		c.cond = cond
	}
}

// monitor blocks on the connection until the peer does something
// terminal, records it, and exits. ReadMessage consumes ping and pong
// control frames internally, so only application data or an error
// returns here; either one ends the connection's useful life.
func (c *fanoutConn) monitor() {
	_, data, err := c.ws.ReadMessage()
	if err == nil {
		c.record(&condition{kind: condMessage, payload: data})
		return
	}
	c.record(classifyRead(err))
}

type condKind int

const (
	condPeerClosed condKind = iota // close frame received
	condReset                      // connection reset by peer
	condAbnormal                   // dropped without a close handshake
	condMessage                    // peer sent application data
	condFailed                     // unclassified read failure
)

type condition struct {
	kind    condKind
	payload []byte // condMessage only
	err     error
}

// classifyRead sorts a read error into the recoverable conditions the
// relay evicts on, or condFailed for everything it must not tolerate.
// Reads carry no deadline, so even a deadline error lands in the fatal
// arm.
func classifyRead(err error) *condition {
	var ce *websocket.CloseError
	switch {
	case errors.As(err, &ce):
		if ce.Code == websocket.CloseAbnormalClosure {
			return &condition{kind: condAbnormal, err: err}
		}
		return &condition{kind: condPeerClosed}
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return &condition{kind: condAbnormal, err: err}
	case errors.Is(err, syscall.ECONNRESET):
		return &condition{kind: condReset, err: err}
	}
	return &condition{kind: condFailed, err: err}
}
