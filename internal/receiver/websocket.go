package receiver

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// websocketReceiver dials out to a "ws://" URI and streams every
// message the peer sends.
type websocketReceiver struct {
	cfg    Config
	logger *slog.Logger
}

// NewWebSocket creates the outbound-socket receiver for "ws://" descriptors.
func NewWebSocket(cfg Config, logger *slog.Logger) Receiver {
	if logger == nil {
		logger = slog.Default()
	}
	return &websocketReceiver{
		cfg:    cfg,
		logger: logger.With("component", "ws_receiver"),
	}
}

func (r *websocketReceiver) Matches(desc string) bool {
	return strings.HasPrefix(desc, "ws://")
}

func (r *websocketReceiver) Open(desc string) (Stream, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: r.cfg.HandshakeTimeout,
	}

	conn, _, err := dialer.Dial(desc, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", desc, err)
	}

	s := &socketStream{
		conn:   conn,
		queue:  NewQueue[string](r.cfg.QueueCapacity),
		done:   make(chan struct{}),
		logger: r.logger,
	}
	go s.readLoop()

	r.logger.Debug("websocket connected", "url", desc)
	return s, nil
}

// socketStream pumps messages from the connection into the queue; the
// relay loop drains the queue through Next.
type socketStream struct {
	conn      *websocket.Conn
	queue     *Queue[string]
	done      chan struct{}
	closeOnce sync.Once
	logger    *slog.Logger
}

func (s *socketStream) Next() (string, bool) {
	return s.queue.Receive()
}

// Close tears down the connection and ends the stream.
func (s *socketStream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		err = s.conn.Close()
		s.queue.Close()
	})
	return err
}

// readLoop reads messages from the WebSocket and queues them for the
// relay loop. Any read error ends the stream, so a publisher that goes
// away lets the relay finish normally.
func (s *socketStream) readLoop() {
	defer s.queue.Close()

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			// Ignore errors after Close() is called
			select {
			case <-s.done:
				return
			default:
			}

			var ce *websocket.CloseError
			if errors.As(err, &ce) && ce.Code == websocket.CloseNormalClosure {
				s.logger.Info("socket closed by peer")
			} else {
				s.logger.Warn("socket read failed", "error", err)
			}
			return
		}

		msg, err := decodeText(data)
		if err != nil {
			panic(fmt.Sprintf("websocket receiver: %v", err))
		}
		if !s.queue.Send(msg) {
			return
		}
	}
}
