package config

import (
	"fmt"
	"log/slog"
)

// Validate checks that all values are in range.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}

	if c.Receiver.QueueCapacity < 1 {
		return fmt.Errorf("receiver.queue_capacity must be >= 1, got %d", c.Receiver.QueueCapacity)
	}
	if c.Receiver.DatagramBuffer < 1 {
		return fmt.Errorf("receiver.datagram_buffer must be >= 1, got %d", c.Receiver.DatagramBuffer)
	}
	if c.Receiver.MaxLineBytes < 1 {
		return fmt.Errorf("receiver.max_line_bytes must be >= 1, got %d", c.Receiver.MaxLineBytes)
	}
	if c.Receiver.HandshakeTimeout <= 0 {
		return fmt.Errorf("receiver.handshake_timeout must be positive, got %v", c.Receiver.HandshakeTimeout)
	}

	if c.Broker.WriteTimeout <= 0 {
		return fmt.Errorf("broker.write_timeout must be positive, got %v", c.Broker.WriteTimeout)
	}
	if c.Broker.ReadBuffer < 1 {
		return fmt.Errorf("broker.read_buffer must be >= 1, got %d", c.Broker.ReadBuffer)
	}
	if c.Broker.WriteBuffer < 1 {
		return fmt.Errorf("broker.write_buffer must be >= 1, got %d", c.Broker.WriteBuffer)
	}

	return nil
}

// ParseLevel maps a config level string to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", level)
	}
}
