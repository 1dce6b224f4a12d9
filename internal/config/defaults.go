package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultLogLevel         = "info"
	DefaultQueueCapacity    = 1024
	DefaultDatagramBuffer   = 8192
	DefaultMaxLineBytes     = 1 << 20
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultWriteTimeout     = 5 * time.Second
	DefaultReadBuffer       = 1024
	DefaultWriteBuffer      = 1024
)

// Default returns a config with every field set to its default value.
// Used when no config file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	// Log defaults
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}

	// Receiver defaults
	if c.Receiver.QueueCapacity == 0 {
		c.Receiver.QueueCapacity = DefaultQueueCapacity
	}
	if c.Receiver.DatagramBuffer == 0 {
		c.Receiver.DatagramBuffer = DefaultDatagramBuffer
	}
	if c.Receiver.MaxLineBytes == 0 {
		c.Receiver.MaxLineBytes = DefaultMaxLineBytes
	}
	if c.Receiver.HandshakeTimeout == 0 {
		c.Receiver.HandshakeTimeout = DefaultHandshakeTimeout
	}

	// Broker defaults
	if c.Broker.WriteTimeout == 0 {
		c.Broker.WriteTimeout = DefaultWriteTimeout
	}
	if c.Broker.ReadBuffer == 0 {
		c.Broker.ReadBuffer = DefaultReadBuffer
	}
	if c.Broker.WriteBuffer == 0 {
		c.Broker.WriteBuffer = DefaultWriteBuffer
	}
}
