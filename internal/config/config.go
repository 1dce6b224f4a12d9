package config

import "time"

// Config is the root configuration for a netpipe process.
//
// Everything here is a tunable with a working default; input and output
// descriptors are positional arguments, never configuration.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Receiver ReceiverConfig `yaml:"receiver"`
	Broker   BrokerConfig   `yaml:"broker"`
}

// LogConfig holds diagnostic logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// ReceiverConfig holds input-side settings.
type ReceiverConfig struct {
	QueueCapacity    int           `yaml:"queue_capacity"`    // initial capacity of the message queue
	DatagramBuffer   int           `yaml:"datagram_buffer"`   // max accepted datagram size in bytes
	MaxLineBytes     int           `yaml:"max_line_bytes"`    // max line length for the stdin receiver
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"` // websocket dial handshake timeout
}

// BrokerConfig holds output-side settings.
type BrokerConfig struct {
	WriteTimeout time.Duration `yaml:"write_timeout"` // per-connection fan-out write deadline
	ReadBuffer   int           `yaml:"read_buffer"`   // websocket upgrader read buffer size
	WriteBuffer  int           `yaml:"write_buffer"`  // websocket upgrader write buffer size
}
