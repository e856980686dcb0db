package store

import "time"

// Config selects and configures backends
type Config struct {
	AppName string
	Tag     string

	PG PGConfig
	CH CHConfig
}

// PGConfig configures postgres
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// ConnectRetries bounds the startup ping loop, default 20
	ConnectRetries int
	PingTimeout    time.Duration // default 3s
}

// CHConfig configures clickhouse
type CHConfig struct {
	Enabled bool
	URL     string
}
