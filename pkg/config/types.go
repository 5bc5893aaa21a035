package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent recall configuration stored as config.toml
// in the .recall/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version  int            `toml:"version"`
	Server   ServerConfig   `toml:"server"`
	Memory   MemoryConfig   `toml:"memory"`
	Metadata MetadataConfig `toml:"metadata"`
	Events   EventsConfig   `toml:"events"`
	Pipeline PipelineConfig `toml:"pipeline"`
}

// ServerConfig holds lifecycle API server settings.
type ServerConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// MemoryConfig holds remote memory service settings.
type MemoryConfig struct {
	BaseURL    string `toml:"base_url,omitempty"`
	APIKey     string `toml:"api_key,omitempty"`
	TimeoutMS  uint   `toml:"timeout_ms,omitempty"`
	FetchLimit uint   `toml:"fetch_limit,omitempty"`
}

// MetadataConfig holds call metadata sink settings. Provider selects the
// backend (inmemory, sqlite, postgres, webhook); Target is the path, DSN, or
// URL that backend needs.
type MetadataConfig struct {
	Provider string `toml:"provider,omitempty"`
	Target   string `toml:"target,omitempty"`
}

// EventsConfig holds event stream settings. Provider selects the backend
// (nop, kafka); Brokers is a comma-separated broker list.
type EventsConfig struct {
	Provider string `toml:"provider,omitempty"`
	Brokers  string `toml:"brokers,omitempty"`
	Topic    string `toml:"topic,omitempty"`
}

// PipelineConfig holds post-call worker pool settings.
type PipelineConfig struct {
	Workers   uint `toml:"workers,omitempty"`
	QueueSize uint `toml:"queue_size,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"server.listen": {
		get: func(c *Config) string { return c.Server.Listen },
		set: func(c *Config, v string) error { c.Server.Listen = v; return nil },
	},
	"memory.base_url": {
		get: func(c *Config) string { return c.Memory.BaseURL },
		set: func(c *Config, v string) error { c.Memory.BaseURL = v; return nil },
	},
	"memory.api_key": {
		get: func(c *Config) string { return c.Memory.APIKey },
		set: func(c *Config, v string) error { c.Memory.APIKey = v; return nil },
	},
	"memory.timeout_ms": {
		get: func(c *Config) string {
			if c.Memory.TimeoutMS == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Memory.TimeoutMS), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for memory.timeout_ms: %w", err)
			}
			c.Memory.TimeoutMS = uint(n)
			return nil
		},
	},
	"memory.fetch_limit": {
		get: func(c *Config) string {
			if c.Memory.FetchLimit == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Memory.FetchLimit), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for memory.fetch_limit: %w", err)
			}
			c.Memory.FetchLimit = uint(n)
			return nil
		},
	},
	"metadata.provider": {
		get: func(c *Config) string { return c.Metadata.Provider },
		set: func(c *Config, v string) error { c.Metadata.Provider = v; return nil },
	},
	"metadata.target": {
		get: func(c *Config) string { return c.Metadata.Target },
		set: func(c *Config, v string) error { c.Metadata.Target = v; return nil },
	},
	"events.provider": {
		get: func(c *Config) string { return c.Events.Provider },
		set: func(c *Config, v string) error { c.Events.Provider = v; return nil },
	},
	"events.brokers": {
		get: func(c *Config) string { return c.Events.Brokers },
		set: func(c *Config, v string) error { c.Events.Brokers = v; return nil },
	},
	"events.topic": {
		get: func(c *Config) string { return c.Events.Topic },
		set: func(c *Config, v string) error { c.Events.Topic = v; return nil },
	},
	"pipeline.workers": {
		get: func(c *Config) string {
			if c.Pipeline.Workers == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Pipeline.Workers), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for pipeline.workers: %w", err)
			}
			c.Pipeline.Workers = uint(n)
			return nil
		},
	},
	"pipeline.queue_size": {
		get: func(c *Config) string {
			if c.Pipeline.QueueSize == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Pipeline.QueueSize), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for pipeline.queue_size: %w", err)
			}
			c.Pipeline.QueueSize = uint(n)
			return nil
		},
	},
}
