// Package config loads and validates the proxy's TOML configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultConnectTimeout is used when target_connection.connect_timeout is
// omitted from the config file.
const DefaultConnectTimeout = 10 * time.Second

// HTTPConfig enables the HTTP forward-proxy listener.
type HTTPConfig struct {
	ListenPort uint16 `toml:"listen_port"`
}

// HTTPSConfig enables the TLS/SNI-sniffing listener.
type HTTPSConfig struct {
	ListenPort uint16 `toml:"listen_port"`
}

// TCPConfig describes one statically-mapped TCP relay listener.
type TCPConfig struct {
	ListenPort uint16 `toml:"listen_port"`
	RemoteAddr string `toml:"remote_addr"`
}

// TargetConnectionConfig governs outbound connection behaviour: DNS
// caching and the dial timeout.
type TargetConnectionConfig struct {
	// DNSCacheTTL is nil when the key is absent: positive DNS answers are
	// then never cached, per spec.md §3 ("omit to never cache positively").
	DNSCacheTTL    *Duration `toml:"dns_cache_ttl"`
	ConnectTimeout Duration  `toml:"connect_timeout"`
}

// Config is the immutable, process-wide configuration loaded once at
// startup from the TOML file named on the command line.
type Config struct {
	HTTP             *HTTPConfig            `toml:"http"`
	HTTPS            *HTTPSConfig           `toml:"https"`
	TCP              []TCPConfig            `toml:"tcp"`
	TargetConnection TargetConnectionConfig `toml:"target_connection"`

	// Env carries the ambient environment toggles described in
	// spec.md §6; it is not part of the TOML document.
	Env *EnvConfig `toml:"-"`
}

// Load reads and parses the TOML file at path. Per spec.md §6, a missing
// --config flag is a fatal error handled by the caller before Load is
// ever invoked; Load itself fails only on a missing/unreadable file or a
// malformed document.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config file not found")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}

	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if !meta.IsDefined("target_connection", "connect_timeout") {
		cfg.TargetConnection.ConnectTimeout = Duration(DefaultConnectTimeout)
	}

	cfg.Env = LoadEnv()

	return &cfg, nil
}

// Validate checks structural invariants Load cannot express through TOML
// tags alone: at least one listener family must be configured, and every
// static TCP mapping must have a well-formed remote_addr.
func (c *Config) Validate() error {
	if c.HTTP == nil && c.HTTPS == nil && len(c.TCP) == 0 {
		return fmt.Errorf("no listeners configured: set [http], [https], or at least one [[tcp]]")
	}
	for i, t := range c.TCP {
		if t.ListenPort == 0 {
			return fmt.Errorf("tcp[%d]: listen_port is required", i)
		}
		if _, _, err := SplitHostPort(t.RemoteAddr); err != nil {
			return fmt.Errorf("tcp[%d]: %w", i, err)
		}
	}
	return nil
}
