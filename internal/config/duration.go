package config

import "time"

// Duration wraps time.Duration so it can be decoded from TOML's plain
// string values ("500ms", "10s", "1m") via encoding.TextUnmarshaler.
// BurntSushi/toml has no native duration type and nothing in the pack
// ships a duration-aware TOML extension, so this one conversion shim is
// the stdlib-only exception documented in DESIGN.md.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the wrapped time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
