package ui

import (
	"math/rand"
	"strings"
	"time"
)

// Default tagline fallback
const defaultTagline = "Blind relay, wide open tunnels"

// Tagline pool with personality
var taglines = []string{
	"Blind relay, wide open tunnels",
	"Terminates nothing, forwards everything",
	"CONNECT, SNI, or plain TCP — your call",
	"Peeks the handshake, never the payload",
	"One hop closer to the real origin",
	"Transparent by design",
	"Bytes in, bytes out, no opinions",
	"The shortest path is a relayed one",
}

// Holiday-specific taglines
var holidayTaglines = map[string][]taglineRule{
	"christmas": {
		{month: 12, day: 25, tagline: "🎄 Relaying holiday traffic, untouched"},
		{month: 12, day: 24, tagline: "🎄 Santa's tunnels are TLS-terminated elsewhere"},
	},
	"halloween": {
		{month: 10, day: 31, tagline: "🎃 Spooky-quiet bidirectional copies"},
		{month: 10, day: 30, tagline: "🎃 Packets that go bump in the night"},
	},
	"newyear": {
		{month: 1, day: 1, tagline: "🎉 Happy New Year! Fresh connections await"},
	},
}

type taglineRule struct {
	month   int
	day     int
	tagline string
}

// PickTagline returns a random tagline, considering holidays
func PickTagline() string {
	now := time.Now()
	month := int(now.Month())
	day := now.Day()

	// Check for holiday-specific taglines
	for _, rules := range holidayTaglines {
		for _, rule := range rules {
			if rule.month == month && rule.day == day {
				return rule.tagline
			}
		}
	}

	// Random selection from pool
	if len(taglines) == 0 {
		return defaultTagline
	}

	// Use current time for seed variation
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	return taglines[r.Intn(len(taglines))]
}

// GetAllTaglines returns all available taglines (for testing/display)
func GetAllTaglines() []string {
	return append([]string{}, taglines...)
}

// FormatTagline wraps a tagline with optional styling
func FormatTagline(tagline string) string {
	if !IsRich() {
		return tagline
	}
	// Highlight emojis differently
	if strings.HasPrefix(tagline, "🎄") ||
		strings.HasPrefix(tagline, "🎃") ||
		strings.HasPrefix(tagline, "🎉") {
		return tagline // Keep emojis as-is
	}
	return AccentDim(tagline)
}
