// Package theme provides named color/style palettes and a stable
// username-to-color hash, rendered with lipgloss (spec.md §3 "Theme",
// grounded on vision3's charmbracelet/lipgloss dependency chain).
package theme

import (
	"hash/fnv"
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a palette keyed by theme name.
type Theme struct {
	Name      string
	System    lipgloss.Style
	Error     lipgloss.Style
	Announce  lipgloss.Style
	Highlight lipgloss.Style
	Self      lipgloss.Style
}

var themes = map[string]Theme{
	"default": {
		Name:      "default",
		System:    lipgloss.NewStyle().Faint(true),
		Error:     lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("1")),
		Announce:  lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("3")),
		Highlight: lipgloss.NewStyle().Reverse(true),
		Self:      lipgloss.NewStyle().Bold(true),
	},
	"mono": {
		Name:      "mono",
		System:    lipgloss.NewStyle().Faint(true),
		Error:     lipgloss.NewStyle().Faint(true),
		Announce:  lipgloss.NewStyle().Faint(true),
		Highlight: lipgloss.NewStyle().Reverse(true),
		Self:      lipgloss.NewStyle().Underline(true),
	},
	"solarized": {
		Name:      "solarized",
		System:    lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("245")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
		Announce:  lipgloss.NewStyle().Foreground(lipgloss.Color("136")),
		Highlight: lipgloss.NewStyle().Reverse(true),
		Self:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")),
	},
}

// DefaultName is the theme new users start with.
const DefaultName = "default"

// Get returns the named theme, or the default if unknown.
func Get(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes[DefaultName]
}

// Exists reports whether name is a known theme.
func Exists(name string) bool {
	_, ok := themes[name]
	return ok
}

// Names returns all theme names for the /themes command, in a stable order.
func Names() []string {
	return []string{"default", "mono", "solarized"}
}

// UsernameColor derives a stable, readable xterm-256 palette color for a username by
// hashing it into the 256-color palette's higher (more saturated) range.
func UsernameColor(username string) lipgloss.Color {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))
	sum := h.Sum32()
	// Range 17..231 of the xterm 256-color cube avoids the low ANSI colors
	// (too dim/used for system text) and the greyscale ramp (232-255).
	idx := 17 + sum%(231-17)
	return lipgloss.Color(strconv.Itoa(int(idx)))
}

// StyleUsername renders username in its stable hashed color.
func StyleUsername(username string) string {
	return lipgloss.NewStyle().Foreground(UsernameColor(username)).Render(username)
}
