// Package icon provides a multi-variant rendering engine for UI symbols and feedback indicators.
//
// Icons can be displayed as emoji, nerd-font glyphs, plain ASCII, kaomoji,
// or Unicode squares depending on user preference.
package icon

import (
	"github.com/aurora-stream/aurora/key"
	"github.com/spf13/viper"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants returns a slice of all registered icon style identifiers.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

// Icon identifies a UI symbol.
type Icon int

const (
	Success Icon = iota
	Fail
	Progress
	Play
	Pause
	Muted
	Volume
	Fullscreen
)

type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

var icons = map[Icon]*iconDef{
	Success:    {emoji: "🎉", nerd: "\uf00c", plain: "✓", kaomoji: "(ᵔ◡ᵔ)", squares: "🟩"},
	Fail:       {emoji: "💀", nerd: "\uf00d", plain: "✗", kaomoji: "(╥﹏╥)", squares: "🟥"},
	Progress:   {emoji: "⏳", nerd: "\uf252", plain: "…", kaomoji: "(・_・)", squares: "🟦"},
	Play:       {emoji: "▶️", nerd: "\uf04b", plain: ">", kaomoji: "(>‿◠)", squares: "▶"},
	Pause:      {emoji: "⏸️", nerd: "\uf04c", plain: "||", kaomoji: "(-_-)", squares: "⏸"},
	Muted:      {emoji: "🔇", nerd: "\uf6a9", plain: "x", kaomoji: "(-.-)", squares: "▫"},
	Volume:     {emoji: "🔊", nerd: "\uf028", plain: "vol", kaomoji: "(o.o)", squares: "▪"},
	Fullscreen: {emoji: "⛶", nerd: "\uf065", plain: "[ ]", kaomoji: "(⌐■_■)", squares: "⬛"},
}

// Get retrieves the representation for the configured icons variant.
func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case kaomoji:
		return d.kaomoji
	case squares:
		return d.squares
	default:
		return ""
	}
}

// Get returns the rendered string for a specified Icon identifier from the global registry.
func Get(i Icon) string {
	def, ok := icons[i]
	if !ok {
		return ""
	}
	return def.Get()
}
