package style

import "github.com/aurora-stream/aurora/color"

// Semantic colors of the player screen.
var (
	AccentColor    = color.Glow
	SecondaryColor = color.Violet
	TextColor      = color.Frost
	FaintColor     = color.Haze
	ErrorColor     = color.Ember
	BadgeColor     = color.Magenta
	BarStartColor  = string(color.Violet)
	BarEndColor    = string(color.Glow)
)
