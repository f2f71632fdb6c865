package core

// Color is the foreground color of a screen cell.
// Values map onto ANSI 256-color codes in the platform layer.
type Color uint8

// Colors available to activities when drawing.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightWhite
	ColorOrange
	ColorGray
)
