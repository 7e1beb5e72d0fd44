package core

// Color represents a foreground color for a screen cell.
// The platform maps each value to an ANSI 256-color code.
type Color uint8

// Predefined colors.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray

	// Landscape shades.
	ColorSoil
	ColorGrass
	ColorSkyHigh
	ColorSkyMid
	ColorSkyLow
)

// TeamColors gives each team index a distinct color, cycling past the end.
var TeamColors = []Color{
	ColorBrightRed,
	ColorBrightBlue,
	ColorBrightGreen,
	ColorBrightYellow,
	ColorBrightMagenta,
	ColorBrightCyan,
}

// TeamColor returns the color of team i.
func TeamColor(i int) Color {
	if i < 0 {
		return ColorGray
	}
	return TeamColors[i%len(TeamColors)]
}
