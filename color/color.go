// Package color holds the terminal palette.
package color

import "github.com/charmbracelet/lipgloss"

// New returns a lipgloss.Color for an ANSI index or hex value.
func New(value string) lipgloss.Color {
	return lipgloss.Color(value)
}

var (
	Red    = New("1")
	Green  = New("2")
	Yellow = New("3")
	Blue   = New("4")
	Purple = New("5")
	Cyan   = New("6")
	White  = New("7")
	Black  = New("8")
)

var (
	HiRed    = New("9")
	HiGreen  = New("10")
	HiPurple = New("13")
	HiYellow = New("11")
	HiBlue   = New("12")
	HiCyan   = New("14")
)

// Orange marks ratings.
var Orange = New("#ffb703")
