package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/intake/internal/intake"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Palette. Only the colors other packages theme with are exported.
var (
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")

	colorDone    = lipgloss.Color("#8ec07c")
	colorWarn    = lipgloss.Color("#fabd2f")
	colorFail    = lipgloss.Color("#fb4934")
	colorLink    = lipgloss.Color("#83a598")
	colorSpeaker = lipgloss.Color("#d3869b")
)

var (
	StyleDim     = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg      = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader  = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleError   = lipgloss.NewStyle().Foreground(colorFail).Bold(true)
	StyleSpeaker = lipgloss.NewStyle().Foreground(colorSpeaker)

	styleDone = lipgloss.NewStyle().Foreground(colorDone)
	styleWarn = lipgloss.NewStyle().Foreground(colorWarn)
	styleLink = lipgloss.NewStyle().Foreground(colorLink).Underline(true)
	styleBold = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// ReplyStyle picks the color an assistant reply is rendered in.
func ReplyStyle(kind intake.ReplyKind) lipgloss.Style {
	switch kind {
	case intake.KindCompleted:
		return styleDone
	case intake.KindCancelled, intake.KindNotUnderstood, intake.KindNothingToUndo:
		return styleWarn
	case intake.KindPaymentRedirect:
		return styleLink
	case intake.KindIrrelevant:
		return StyleDim
	default:
		return StyleFg
	}
}

// Header renders an upper-cased section title over a dim rule.
func Header(text string) string {
	upper := Upper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Upper applies Turkish casing rules, so "ı" and "i" map to "I" and "İ".
func Upper(text string) string {
	return cases.Upper(language.Turkish).String(text)
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return styleBold.Render(text)
}
