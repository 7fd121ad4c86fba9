package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/unowned-ai/rpager/pkg/appstate"
	"github.com/unowned-ai/rpager/pkg/insights"
)

// UI styles and layout settings
// Color palette "Blue Moon" from https://gogh-co.github.io/Gogh/
const (
	colorGray     = "#353b52"
	colorWhite    = "#ffffff"
	colorGreen    = "#acfab4"
	colorGreenDim = "#b4c4b4"
	colorRed      = "#e61f44"
	colorRedDim   = "#d06178"
	colorPurple   = "#b9a3eb"
	colorBlue     = "#89ddff"
	colorYellow   = "#ffd866"
	colorOrange   = "#ff9e64"

	marqueeTickDuration = time.Duration(time.Second / 20)
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(colorBlue)).
			Background(lipgloss.Color(colorGray)).
			Padding(0, 2).Align(lipgloss.Center)
	subtitleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(colorBlue))
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray)).
			Background(lipgloss.Color(colorGreen))
	dangerSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(colorGray)).
				Background(lipgloss.Color(colorRed))
	inactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorWhite))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorBlue))
	accentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colorPurple))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorRed))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray))
)

// Status colors: 0 (default) - unknown, 1 - green, 2 - red
func TextStatusColorize(text string, status int) string {
	switch status {
	case 1:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreenDim)).Render(text)
	case 2:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorRedDim)).Render(text)
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray)).Render(text)
	}
}

func stressStyle(l insights.StressLevel) lipgloss.Style {
	switch l {
	case insights.StressHigh:
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorRed))
	case insights.StressMedium:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorOrange))
	case insights.StressLow:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorYellow))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreen))
	}
}

func codeStyle(c appstate.CodeStatus) lipgloss.Style {
	colors := map[appstate.CodeStatus]string{
		appstate.CodeBlue:   "#5b8def",
		appstate.CodeRed:    colorRed,
		appstate.CodeBlack:  colorGray,
		appstate.CodeWhite:  colorWhite,
		appstate.CodeOrange: colorOrange,
		appstate.CodeYellow: colorYellow,
		appstate.CodeGreen:  colorGreen,
		appstate.CodeGold:   "#e6c35c",
		appstate.CodeViolet: colorPurple,
	}
	color, ok := colors[c]
	if !ok {
		color = colorGray
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color))
}

// Create a padded version marquee text for scrolling
func marqueeText(text string, offset, availableWidth int) string {
	if len(text) <= availableWidth {
		return text
	}
	paddedText := text + "    " + text
	offset %= len(text) + 4
	if offset+availableWidth <= len(paddedText) {
		text = paddedText[offset : offset+availableWidth]
	}
	return text
}

// truncate shortens text to width with a trailing "..".
func truncate(text string, width int) string {
	if len(text) > width && width > 3 {
		return text[:width-2] + ".."
	}
	return text
}

// progressBar renders a percentage as a fixed-width bar.
func progressBar(percent, width int) string {
	percent = min(max(percent, 0), 100)
	filled := percent * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
