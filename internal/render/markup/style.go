package markup

import "github.com/charmbracelet/lipgloss"

var (
	cpMauve    = lipgloss.Color("#cba6f7")
	cpPeach    = lipgloss.Color("#fab387")
	cpYellow   = lipgloss.Color("#f9e2af")
	cpBlue     = lipgloss.Color("#89b4fa")
	cpLavender = lipgloss.Color("#b4befe")
	cpText     = lipgloss.Color("#cdd6f4")
	cpSubtext0 = lipgloss.Color("#a6adc8")
	cpOverlay0 = lipgloss.Color("#6c7086")
	cpOverlay1 = lipgloss.Color("#7f849c")

	headingStyle  = lipgloss.NewStyle().Bold(true).Foreground(cpLavender)
	quoteBar      = lipgloss.NewStyle().Foreground(cpOverlay1).Render("│ ")
	quoteText     = lipgloss.NewStyle().Italic(true).Foreground(cpSubtext0)
	captionStyle  = lipgloss.NewStyle().Italic(true).Foreground(cpOverlay0)
	codeStyle     = lipgloss.NewStyle().Foreground(cpPeach)
	linkStyle     = lipgloss.NewStyle().Foreground(cpBlue).Faint(true)
	imageLabel    = lipgloss.NewStyle().Foreground(cpMauve).Italic(true)
	ruleStyle     = lipgloss.NewStyle().Foreground(cpOverlay0)
	tableHeader   = lipgloss.NewStyle().Bold(true).Foreground(cpYellow)
	strongStyle   = lipgloss.NewStyle().Bold(true).Foreground(cpText)
	emphasisStyle = lipgloss.NewStyle().Italic(true)
)
