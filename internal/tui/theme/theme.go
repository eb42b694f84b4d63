package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/postshelf/internal/collection"
)

type Theme struct {
	Title      lipgloss.Style
	TabActive  lipgloss.Style
	TabIdle    lipgloss.Style
	TagActive  lipgloss.Style
	TagIdle    lipgloss.Style
	Stats      lipgloss.Style
	ActiveLine lipgloss.Style
	MetaLabel  lipgloss.Style
	MetaValue  lipgloss.Style
	StateIdle  lipgloss.Style
	StateWarn  lipgloss.Style
	StateLoad  lipgloss.Style

	PostTitle   lipgloss.Style
	Summary     lipgloss.Style
	Tags        lipgloss.Style
	Toggle      lipgloss.Style
	ToggleOpen  lipgloss.Style
	Placeholder lipgloss.Style
}

func Default() Theme {
	cpMauve := lipgloss.Color("#cba6f7")
	cpRed := lipgloss.Color("#f38ba8")
	cpPeach := lipgloss.Color("#fab387")
	cpYellow := lipgloss.Color("#f9e2af")
	cpGreen := lipgloss.Color("#a6e3a1")
	cpTeal := lipgloss.Color("#94e2d5")
	cpSky := lipgloss.Color("#89dceb")
	cpLavender := lipgloss.Color("#b4befe")
	cpText := lipgloss.Color("#cdd6f4")
	cpSubtext0 := lipgloss.Color("#a6adc8")
	cpSubtext1 := lipgloss.Color("#bac2de")
	cpOverlay1 := lipgloss.Color("#7f849c")
	cpSurface0 := lipgloss.Color("#313244")

	return Theme{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(cpMauve),
		TabActive:  lipgloss.NewStyle().Bold(true).Foreground(cpLavender).Background(cpSurface0).Padding(0, 1),
		TabIdle:    lipgloss.NewStyle().Foreground(cpOverlay1).Padding(0, 1),
		TagActive:  lipgloss.NewStyle().Bold(true).Foreground(cpYellow),
		TagIdle:    lipgloss.NewStyle().Foreground(cpSubtext0),
		Stats:      lipgloss.NewStyle().Foreground(cpTeal),
		ActiveLine: lipgloss.NewStyle().Background(cpSurface0).Foreground(cpText),
		MetaLabel:  lipgloss.NewStyle().Foreground(cpOverlay1),
		MetaValue:  lipgloss.NewStyle().Foreground(cpSubtext1),
		StateIdle:  lipgloss.NewStyle().Foreground(cpGreen),
		StateWarn:  lipgloss.NewStyle().Foreground(cpRed),
		StateLoad:  lipgloss.NewStyle().Foreground(cpPeach),

		PostTitle:   lipgloss.NewStyle().Bold(true).Foreground(cpText),
		Summary:     lipgloss.NewStyle().Foreground(cpSubtext1),
		Tags:        lipgloss.NewStyle().Foreground(cpSky),
		Toggle:      lipgloss.NewStyle().Foreground(cpOverlay1),
		ToggleOpen:  lipgloss.NewStyle().Bold(true).Foreground(cpMauve),
		Placeholder: lipgloss.NewStyle().Italic(true).Foreground(cpSubtext0),
	}
}

// StyleToggle renders a read-more control, highlighted while its post is
// expanded.
func (t Theme) StyleToggle(toggle collection.Toggle) string {
	label := "[" + toggle.Label + "]"
	if toggle.Active {
		return t.ToggleOpen.Render(label)
	}
	return t.Toggle.Render(label)
}

func (t Theme) StyleTag(tag string, selected bool) string {
	if selected {
		return t.TagActive.Render("[" + tag + "]")
	}
	return t.TagIdle.Render(tag)
}

func (t Theme) RenderActiveLine(active bool, line string) string {
	if !active {
		return line
	}
	return t.ActiveLine.Render(line)
}
