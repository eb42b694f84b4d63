package view

import (
	"strings"
	"unicode/utf8"

	tuilayout "github.com/glabrego/postshelf/internal/tui/layout"
	tuitheme "github.com/glabrego/postshelf/internal/tui/theme"
)

const (
	LoadingText   = "Loading posts..."
	NoResultsText = "No posts match your filters."
)

func ErrorText(err error) string {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return "Error loading posts: " + msg + ". Press r to retry."
}

type ListRenderInput struct {
	Rows   []tuilayout.Row
	Start  int
	End    int
	Cursor int
	Width  int
}

// RenderListBody renders rows Start..End. The header of the post under the
// cursor carries the cursor marker.
func RenderListBody(in ListRenderInput, th tuitheme.Theme) string {
	if len(in.Rows) == 0 || in.Start >= in.End || in.Start < 0 {
		return ""
	}
	end := min(in.End, len(in.Rows))
	var b strings.Builder
	for i := in.Start; i < end; i++ {
		b.WriteString(RenderRow(in.Rows[i], in.Rows[i].PostIndex == in.Cursor, in.Width, th))
		b.WriteString("\n")
	}
	return b.String()
}

func RenderRow(row tuilayout.Row, active bool, width int, th tuitheme.Theme) string {
	switch row.Kind {
	case tuilayout.RowHeader:
		marker := "  "
		if active {
			marker = "> "
		}
		label := row.Text
		if width > 0 {
			label = truncateRunes(label, width-len(marker))
		}
		return th.RenderActiveLine(active, marker+th.PostTitle.Render(label))
	case tuilayout.RowSummary:
		return th.Summary.Render(row.Text)
	case tuilayout.RowTags:
		return th.Tags.Render(row.Text)
	case tuilayout.RowToggle:
		return strings.TrimSuffix(row.Text, "["+row.Toggle.Label+"]") + th.StyleToggle(row.Toggle)
	case tuilayout.RowContent:
		return row.Text
	default:
		return ""
	}
}

func truncateRunes(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return strings.Repeat(".", maxLen)
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}
