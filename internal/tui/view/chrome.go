package view

import (
	"fmt"
	"strings"

	tuitheme "github.com/glabrego/postshelf/internal/tui/theme"
)

func Toolbar(onPosts, searching bool) string {
	if searching {
		return "type to search | enter/esc: done | ctrl+c: quit"
	}
	if onPosts {
		return "j/k move | enter/space read more | / search | [ ] tag | a all tags | o open | y copy URL | r reload | tab home | q quit"
	}
	return "tab/enter: browse posts | q: quit"
}

func TabBar(tabs []string, active int, th tuitheme.Theme) string {
	parts := make([]string, 0, len(tabs))
	for i, tab := range tabs {
		if i == active {
			parts = append(parts, th.TabActive.Render(tab))
			continue
		}
		parts = append(parts, th.TabIdle.Render(tab))
	}
	return strings.Join(parts, " ")
}

func TagBar(tags []string, current string, th tuitheme.Theme) string {
	if len(tags) == 0 {
		return ""
	}
	parts := make([]string, 0, len(tags))
	for _, tag := range tags {
		parts = append(parts, th.StyleTag(tag, tag == current))
	}
	return th.MetaLabel.Render("tags") + " " + strings.Join(parts, " ")
}

func StatsLine(visible, total int, th tuitheme.Theme) string {
	return th.Stats.Render(fmt.Sprintf("Showing %d of %d posts", visible, total))
}

func SearchLine(input string, th tuitheme.Theme) string {
	return th.MetaLabel.Render("search") + " " + input
}

func MessageLine(loading bool, status string, err error, th tuitheme.Theme) string {
	state := th.StateIdle.Render("idle")
	switch {
	case err != nil:
		state = th.StateWarn.Render("warning")
	case loading:
		state = th.StateLoad.Render("loading")
	}
	main := "Ready"
	switch {
	case status != "":
		main = status
	case err != nil:
		main = err.Error()
	}
	return fmt.Sprintf("%s | %s", state, th.MetaValue.Render(main))
}
