package view

import (
	"errors"
	"strings"
	"testing"

	"github.com/glabrego/postshelf/internal/blog"
	"github.com/glabrego/postshelf/internal/collection"
	"github.com/glabrego/postshelf/internal/render/markup"
	tuilayout "github.com/glabrego/postshelf/internal/tui/layout"
	tuitheme "github.com/glabrego/postshelf/internal/tui/theme"
)

func TestRenderListBody_MarksCursorPost(t *testing.T) {
	rows := tuilayout.BuildRows([]blog.Post{
		{ID: "1", Title: "First", Date: "2024-02-01", Summary: "One"},
		{ID: "2", Title: "Second", Date: "2024-01-01", Summary: "Two"},
	}, tuilayout.BuildOptions{Width: 60})

	got := markup.StripANSI(RenderListBody(ListRenderInput{Rows: rows, Start: 0, End: len(rows), Cursor: 1, Width: 60}, tuitheme.Default()))
	if !strings.Contains(got, "  First · 2024-02-01") {
		t.Fatalf("expected first header without marker, got:\n%s", got)
	}
	if !strings.Contains(got, "> Second · 2024-01-01") {
		t.Fatalf("expected cursor marker on second header, got:\n%s", got)
	}
	if !strings.Contains(got, "  [Read more]") {
		t.Fatalf("expected toggle control, got:\n%s", got)
	}
}

func TestRenderListBody_Window(t *testing.T) {
	rows := tuilayout.BuildRows([]blog.Post{{ID: "1", Title: "Only"}}, tuilayout.BuildOptions{})
	if got := RenderListBody(ListRenderInput{Rows: rows, Start: 2, End: 2}, tuitheme.Default()); got != "" {
		t.Fatalf("expected empty body for empty window, got %q", got)
	}
	got := RenderListBody(ListRenderInput{Rows: rows, Start: 0, End: 1}, tuitheme.Default())
	if strings.Count(got, "\n") != 1 {
		t.Fatalf("expected a single rendered row, got %q", got)
	}
}

func TestRenderRow_TruncatesHeader(t *testing.T) {
	row := tuilayout.Row{Kind: tuilayout.RowHeader, Text: strings.Repeat("x", 50)}
	got := markup.StripANSI(RenderRow(row, false, 20, tuitheme.Default()))
	if len(got) != 20 || !strings.HasSuffix(got, "...") {
		t.Fatalf("unexpected truncated header %q", got)
	}
}

func TestRenderRow_Toggle(t *testing.T) {
	row := tuilayout.Row{
		Kind:   tuilayout.RowToggle,
		Text:   "  [Show less]",
		Toggle: collection.Toggle{Label: collection.ShowLessLabel, Active: true},
	}
	if got := markup.StripANSI(RenderRow(row, false, 40, tuitheme.Default())); got != "  [Show less]" {
		t.Fatalf("unexpected toggle row %q", got)
	}
}

func TestErrorText(t *testing.T) {
	got := ErrorText(errors.New("manifest down"))
	if got != "Error loading posts: manifest down. Press r to retry." {
		t.Fatalf("unexpected error text %q", got)
	}
}

func TestContentRenderer_CachesByContentAndWidth(t *testing.T) {
	r := NewContentRenderer("")
	post := blog.Post{ID: "1"}
	first := r.Lines(post, `<div class="post-content"><p>Hello there</p></div>`, 40)
	if len(first) != 1 || markup.StripANSI(first[0]) != "Hello there" {
		t.Fatalf("unexpected lines %+v", first)
	}
	again := r.Lines(post, `<div class="post-content"><p>Hello there</p></div>`, 40)
	if &again[0] != &first[0] {
		t.Fatal("expected cached lines to be reused")
	}
	narrow := r.Lines(post, `<div class="post-content"><p>Hello there</p></div>`, 5)
	if len(narrow) < 2 {
		t.Fatalf("expected re-render at narrower width, got %+v", narrow)
	}
	if got := r.Lines(blog.Post{ID: "2"}, "", 40); len(got) != 1 || got[0] != EmptyContentText {
		t.Fatalf("unexpected placeholder %+v", got)
	}
}
