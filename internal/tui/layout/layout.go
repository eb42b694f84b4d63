package layout

import (
	"strings"

	"github.com/glabrego/postshelf/internal/blog"
	"github.com/glabrego/postshelf/internal/collection"
	"github.com/glabrego/postshelf/internal/render/markup"
)

type RowKind string

const (
	RowHeader  RowKind = "header"
	RowSummary RowKind = "summary"
	RowTags    RowKind = "tags"
	RowToggle  RowKind = "toggle"
	RowContent RowKind = "content"
	RowGap     RowKind = "gap"
)

// DefaultPreview stands in for a summary that came back empty.
const DefaultPreview = "Read more..."

const (
	defaultWidth = 80
	indent       = "  "
)

type Row struct {
	Kind      RowKind
	PostIndex int
	Text      string
	Toggle    collection.Toggle
}

type BuildOptions struct {
	Width int
	// Toggle reports the read-more state of a post. Nil renders every post
	// collapsed.
	Toggle func(blog.PostID) collection.Toggle
	// ContentLines renders the populated content region of an expanded post.
	ContentLines func(post blog.Post, content string, width int) []string
}

// BuildRows lays posts out as display rows, in the order given.
func BuildRows(posts []blog.Post, opts BuildOptions) []Row {
	width := opts.Width
	if width <= 0 {
		width = defaultWidth
	}
	bodyWidth := max(1, width-len(indent))

	rows := make([]Row, 0, len(posts)*6)
	for i, post := range posts {
		rows = append(rows, Row{Kind: RowHeader, PostIndex: i, Text: Header(post)})

		summary := strings.TrimSpace(post.Summary)
		if summary == "" {
			summary = DefaultPreview
		}
		for _, line := range markup.Wrap(summary, bodyWidth) {
			rows = append(rows, Row{Kind: RowSummary, PostIndex: i, Text: indent + line})
		}

		if tags := TagLine(post.Tags); tags != "" {
			rows = append(rows, Row{Kind: RowTags, PostIndex: i, Text: indent + tags})
		}

		toggle := collection.Toggle{ID: post.ID, State: collection.Collapsed, Label: collection.ReadMoreLabel}
		if opts.Toggle != nil {
			toggle = opts.Toggle(post.ID)
		}
		rows = append(rows, Row{Kind: RowToggle, PostIndex: i, Text: indent + "[" + toggle.Label + "]", Toggle: toggle})

		if toggle.State == collection.Expanded && opts.ContentLines != nil {
			for _, line := range opts.ContentLines(post, toggle.Content, bodyWidth) {
				rows = append(rows, Row{Kind: RowContent, PostIndex: i, Text: indent + line})
			}
		}

		rows = append(rows, Row{Kind: RowGap, PostIndex: i})
	}
	return rows
}

// Header is the one-line title, date and read time of a post.
func Header(post blog.Post) string {
	parts := []string{strings.TrimSpace(post.Title)}
	if parts[0] == "" {
		parts[0] = "(untitled)"
	}
	if date := strings.TrimSpace(post.Date); date != "" {
		parts = append(parts, date)
	}
	if readTime := strings.TrimSpace(post.ReadTime); readTime != "" {
		parts = append(parts, readTime)
	}
	return strings.Join(parts, " · ")
}

func TagLine(tags []string) string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, "#"+tag)
		}
	}
	return strings.Join(out, " ")
}

// PostSpan returns the first and last row of post postIndex, or -1, -1.
func PostSpan(rows []Row, postIndex int) (int, int) {
	first, last := -1, -1
	for i, row := range rows {
		if row.PostIndex != postIndex {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}
	return first, last
}

// ContentSpan returns the rows of the expanded content region of post
// postIndex.
func ContentSpan(rows []Row, postIndex int) (int, int, bool) {
	first, last := -1, -1
	for i, row := range rows {
		if row.PostIndex != postIndex || row.Kind != RowContent {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}
	return first, last, first >= 0
}
