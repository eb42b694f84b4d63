package view

import (
	"github.com/glabrego/postshelf/internal/blog"
	"github.com/glabrego/postshelf/internal/render/markup"
)

const EmptyContentText = "(this post has no content)"

type renderedContent struct {
	content string
	width   int
	lines   []string
}

// ContentRenderer turns the populated content region of an expanded post into
// terminal lines, reusing the previous render while content and width hold.
type ContentRenderer struct {
	region string
	cache  map[blog.PostID]renderedContent
}

func NewContentRenderer(region string) *ContentRenderer {
	if region == "" {
		region = markup.DefaultRegion
	}
	return &ContentRenderer{region: region, cache: make(map[blog.PostID]renderedContent)}
}

func (r *ContentRenderer) Lines(post blog.Post, content string, width int) []string {
	if cached, ok := r.cache[post.ID]; ok && cached.content == content && cached.width == width {
		return cached.lines
	}
	lines := markup.Lines(content, r.region, width)
	if len(lines) == 0 {
		lines = []string{EmptyContentText}
	}
	r.cache[post.ID] = renderedContent{content: content, width: width, lines: lines}
	return lines
}
