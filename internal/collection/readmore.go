package collection

import "github.com/glabrego/postshelf/internal/blog"

type ToggleState int

const (
	Collapsed ToggleState = iota
	Expanded
)

const (
	ReadMoreLabel = "Read more"
	ShowLessLabel = "Show less"
)

func (s ToggleState) String() string {
	if s == Expanded {
		return "expanded"
	}
	return "collapsed"
}

// Toggle is the render state of one post's read-more control after an
// activation.
type Toggle struct {
	ID      blog.PostID
	State   ToggleState
	Label   string
	Active  bool
	Scroll  bool
	Content string
}

type toggleEntry struct {
	state   ToggleState
	content string
}

// ReadMore tracks the read-more toggle of every post. The content region of a
// post is populated on its first expansion and reused afterwards.
type ReadMore struct {
	populate func(blog.Post) string
	entries  map[blog.PostID]*toggleEntry
}

// NewReadMore returns toggles whose content region is filled by populate.
// A nil populate uses the post's raw full content.
func NewReadMore(populate func(blog.Post) string) *ReadMore {
	if populate == nil {
		populate = func(post blog.Post) string { return post.FullContent }
	}
	return &ReadMore{
		populate: populate,
		entries:  make(map[blog.PostID]*toggleEntry),
	}
}

// Activate flips the toggle of post and returns its new render state.
func (r *ReadMore) Activate(post blog.Post) Toggle {
	entry := r.entry(post.ID)
	if entry.state == Expanded {
		entry.state = Collapsed
		return Toggle{ID: post.ID, State: Collapsed, Label: ReadMoreLabel, Content: entry.content}
	}
	if entry.content == "" {
		entry.content = r.populate(post)
	}
	entry.state = Expanded
	return Toggle{
		ID:      post.ID,
		State:   Expanded,
		Label:   ShowLessLabel,
		Active:  true,
		Scroll:  true,
		Content: entry.content,
	}
}

// Current returns the render state of post without changing it.
func (r *ReadMore) Current(id blog.PostID) Toggle {
	entry, ok := r.entries[id]
	if !ok || entry.state == Collapsed {
		t := Toggle{ID: id, State: Collapsed, Label: ReadMoreLabel}
		if ok {
			t.Content = entry.content
		}
		return t
	}
	return Toggle{ID: id, State: Expanded, Label: ShowLessLabel, Active: true, Content: entry.content}
}

func (r *ReadMore) entry(id blog.PostID) *toggleEntry {
	entry, ok := r.entries[id]
	if !ok {
		entry = &toggleEntry{}
		r.entries[id] = entry
	}
	return entry
}
