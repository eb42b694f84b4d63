package tui

import "github.com/glabrego/postshelf/internal/blog"

type screenMode int

const (
	screenIdle screenMode = iota
	screenLoading
	screenError
	screenPosts
	screenEmpty
)

// screen is the collection.Presenter the model renders from. The controller
// writes into it synchronously from Update.
type screen struct {
	mode       screenMode
	posts      []blog.Post
	err        error
	visible    int
	total      int
	statsShown bool
}

func (s *screen) ShowLoading() {
	s.mode = screenLoading
	s.err = nil
	s.statsShown = false
}

func (s *screen) ShowError(err error) {
	s.mode = screenError
	s.err = err
	s.posts = nil
	s.statsShown = false
}

func (s *screen) ShowPosts(posts []blog.Post) {
	s.mode = screenPosts
	s.posts = posts
}

func (s *screen) ShowEmpty() {
	s.mode = screenEmpty
	s.posts = nil
}

func (s *screen) ShowStats(visible, total int) {
	s.visible = visible
	s.total = total
	s.statsShown = true
}
