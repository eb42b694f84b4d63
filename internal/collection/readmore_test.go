package collection

import (
	"testing"

	"github.com/glabrego/postshelf/internal/blog"
)

func TestReadMore_PopulatesOnce(t *testing.T) {
	calls := 0
	toggles := NewReadMore(func(post blog.Post) string {
		calls++
		return "<rendered>" + post.FullContent
	})
	post := blog.Post{ID: "1", FullContent: "<p>Body</p>"}

	first := toggles.Activate(post)
	if first.State != Expanded || first.Label != ShowLessLabel || !first.Active || !first.Scroll {
		t.Fatalf("unexpected expanded toggle: %+v", first)
	}

	collapsed := toggles.Activate(post)
	if collapsed.State != Collapsed || collapsed.Label != ReadMoreLabel || collapsed.Active || collapsed.Scroll {
		t.Fatalf("unexpected collapsed toggle: %+v", collapsed)
	}
	if collapsed.Content != first.Content {
		t.Fatalf("collapse changed the populated region: %q", collapsed.Content)
	}

	post.FullContent = "<p>Changed</p>"
	again := toggles.Activate(post)
	if again.Content != first.Content {
		t.Fatalf("re-expansion re-populated the region: %q", again.Content)
	}
	if calls != 1 {
		t.Fatalf("expected one population, got %d", calls)
	}
}

func TestReadMore_EmptyRegionIsRetried(t *testing.T) {
	calls := 0
	toggles := NewReadMore(func(blog.Post) string {
		calls++
		return ""
	})
	post := blog.Post{ID: "1"}
	toggles.Activate(post)
	toggles.Activate(post)
	toggles.Activate(post)
	if calls != 2 {
		t.Fatalf("expected population on each expansion of an empty region, got %d", calls)
	}
}

func TestReadMore_StatePerPost(t *testing.T) {
	toggles := NewReadMore(nil)
	a := blog.Post{ID: "a", FullContent: "A"}
	b := blog.Post{ID: "b", FullContent: "B"}

	if got := toggles.Activate(a); got.Content != "A" {
		t.Fatalf("expected raw content by default, got %q", got.Content)
	}
	if toggles.Current("a").State != Expanded || toggles.Current("b").State != Collapsed {
		t.Fatal("toggles must not share state")
	}
	if got := toggles.Current("b"); got.State != Collapsed || got.Label != ReadMoreLabel {
		t.Fatalf("unexpected initial toggle: %+v", got)
	}
	toggles.Activate(b)
	toggles.Activate(a)
	if toggles.Current("a").State != Collapsed || toggles.Current("b").State != Expanded {
		t.Fatal("unexpected toggle states after second activation")
	}
	if got := toggles.Current("a"); got.Content != "A" || got.State.String() != "collapsed" {
		t.Fatalf("unexpected current toggle: %+v", got)
	}
}
