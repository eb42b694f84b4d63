package actions

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/postshelf/internal/blog"
)

const defaultLoadTimeout = 30 * time.Second

// Loader fetches the manifest and every post's content without touching
// state owned by the UI goroutine.
type Loader interface {
	FetchPosts(ctx context.Context) ([]blog.Post, error)
}

type Snapshotter interface {
	SaveSnapshot(ctx context.Context, posts []blog.Post) error
}

type PostsLoadedMsg struct {
	Posts    []blog.Post
	Duration time.Duration
}

type PostsLoadErrorMsg struct {
	Err      error
	Duration time.Duration
}

type SnapshotSavedMsg struct {
	Count int
}

type SnapshotErrorMsg struct {
	Err error
}

type OpenURLSuccessMsg struct {
	Status string
	Opened bool
}

type OpenURLErrorMsg struct {
	Err error
}

type ClearStatusMsg struct {
	ID int
}

func LoadPostsCmd(loader Loader, timeout time.Duration) tea.Cmd {
	if timeout <= 0 {
		timeout = defaultLoadTimeout
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		start := time.Now()

		posts, err := loader.FetchPosts(ctx)
		if err != nil {
			return PostsLoadErrorMsg{Err: err, Duration: time.Since(start)}
		}
		return PostsLoadedMsg{Posts: posts, Duration: time.Since(start)}
	}
}

func SaveSnapshotCmd(store Snapshotter, posts []blog.Post) tea.Cmd {
	snapshot := append([]blog.Post(nil), posts...)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := store.SaveSnapshot(ctx, snapshot); err != nil {
			return SnapshotErrorMsg{Err: err}
		}
		return SnapshotSavedMsg{Count: len(snapshot)}
	}
}

func OpenURLCmd(url string, openFn, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if openFn != nil {
			if err := openFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Opened URL in browser", Opened: true}
			}
		}
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Could not open browser, URL copied to clipboard", Opened: false}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not open URL or copy to clipboard")}
	}
}

func CopyURLCmd(url string, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not copy URL to clipboard")}
	}
}

func ClearStatusCmd(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return ClearStatusMsg{ID: id}
	})
}
