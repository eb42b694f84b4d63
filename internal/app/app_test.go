package app

import (
	"context"
	"errors"
	"testing"

	"github.com/glabrego/postshelf/internal/blog"
)

type fakeClient struct {
	manifest blog.Manifest
	contents map[string]string
	err      error
}

func (f fakeClient) FetchManifest(context.Context) (blog.Manifest, error) {
	if f.err != nil {
		return blog.Manifest{}, f.err
	}
	return f.manifest, nil
}

func (f fakeClient) FetchContent(_ context.Context, filename string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.contents[filename], nil
}

func (f fakeClient) ContentURL(filename string) (string, error) {
	if filename == "" {
		return "", errors.New("empty filename")
	}
	return "https://example.com/" + filename, nil
}

type fakeRepo struct {
	saved   []blog.Post
	cached  []blog.Post
	saveErr error
	listErr error
}

func (f *fakeRepo) SavePosts(_ context.Context, posts []blog.Post) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append([]blog.Post(nil), posts...)
	return nil
}

func (f *fakeRepo) ListPosts(context.Context) ([]blog.Post, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.cached, nil
}

func TestService_FetchDelegatesToClient(t *testing.T) {
	client := fakeClient{
		manifest: blog.Manifest{Posts: []blog.Post{{ID: "1", Title: "Hello", Filename: "a.html"}}},
		contents: map[string]string{"a.html": "<p>Hi</p>"},
	}
	svc := NewService(client, nil, nil)

	manifest, err := svc.FetchManifest(context.Background())
	if err != nil {
		t.Fatalf("FetchManifest returned error: %v", err)
	}
	if len(manifest.Posts) != 1 || manifest.Posts[0].ID != "1" {
		t.Fatalf("unexpected manifest: %+v", manifest)
	}

	content, err := svc.FetchContent(context.Background(), "a.html")
	if err != nil {
		t.Fatalf("FetchContent returned error: %v", err)
	}
	if content != "<p>Hi</p>" {
		t.Fatalf("unexpected content: %q", content)
	}
}

func TestService_PropagatesFetchError(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(fakeClient{err: boom}, &fakeRepo{}, nil)

	if _, err := svc.FetchManifest(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if _, err := svc.FetchContent(context.Background(), "a.html"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestService_SaveSnapshot(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(fakeClient{}, repo, nil)

	posts := []blog.Post{{ID: "1", Title: "Saved"}}
	if err := svc.SaveSnapshot(context.Background(), posts); err != nil {
		t.Fatalf("SaveSnapshot returned error: %v", err)
	}
	if len(repo.saved) != 1 || repo.saved[0].ID != "1" {
		t.Fatalf("posts were not saved to repo: %+v", repo.saved)
	}

	repo.saveErr = errors.New("disk full")
	if err := svc.SaveSnapshot(context.Background(), posts); !errors.Is(err, repo.saveErr) {
		t.Fatalf("expected save error, got %v", err)
	}
}

func TestService_ListCached(t *testing.T) {
	repo := &fakeRepo{cached: []blog.Post{{ID: "2", Title: "Cached"}}}
	svc := NewService(fakeClient{}, repo, nil)

	posts, err := svc.ListCached(context.Background())
	if err != nil {
		t.Fatalf("ListCached returned error: %v", err)
	}
	if len(posts) != 1 || posts[0].ID != "2" {
		t.Fatalf("unexpected cached posts: %+v", posts)
	}
}

func TestService_WithoutCache(t *testing.T) {
	svc := NewService(fakeClient{}, nil, nil)
	if svc.CacheEnabled() {
		t.Fatal("expected cache to be disabled")
	}
	if err := svc.SaveSnapshot(context.Background(), []blog.Post{{ID: "1"}}); err != nil {
		t.Fatalf("SaveSnapshot without cache returned error: %v", err)
	}
	if _, err := svc.ListCached(context.Background()); !errors.Is(err, ErrNoCache) {
		t.Fatalf("expected ErrNoCache, got %v", err)
	}
}

func TestService_ContentURL(t *testing.T) {
	svc := NewService(fakeClient{}, nil, nil)
	u, err := svc.ContentURL(blog.Post{ID: "1", Filename: "a.html"})
	if err != nil || u != "https://example.com/a.html" {
		t.Fatalf("unexpected url %q, err %v", u, err)
	}
	if _, err := svc.ContentURL(blog.Post{ID: "2"}); err == nil {
		t.Fatal("expected error for post without filename")
	}
}
