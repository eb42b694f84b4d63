package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/glabrego/postshelf/internal/blog"
)

// ErrNoCache is returned by cache operations when no snapshot store is
// configured.
var ErrNoCache = errors.New("snapshot cache is not configured")

type BlogClient interface {
	FetchManifest(ctx context.Context) (blog.Manifest, error)
	FetchContent(ctx context.Context, filename string) (string, error)
	ContentURL(filename string) (string, error)
}

type Repository interface {
	SavePosts(ctx context.Context, posts []blog.Post) error
	ListPosts(ctx context.Context) ([]blog.Post, error)
}

// Service fronts the blog client for the collection controller and keeps
// the optional offline snapshot.
type Service struct {
	client BlogClient
	repo   Repository
	logger *zap.Logger
}

// NewService wires client and repo. A nil repo disables the snapshot cache.
func NewService(client BlogClient, repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, repo: repo, logger: logger}
}

func (s *Service) FetchManifest(ctx context.Context) (blog.Manifest, error) {
	started := time.Now()
	manifest, err := s.client.FetchManifest(ctx)
	if err != nil {
		return blog.Manifest{}, fmt.Errorf("fetch manifest from blog: %w", err)
	}
	s.logger.Debug("manifest fetched",
		zap.Int("posts", len(manifest.Posts)),
		zap.Duration("elapsed", time.Since(started)),
	)
	return manifest, nil
}

func (s *Service) FetchContent(ctx context.Context, filename string) (string, error) {
	content, err := s.client.FetchContent(ctx, filename)
	if err != nil {
		return "", fmt.Errorf("fetch content %s from blog: %w", filename, err)
	}
	return content, nil
}

// ContentURL is the address a reader can open for post.
func (s *Service) ContentURL(post blog.Post) (string, error) {
	u, err := s.client.ContentURL(post.Filename)
	if err != nil {
		return "", fmt.Errorf("resolve url of post %s: %w", post.ID, err)
	}
	return u, nil
}

func (s *Service) CacheEnabled() bool {
	return s.repo != nil
}

// SaveSnapshot stores posts for offline listing. Without a cache it does
// nothing.
func (s *Service) SaveSnapshot(ctx context.Context, posts []blog.Post) error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.SavePosts(ctx, posts); err != nil {
		return fmt.Errorf("save posts to cache: %w", err)
	}
	s.logger.Debug("snapshot saved", zap.Int("posts", len(posts)))
	return nil
}

func (s *Service) ListCached(ctx context.Context) ([]blog.Post, error) {
	if s.repo == nil {
		return nil, ErrNoCache
	}
	posts, err := s.repo.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load posts from cache: %w", err)
	}
	return posts, nil
}
