package collection

import (
	"context"
	"fmt"
	"html"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/glabrego/postshelf/internal/blog"
	"github.com/glabrego/postshelf/internal/render/markup"
)

// AllTags is the tag selector that places no restriction on tags.
const AllTags = "all"

// FallbackSummary replaces the summary of a post whose content could not be
// fetched.
const FallbackSummary = "Error loading post content."

// FallbackContent is the full content stored for a post whose content could
// not be fetched.
func FallbackContent(title string) string {
	return `<p>Error loading content for "` + html.EscapeString(title) + `".</p>`
}

// Source provides the manifest and the content resources.
type Source interface {
	FetchManifest(ctx context.Context) (blog.Manifest, error)
	FetchContent(ctx context.Context, filename string) (string, error)
}

// Presenter receives every render the controller produces.
type Presenter interface {
	ShowLoading()
	ShowError(err error)
	ShowPosts(posts []blog.Post)
	ShowEmpty()
	ShowStats(visible, total int)
}

// Option configures a Controller built by New.
type Option func(*Controller)

func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRegion sets the class token of the element holding the post body.
func WithRegion(region string) Option {
	return func(c *Controller) {
		if region != "" {
			c.region = region
		}
	}
}

// WithSummaryLimit sets the summary length in characters before truncation.
func WithSummaryLimit(limit int) Option {
	return func(c *Controller) {
		if limit > 0 {
			c.summaryLimit = limit
		}
	}
}

// WithMaxInFlight bounds concurrent content fetches. Zero or less means every
// fetch is dispatched at once.
func WithMaxInFlight(n int) Option {
	return func(c *Controller) {
		c.maxInFlight = n
	}
}

// Controller owns the loaded post set and the filter state, and renders the
// visible subset through a Presenter.
type Controller struct {
	source       Source
	view         Presenter
	logger       *zap.Logger
	region       string
	summaryLimit int
	maxInFlight  int

	allPosts      []blog.Post
	filteredPosts []blog.Post
	filtered      bool
	currentTag    string
	searchTerm    string
	loaded        bool
}

// New returns a controller reading from source and rendering into view.
// A nil view discards every render.
func New(source Source, view Presenter, opts ...Option) *Controller {
	c := &Controller{
		source:       source,
		view:         view,
		logger:       zap.NewNop(),
		region:       markup.DefaultRegion,
		summaryLimit: markup.SummaryLimit,
		currentTag:   AllTags,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadBlogPosts fetches the manifest and every post's content, then renders
// the full set. A manifest failure shows the error placeholder and is
// returned; per-post failures never are.
func (c *Controller) LoadBlogPosts(ctx context.Context) error {
	c.BeginLoad()
	manifest, err := c.source.FetchManifest(ctx)
	if err != nil {
		err = fmt.Errorf("load blog posts: %w", err)
		c.FailLoad(err)
		return err
	}
	c.allPosts = manifest.Posts
	c.LoadAllPostContents(ctx)
	c.CompleteLoad(c.allPosts)
	return nil
}

// BeginLoad shows the loading placeholder.
func (c *Controller) BeginLoad() {
	if c.view != nil {
		c.view.ShowLoading()
	}
}

// FetchPosts fetches the manifest and enriches its posts without touching
// controller state, so it may run off the goroutine that renders.
func (c *Controller) FetchPosts(ctx context.Context) ([]blog.Post, error) {
	manifest, err := c.source.FetchManifest(ctx)
	if err != nil {
		return nil, fmt.Errorf("load blog posts: %w", err)
	}
	posts := append([]blog.Post(nil), manifest.Posts...)
	c.enrich(ctx, posts)
	return posts, nil
}

// CompleteLoad replaces the post set and renders it under the current filter
// state.
func (c *Controller) CompleteLoad(posts []blog.Post) {
	c.allPosts = posts
	c.loaded = true
	if c.currentTag != AllTags || c.searchTerm != "" {
		c.FilterPosts()
		return
	}
	c.filteredPosts = nil
	c.filtered = false
	c.DisplayPosts(c.allPosts)
	c.UpdateStats()
}

// FailLoad logs err and shows the error placeholder with its retry action.
func (c *Controller) FailLoad(err error) {
	c.logger.Error("blog posts failed to load", zap.Error(err))
	if c.view != nil {
		c.view.ShowError(err)
	}
}

// LoadAllPostContents fetches and summarizes the content of every loaded
// post concurrently and returns once all of them have settled.
func (c *Controller) LoadAllPostContents(ctx context.Context) {
	c.enrich(ctx, c.allPosts)
}

func (c *Controller) enrich(ctx context.Context, posts []blog.Post) {
	var g errgroup.Group
	if c.maxInFlight > 0 {
		g.SetLimit(c.maxInFlight)
	}
	for i := range posts {
		post := &posts[i]
		g.Go(func() error {
			c.loadPostContent(ctx, post)
			return nil
		})
	}
	_ = g.Wait()
}

func (c *Controller) loadPostContent(ctx context.Context, post *blog.Post) {
	defer func() { post.Loaded = true }()

	raw, err := c.source.FetchContent(ctx, post.Filename)
	if err != nil {
		c.logger.Warn("post content failed to load",
			zap.String("post_id", string(post.ID)),
			zap.String("filename", post.Filename),
			zap.Error(err),
		)
		post.Summary = FallbackSummary
		post.FullContent = FallbackContent(post.Title)
		return
	}
	post.Summary = markup.Summary(raw, c.region, c.summaryLimit)
	post.FullContent = raw
}

// DisplayPosts renders posts newest first. An empty set renders the no
// results placeholder.
func (c *Controller) DisplayPosts(posts []blog.Post) {
	if c.view == nil {
		return
	}
	if len(posts) == 0 {
		c.view.ShowEmpty()
		return
	}
	c.view.ShowPosts(SortByDate(posts))
}

// UpdateStats reports the visible and total counts. Before any filter pass
// the whole set is visible.
func (c *Controller) UpdateStats() {
	if c.view == nil {
		return
	}
	c.view.ShowStats(c.Stats())
}

// Stats counts the visible and loaded posts. Until a filter is applied every
// loaded post counts as visible.
func (c *Controller) Stats() (visible, total int) {
	total = len(c.allPosts)
	if !c.filtered {
		return total, total
	}
	return len(c.filteredPosts), total
}

func (c *Controller) AllPosts() []blog.Post      { return c.allPosts }
func (c *Controller) FilteredPosts() []blog.Post { return c.filteredPosts }
func (c *Controller) CurrentTag() string         { return c.currentTag }
func (c *Controller) SearchTerm() string         { return c.searchTerm }
func (c *Controller) Loaded() bool               { return c.loaded }
func (c *Controller) Region() string             { return c.region }
