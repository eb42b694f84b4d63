package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/glabrego/postshelf/internal/blog"
	"github.com/glabrego/postshelf/internal/collection"
	"github.com/glabrego/postshelf/internal/render/markup"
	tuilayout "github.com/glabrego/postshelf/internal/tui/layout"
	tuiview "github.com/glabrego/postshelf/internal/tui/view"
)

type loadOptions struct {
	offline bool
	tag     string
	search  string
}

// capture is a collection.Presenter that keeps the last render so a command
// can print it once loading has settled.
type capture struct {
	posts   []blog.Post
	empty   bool
	err     error
	visible int
	total   int
}

func (c *capture) ShowLoading()                 {}
func (c *capture) ShowError(err error)          { c.err = err }
func (c *capture) ShowPosts(posts []blog.Post)  { c.posts, c.empty = posts, false }
func (c *capture) ShowEmpty()                   { c.posts, c.empty = nil, true }
func (c *capture) ShowStats(visible, total int) { c.visible, c.total = visible, total }

// loadCollection builds a controller over rt, applies the filters and loads
// posts from the blog or, offline, from the snapshot cache.
func loadCollection(ctx context.Context, rt *runtime, lo loadOptions) (*collection.Controller, *capture, error) {
	view := &capture{}
	ctrl := rt.newController(view)
	if lo.tag != "" {
		ctrl.SelectTag(lo.tag)
	}
	if lo.search != "" {
		ctrl.SetSearchTerm(lo.search)
	}

	if lo.offline {
		posts, err := rt.service.ListCached(ctx)
		if err != nil {
			return nil, nil, err
		}
		ctrl.CompleteLoad(posts)
		return ctrl, view, nil
	}

	if err := ctrl.LoadBlogPosts(ctx); err != nil {
		return nil, nil, err
	}
	if rt.service.CacheEnabled() {
		if err := rt.service.SaveSnapshot(ctx, ctrl.AllPosts()); err != nil {
			rt.logger.Warn("snapshot not saved", zap.Error(err))
		}
	}
	return ctrl, view, nil
}

func withRuntime(cmd *cobra.Command, opts *rootOptions, fn func(context.Context, *runtime) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), loadTimeout)
	defer cancel()
	rt, err := openRuntime(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.Close()
	return fn(ctx, rt)
}

func addLoadFlags(cmd *cobra.Command, lo *loadOptions) {
	cmd.Flags().BoolVar(&lo.offline, "offline", false, "read the last saved snapshot instead of the blog")
}

func newListCmd(opts *rootOptions) *cobra.Command {
	lo := &loadOptions{}
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the posts matching the tag and search filters, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd, opts, func(ctx context.Context, rt *runtime) error {
				_, view, err := loadCollection(ctx, rt, *lo)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), view.posts)
				}
				writeText(cmd.OutOrStdout(), view)
				return nil
			})
		},
	}
	addLoadFlags(cmd, lo)
	cmd.Flags().StringVar(&lo.tag, "tag", "", "only posts carrying this tag")
	cmd.Flags().StringVar(&lo.search, "search", "", "only posts whose title, summary or tags contain this term")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	return cmd
}

func newTagsCmd(opts *rootOptions) *cobra.Command {
	lo := &loadOptions{}
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Print the distinct tags of the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd, opts, func(ctx context.Context, rt *runtime) error {
				ctrl, _, err := loadCollection(ctx, rt, *lo)
				if err != nil {
					return err
				}
				for _, tag := range ctrl.Tags() {
					if tag == collection.AllTags {
						continue
					}
					fmt.Fprintln(cmd.OutOrStdout(), tag)
				}
				return nil
			})
		},
	}
	addLoadFlags(cmd, lo)
	return cmd
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	lo := &loadOptions{}
	var width int
	cmd := &cobra.Command{
		Use:   "show <post-id>",
		Short: "Print the full content of one post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, opts, func(ctx context.Context, rt *runtime) error {
				ctrl, _, err := loadCollection(ctx, rt, *lo)
				if err != nil {
					return err
				}
				post, ok := findPost(ctrl.AllPosts(), blog.PostID(args[0]))
				if !ok {
					return fmt.Errorf("post %s not found", args[0])
				}
				toggle := collection.NewReadMore(nil).Activate(post)
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, tuilayout.Header(post))
				if tags := tuilayout.TagLine(post.Tags); tags != "" {
					fmt.Fprintln(out, tags)
				}
				fmt.Fprintln(out)
				lines := markup.Lines(toggle.Content, ctrl.Region(), width)
				if len(lines) == 0 {
					lines = []string{tuiview.EmptyContentText}
				}
				for _, line := range lines {
					fmt.Fprintln(out, markup.StripANSI(line))
				}
				if u, err := rt.service.ContentURL(post); err == nil {
					fmt.Fprintln(out)
					fmt.Fprintln(out, u)
				}
				return nil
			})
		},
	}
	addLoadFlags(cmd, lo)
	cmd.Flags().IntVar(&width, "width", 80, "wrap width")
	return cmd
}

func findPost(posts []blog.Post, id blog.PostID) (blog.Post, bool) {
	for i := len(posts) - 1; i >= 0; i-- {
		if posts[i].ID == id {
			return posts[i], true
		}
	}
	return blog.Post{}, false
}

type listedPost struct {
	ID       blog.PostID `json:"id"`
	Title    string      `json:"title"`
	Date     string      `json:"date"`
	ReadTime string      `json:"readTime,omitempty"`
	Tags     []string    `json:"tags"`
	Summary  string      `json:"summary"`
}

func writeJSON(w io.Writer, posts []blog.Post) error {
	out := make([]listedPost, 0, len(posts))
	for _, post := range posts {
		tags := post.Tags
		if tags == nil {
			tags = []string{}
		}
		out = append(out, listedPost{
			ID:       post.ID,
			Title:    post.Title,
			Date:     post.Date,
			ReadTime: post.ReadTime,
			Tags:     tags,
			Summary:  post.Summary,
		})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode posts: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeText(w io.Writer, view *capture) {
	if view.empty || len(view.posts) == 0 {
		fmt.Fprintln(w, tuiview.NoResultsText)
	}
	for _, post := range view.posts {
		fmt.Fprintln(w, tuilayout.Header(post))
		summary := strings.TrimSpace(post.Summary)
		if summary == "" {
			summary = tuilayout.DefaultPreview
		}
		for _, line := range markup.Wrap(summary, 76) {
			fmt.Fprintln(w, "  "+line)
		}
		if tags := tuilayout.TagLine(post.Tags); tags != "" {
			fmt.Fprintln(w, "  "+tags)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Showing %d of %d posts\n", view.visible, view.total)
}
