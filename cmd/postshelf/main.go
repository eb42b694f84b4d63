package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/glabrego/postshelf/internal/app"
	"github.com/glabrego/postshelf/internal/blog"
	"github.com/glabrego/postshelf/internal/collection"
	"github.com/glabrego/postshelf/internal/config"
	"github.com/glabrego/postshelf/internal/logging"
	"github.com/glabrego/postshelf/internal/storage"
	"github.com/glabrego/postshelf/internal/tui"
)

const loadTimeout = 30 * time.Second

type rootOptions struct {
	configPath  string
	manifestURL string
	cachePath   string
	startPosts  bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "postshelf",
		Short: "Browse a static blog from the terminal",
		Long: `postshelf loads a blog's post manifest, fetches every post body in
parallel and lets you filter the collection by tag and search term.

Without a subcommand it starts the interactive browser.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBrowser(cmd, opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "YAML config file (default $POSTSHELF_CONFIG)")
	flags.StringVar(&opts.manifestURL, "manifest", "", "manifest URL, overrides the config file")
	flags.StringVar(&opts.cachePath, "cache", "", "SQLite snapshot path, overrides the config file")
	cmd.Flags().BoolVar(&opts.startPosts, "posts", false, "open the Posts tab immediately")

	cmd.AddCommand(newListCmd(opts), newTagsCmd(opts), newShowCmd(opts))
	return cmd
}

// runtime is the wired service graph shared by every command.
type runtime struct {
	cfg     config.Config
	logger  *zap.Logger
	service *app.Service
	repo    *storage.Repository
}

func openRuntime(ctx context.Context, opts *rootOptions) (*runtime, error) {
	override := func(c *config.Config) {
		if opts.manifestURL != "" {
			c.ManifestURL = opts.manifestURL
		}
		if opts.cachePath != "" {
			c.CachePath = opts.cachePath
		}
	}
	var (
		cfg config.Config
		err error
	)
	if opts.configPath == "" {
		cfg, err = config.LoadFromEnv(override)
	} else {
		cfg, err = config.LoadFile(opts.configPath, override)
	}
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logging init error: %w", err)
	}

	client, err := blog.NewClient(cfg.ManifestURL, cfg.ContentBaseURL, &http.Client{Timeout: cfg.HTTPTimeout})
	if err != nil {
		return nil, fmt.Errorf("blog client error: %w", err)
	}

	rt := &runtime{cfg: cfg, logger: logger}
	var repo app.Repository
	if cfg.CachePath != "" {
		rt.repo, err = storage.NewRepository(cfg.CachePath)
		if err != nil {
			return nil, fmt.Errorf("storage init error: %w", err)
		}
		if err := rt.repo.Init(ctx); err != nil {
			rt.repo.Close()
			return nil, fmt.Errorf("storage schema error: %w", err)
		}
		repo = rt.repo
	}
	rt.service = app.NewService(client, repo, logger)
	return rt, nil
}

func (rt *runtime) Close() {
	if rt.repo != nil {
		if err := rt.repo.Close(); err != nil {
			rt.logger.Warn("close cache", zap.Error(err))
		}
	}
	_ = rt.logger.Sync()
}

func (rt *runtime) newController(view collection.Presenter) *collection.Controller {
	return collection.New(rt.service, view,
		collection.WithLogger(rt.logger),
		collection.WithRegion(rt.cfg.ContentRegion),
		collection.WithSummaryLimit(rt.cfg.SummaryLimit),
		collection.WithMaxInFlight(rt.cfg.MaxInFlight),
	)
}

func runBrowser(cmd *cobra.Command, opts *rootOptions) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	rt, err := openRuntime(ctx, opts)
	cancel()
	if err != nil {
		return err
	}
	defer rt.Close()

	tuiOpts := tui.Options{
		NewController: rt.newController,
		ContentURL:    rt.service.ContentURL,
		Region:        rt.cfg.ContentRegion,
		Source:        manifestHost(rt.cfg.ManifestURL),
		LoadTimeout:   loadTimeout,
		StartOnPosts:  opts.startPosts,
	}
	if rt.service.CacheEnabled() {
		tuiOpts.Snapshots = rt.service
	}

	program := tea.NewProgram(tui.NewModel(tuiOpts), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func manifestHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Host
}
