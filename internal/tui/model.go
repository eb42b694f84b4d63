package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/postshelf/internal/blog"
	"github.com/glabrego/postshelf/internal/collection"
	tuiactions "github.com/glabrego/postshelf/internal/tui/actions"
	tuilayout "github.com/glabrego/postshelf/internal/tui/layout"
	tuiplatform "github.com/glabrego/postshelf/internal/tui/platform"
	tuistate "github.com/glabrego/postshelf/internal/tui/state"
	tuitheme "github.com/glabrego/postshelf/internal/tui/theme"
	tuiview "github.com/glabrego/postshelf/internal/tui/view"
)

type Tab int

const (
	TabHome Tab = iota
	TabPosts
)

var tabNames = []string{"Home", "Posts"}

// ControllerFactory builds the collection controller that renders into view.
type ControllerFactory func(view collection.Presenter) *collection.Controller

type Options struct {
	NewController ControllerFactory
	// Snapshots, when set, receives every successfully loaded post set.
	Snapshots   tuiactions.Snapshotter
	ContentURL  func(blog.Post) (string, error)
	Region      string
	Source      string
	LoadTimeout time.Duration
	// StartOnPosts activates the Posts tab as soon as the program starts.
	StartOnPosts bool
}

type activatePostsMsg struct{}

// Model hosts the post collection. The controller is created the first time
// the Posts tab is shown and kept for the rest of the session.
type Model struct {
	opts      Options
	theme     tuitheme.Theme
	tab       Tab
	ctrl      *collection.Controller
	screen    *screen
	readMore  *collection.ReadMore
	content   *tuiview.ContentRenderer
	search    textinput.Model
	searching bool
	spinner   spinner.Model
	tags      []string
	cursor    int
	top       int
	width     int
	height    int
	loading   bool
	status    string
	statusID  int
	err       error
	lastLoad  time.Duration
	openURLFn func(string) error
	copyURLFn func(string) error
}

func NewModel(opts Options) Model {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "title, summary or tag"
	search.CharLimit = 120

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		opts:      opts,
		theme:     tuitheme.Default(),
		screen:    &screen{},
		readMore:  collection.NewReadMore(nil),
		content:   tuiview.NewContentRenderer(opts.Region),
		search:    search,
		spinner:   sp,
		openURLFn: tuiplatform.OpenURLInBrowser,
		copyURLFn: tuiplatform.CopyURLToClipboard,
	}
}

func (m Model) Init() tea.Cmd {
	if !m.opts.StartOnPosts {
		return nil
	}
	return func() tea.Msg { return activatePostsMsg{} }
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.search.Width = max(10, msg.Width-12)
		m.ensureCursorVisible()
		return m, nil
	case activatePostsMsg:
		return m.activatePosts()
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tuiactions.PostsLoadedMsg:
		if m.ctrl == nil {
			return m, nil
		}
		m.loading = false
		m.err = nil
		m.lastLoad = msg.Duration
		m.readMore = collection.NewReadMore(nil)
		m.ctrl.CompleteLoad(msg.Posts)
		m.tags = m.ctrl.Tags()
		m.cursor, m.top = 0, 0
		m.status = fmt.Sprintf("Loaded %d posts in %dms", len(msg.Posts), msg.Duration.Milliseconds())
		if m.opts.Snapshots != nil {
			return m, tuiactions.SaveSnapshotCmd(m.opts.Snapshots, msg.Posts)
		}
		return m, nil
	case tuiactions.PostsLoadErrorMsg:
		if m.ctrl == nil {
			return m, nil
		}
		m.loading = false
		m.lastLoad = msg.Duration
		m.err = msg.Err
		m.status = ""
		m.ctrl.FailLoad(msg.Err)
		return m, nil
	case tuiactions.SnapshotSavedMsg:
		return m, nil
	case tuiactions.SnapshotErrorMsg:
		m.err = msg.Err
		return m, nil
	case tuiactions.OpenURLSuccessMsg:
		m.err = nil
		return m.setStatus(msg.Status)
	case tuiactions.OpenURLErrorMsg:
		m.status = ""
		m.err = msg.Err
		return m, nil
	case tuiactions.ClearStatusMsg:
		if msg.ID == m.statusID {
			m.status = ""
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.searching {
		return m.updateSearch(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		if m.tab == TabHome {
			return m.activatePosts()
		}
		m.tab = TabHome
		return m, nil
	}

	if m.tab == TabHome {
		if msg.String() == "enter" {
			return m.activatePosts()
		}
		return m, nil
	}

	switch msg.String() {
	case "r":
		return m.startLoad()
	case "/":
		if !m.filtersEnabled() {
			return m, nil
		}
		m.searching = true
		return m, m.search.Focus()
	case "[":
		m.cycleTag(-1)
	case "]":
		m.cycleTag(1)
	case "a":
		m.selectTag(collection.AllTags)
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "g":
		m.moveCursor(-len(m.screen.posts))
	case "G":
		m.moveCursor(len(m.screen.posts))
	case "enter", " ", "space":
		m.toggleCurrent()
	case "o":
		return m.openCurrentURL()
	case "y":
		return m.copyCurrentURL()
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.ctrl != nil && m.search.Value() != before {
		m.ctrl.SetSearchTerm(m.search.Value())
		m.cursor, m.top = 0, 0
	}
	return m, cmd
}

func (m Model) activatePosts() (Model, tea.Cmd) {
	m.tab = TabPosts
	if m.ctrl != nil || m.opts.NewController == nil {
		return m, nil
	}
	m.ctrl = m.opts.NewController(m.screen)
	return m.startLoad()
}

func (m Model) startLoad() (Model, tea.Cmd) {
	if m.ctrl == nil || m.loading {
		return m, nil
	}
	m.loading = true
	m.err = nil
	m.status = ""
	m.ctrl.BeginLoad()
	return m, tea.Batch(tuiactions.LoadPostsCmd(m.ctrl, m.opts.LoadTimeout), m.spinner.Tick)
}

func (m *Model) cycleTag(delta int) {
	if !m.filtersEnabled() || len(m.tags) == 0 {
		return
	}
	idx := 0
	for i, tag := range m.tags {
		if tag == m.ctrl.CurrentTag() {
			idx = i
			break
		}
	}
	next := (idx + delta + len(m.tags)) % len(m.tags)
	m.selectTag(m.tags[next])
}

// filtersEnabled reports whether the loaded set is on screen, with no load in
// flight and no failed load pending retry.
func (m Model) filtersEnabled() bool {
	return m.ctrl != nil && m.ctrl.Loaded() && !m.loading && m.screen.mode != screenError
}

func (m *Model) selectTag(tag string) {
	if !m.filtersEnabled() {
		return
	}
	m.ctrl.SelectTag(tag)
	m.cursor, m.top = 0, 0
}

func (m *Model) moveCursor(delta int) {
	m.cursor = tuistate.ClampCursor(m.cursor+delta, len(m.screen.posts))
	m.ensureCursorVisible()
}

func (m *Model) toggleCurrent() {
	post, ok := m.currentPost()
	if !ok {
		return
	}
	toggle := m.readMore.Activate(post)
	if !toggle.Scroll {
		m.ensureCursorVisible()
		return
	}
	rows := m.rows()
	if first, last, ok := tuilayout.ContentSpan(rows, m.cursor); ok {
		m.top = tuistate.ScrollToShow(m.top, first, last, m.bodyHeight())
	}
}

func (m *Model) ensureCursorVisible() {
	if m.screen.mode != screenPosts || len(m.screen.posts) == 0 {
		m.top = 0
		return
	}
	first, last := tuilayout.PostSpan(m.rows(), m.cursor)
	if first < 0 {
		m.top = 0
		return
	}
	m.top = tuistate.ScrollToShow(m.top, first, last, m.bodyHeight())
}

func (m Model) currentPost() (blog.Post, bool) {
	if m.screen.mode != screenPosts || len(m.screen.posts) == 0 {
		return blog.Post{}, false
	}
	return m.screen.posts[tuistate.ClampCursor(m.cursor, len(m.screen.posts))], true
}

func (m Model) openCurrentURL() (tea.Model, tea.Cmd) {
	validURL, err := m.currentURL()
	if err != nil {
		m.err = nil
		return m.setStatus(err.Error())
	}
	return m, tuiactions.OpenURLCmd(validURL, m.openURLFn, m.copyURLFn)
}

func (m Model) copyCurrentURL() (tea.Model, tea.Cmd) {
	validURL, err := m.currentURL()
	if err != nil {
		m.err = nil
		return m.setStatus(err.Error())
	}
	return m, tuiactions.CopyURLCmd(validURL, m.copyURLFn)
}

func (m Model) currentURL() (string, error) {
	post, ok := m.currentPost()
	if !ok {
		return "", errors.New("no post selected")
	}
	if m.opts.ContentURL == nil {
		return "", errors.New("post URLs are unavailable")
	}
	raw, err := m.opts.ContentURL(post)
	if err != nil {
		return "", err
	}
	return tuiplatform.ValidatePostURL(raw)
}

func (m Model) setStatus(status string) (Model, tea.Cmd) {
	m.status = status
	m.statusID++
	return m, tuiactions.ClearStatusCmd(m.statusID, 4*time.Second)
}

func (m Model) rows() []tuilayout.Row {
	return tuilayout.BuildRows(m.screen.posts, tuilayout.BuildOptions{
		Width:        m.contentWidth(),
		Toggle:       m.readMore.Current,
		ContentLines: m.content.Lines,
	})
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width
}

func (m Model) bodyHeight() int {
	if m.height <= 0 {
		return 0
	}
	return tuistate.PageStep(m.height, m.searching || m.search.Value() != "")
}

func (m Model) View() string {
	th := m.theme
	var b strings.Builder
	b.WriteString(th.Title.Render("postshelf"))
	b.WriteString("  ")
	b.WriteString(tuiview.TabBar(tabNames, int(m.tab), th))
	b.WriteString("\n")
	b.WriteString(tuiview.Toolbar(m.tab == TabPosts, m.searching))
	b.WriteString("\n\n")

	if m.tab == TabHome {
		b.WriteString(m.homeView())
	} else {
		b.WriteString(m.postsView())
	}

	b.WriteString("\n")
	b.WriteString(tuiview.MessageLine(m.loading, m.status, m.err, th))
	b.WriteString("\n")
	return b.String()
}

func (m Model) homeView() string {
	var b strings.Builder
	source := m.opts.Source
	if source == "" {
		source = "the configured blog"
	}
	b.WriteString("Blog posts from " + source + ".\n")
	switch {
	case m.ctrl == nil:
		b.WriteString("Press tab or enter to browse them.\n")
	case m.ctrl.Loaded():
		_, total := m.ctrl.Stats()
		b.WriteString(fmt.Sprintf("%d posts loaded in %dms. Press tab to return to them.\n", total, m.lastLoad.Milliseconds()))
	default:
		b.WriteString("Press tab to return to the posts.\n")
	}
	return b.String()
}

func (m Model) postsView() string {
	th := m.theme
	var b strings.Builder
	if m.searching || m.search.Value() != "" {
		b.WriteString(tuiview.SearchLine(m.search.View(), th))
		b.WriteString("\n")
	}
	if m.ctrl != nil && len(m.tags) > 0 {
		b.WriteString(tuiview.TagBar(m.tags, m.ctrl.CurrentTag(), th))
		b.WriteString("\n")
	}
	if m.screen.statsShown {
		b.WriteString(tuiview.StatsLine(m.screen.visible, m.screen.total, th))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch m.screen.mode {
	case screenLoading, screenIdle:
		b.WriteString(m.spinner.View() + " " + th.Placeholder.Render(tuiview.LoadingText))
		b.WriteString("\n")
	case screenError:
		b.WriteString(th.StateWarn.Render(tuiview.ErrorText(m.screen.err)))
		b.WriteString("\n")
	case screenEmpty:
		b.WriteString(th.Placeholder.Render(tuiview.NoResultsText))
		b.WriteString("\n")
	case screenPosts:
		rows := m.rows()
		start, end := tuistate.Window(len(rows), m.top, m.bodyHeight())
		b.WriteString(tuiview.RenderListBody(tuiview.ListRenderInput{
			Rows:   rows,
			Start:  start,
			End:    end,
			Cursor: m.cursor,
			Width:  m.contentWidth(),
		}, th))
	}
	return b.String()
}
