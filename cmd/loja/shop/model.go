// Package shop is the root Bubble Tea model of the storefront. It binds
// routes to pages, owns the cart store and forwards backend results to the
// page that asked for them.
package shop

import (
	"context"
	"fmt"
	"strings"
	"time"

	"loja/cmd/loja/ui"
	"loja/internal/cart"
	"loja/internal/catalog"
	"loja/internal/config"
	"loja/internal/logging"
	"loja/internal/router"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Backend is everything the storefront asks of the REST API.
type Backend interface {
	ui.Catalog
	ui.OrderSubmitter
	SeedDemoData(ctx context.Context) (string, error)
}

// Options configures a Model.
type Options struct {
	Title       string
	StartRoute  router.Route
	SeedOnStart bool
	Timeout     time.Duration
	Styles      ui.Styles
	// GlamourStyle overrides the markdown style derived from Styles.
	GlamourStyle string
}

// OptionsFromConfig maps the loaded configuration onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Title:       cfg.Name,
		StartRoute:  router.Parse(cfg.UI.StartRoute),
		SeedOnStart: cfg.Backend.SeedOnStart,
		Timeout:     cfg.GetBackendTimeout(),
		Styles:      ui.NewStyles(ui.ThemeByName(cfg.UI.Theme)),
	}
}

// SeededMsg reports the outcome of the startup demo-data call.
type SeededMsg struct {
	Message string
	Err     error
}

// ConfigReloadedMsg is sent by the config watcher. Backend is nil when the
// base URL did not change.
type ConfigReloadedMsg struct {
	Config  *config.Config
	Backend Backend
}

// Model is the root tea.Model.
type Model struct {
	width  int
	height int

	history *router.History
	store   *cart.Store
	backend Backend
	opts    Options

	header   *ui.Header
	home     ui.HomePageModel
	products ui.CatalogPageModel
	category ui.CatalogPageModel
	cartPage ui.CartPageModel

	keys   ui.KeyMap
	help   help.Model
	styles ui.Styles

	status   string
	initCmd  tea.Cmd
	detach   []func()
	quitting bool
}

// New builds the root model. The start route is entered immediately so that
// its fetch is part of Init.
func New(store *cart.Store, backend Backend, opts Options) Model {
	if opts.Title == "" {
		opts.Title = "Loja Online"
	}
	if opts.GlamourStyle == "" {
		opts.GlamourStyle = ui.GlamourStyleFor(opts.Styles.Theme)
	}

	m := Model{
		history:  router.NewHistory(opts.StartRoute),
		store:    store,
		backend:  backend,
		opts:     opts,
		home:     ui.NewHomePage(opts.Styles, opts.GlamourStyle),
		products: ui.NewProductsPage(backend, store, opts.Styles),
		category: ui.NewCategoryPage(opts.StartRoute.Category, backend, store, opts.Styles),
		cartPage: ui.NewCartPage(store, backend, opts.Styles),
		keys:     ui.DefaultKeyMap(),
		help:     ui.NewHelp(opts.Styles),
		styles:   opts.Styles,
	}
	m.setTimeout(opts.Timeout)

	header, unsubscribe := ui.NewHeader(opts.Title, store, opts.Styles)
	m.header = header
	m.detach = append(m.detach, unsubscribe, store.Subscribe(logCartChange))

	var cmds []tea.Cmd
	if opts.SeedOnStart {
		cmds = append(cmds, seedCmd(backend, m.opts.Timeout))
	}
	cmds = append(cmds, m.enter(m.history.Current()))
	m.initCmd = tea.Batch(cmds...)

	logging.Get(logging.CategoryRouter).Info("start route %s", m.history.Current().Path())
	return m
}

func logCartChange(s cart.Snapshot) {
	logging.Get(logging.CategoryCart).Debug("cart changed: %d lines, %d items, total %s",
		len(s.Items), s.ItemCount, s.Total.StringFixed(2))
}

func seedCmd(b Backend, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		msg, err := b.SeedDemoData(ctx)
		return SeededMsg{Message: msg, Err: err}
	}
}

// Close detaches the model's cart observers.
func (m Model) Close() {
	for _, fn := range m.detach {
		fn()
	}
}

// Route is the current route.
func (m Model) Route() router.Route { return m.history.Current() }

// Store is the cart owned by the program.
func (m Model) Store() *cart.Store { return m.store }

func (m *Model) setTimeout(d time.Duration) {
	if d <= 0 {
		d = 15 * time.Second
	}
	m.opts.Timeout = d
	m.products.SetTimeout(d)
	m.category.SetTimeout(d)
	m.cartPage.SetTimeout(d)
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return m.initCmd
}

// navigate pushes a route and enters it.
func (m *Model) navigate(r router.Route) tea.Cmd {
	if !m.history.Push(r) {
		return nil
	}
	logging.Get(logging.CategoryRouter).Info("navigate %s", r.Path())
	return m.enter(r)
}

func (m *Model) back() tea.Cmd {
	if !m.history.Back() {
		return nil
	}
	r := m.history.Current()
	logging.Get(logging.CategoryRouter).Info("back to %s", r.Path())
	return m.enter(r)
}

// enter prepares the page bound to r.
func (m *Model) enter(r router.Route) tea.Cmd {
	switch r.Page {
	case router.PageHome:
		m.home.SetNotice("")
	case router.PageNotFound:
		m.home.SetNotice(fmt.Sprintf("Página não encontrada: %s", r.Raw))
	case router.PageProducts:
		return m.products.Activate()
	case router.PageCategory:
		m.category.SetCategory(r.Category)
		return m.category.Activate()
	case router.PageCart:
		return m.cartPage.Activate()
	}
	return nil
}

func (m Model) capturing() bool {
	switch m.Route().Page {
	case router.PageProducts:
		return m.products.Capturing()
	case router.PageCategory:
		return m.category.Capturing()
	case router.PageCart:
		return m.cartPage.Capturing()
	}
	return false
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		pageH := msg.Height - ui.HeaderHeight - ui.FooterHeight
		m.home.SetSize(msg.Width, pageH)
		m.products.SetSize(msg.Width, pageH)
		m.category.SetSize(msg.Width, pageH)
		m.cartPage.SetSize(msg.Width, pageH)
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		if !m.capturing() {
			if handled, cmd := m.handleGlobalKey(msg); handled {
				return m, cmd
			}
		}
		return m.updateActive(msg)

	case ui.NavigateMsg:
		return m, m.navigate(msg.Route)

	case ui.ProductsLoadedMsg, ui.ProductDetailMsg, spinner.TickMsg:
		var c1, c2 tea.Cmd
		m.products, c1 = m.products.Update(msg)
		m.category, c2 = m.category.Update(msg)
		return m, tea.Batch(c1, c2)

	case ui.OrderSubmittedMsg:
		m.cartPage, cmd = m.cartPage.Update(msg)
		return m, cmd

	case SeededMsg:
		return m, m.handleSeeded(msg)

	case ConfigReloadedMsg:
		m.applyConfig(msg)
		return m, nil
	}

	return m.updateActive(msg)
}

func (m *Model) handleGlobalKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return true, tea.Quit
	case key.Matches(msg, m.keys.Home):
		return true, m.navigate(router.Home)
	case key.Matches(msg, m.keys.Products):
		return true, m.navigate(router.Products)
	case key.Matches(msg, m.keys.Cart):
		return true, m.navigate(router.Cart)
	case key.Matches(msg, m.keys.Geeks):
		return true, m.navigate(router.CategoryRoute(catalog.CategoryGeeks))
	case key.Matches(msg, m.keys.GelDor):
		return true, m.navigate(router.CategoryRoute(catalog.CategoryGelDor))
	case key.Matches(msg, m.keys.Diversos):
		return true, m.navigate(router.CategoryRoute(catalog.CategoryDiversos))
	case key.Matches(msg, m.keys.Back):
		return true, m.back()
	}
	return false, nil
}

func (m Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.Route().Page {
	case router.PageHome, router.PageNotFound:
		m.home, cmd = m.home.Update(msg)
	case router.PageProducts:
		m.products, cmd = m.products.Update(msg)
	case router.PageCategory:
		m.category, cmd = m.category.Update(msg)
	case router.PageCart:
		m.cartPage, cmd = m.cartPage.Update(msg)
	}
	return m, cmd
}

// handleSeeded records the seed outcome. Seeding is best effort. A catalog
// page whose fetch was issued before the seed finished is fetched again; the
// new sequence number makes a still-pending pre-seed response stale.
func (m *Model) handleSeeded(msg SeededMsg) tea.Cmd {
	if msg.Err != nil {
		logging.Get(logging.CategoryAPI).Warn("demo data seed failed: %v", msg.Err)
		return nil
	}
	logging.API("demo data: %s", msg.Message)
	m.status = msg.Message

	switch m.Route().Page {
	case router.PageProducts:
		if refetchAfterSeed(m.products.State()) {
			return m.products.Activate()
		}
	case router.PageCategory:
		if refetchAfterSeed(m.category.State()) {
			return m.category.Activate()
		}
	}
	return nil
}

func refetchAfterSeed(st ui.FetchState) bool {
	return st == ui.FetchLoading || st == ui.FetchEmpty || st == ui.FetchFailed
}

func (m *Model) applyConfig(msg ConfigReloadedMsg) {
	cfg := msg.Config
	if cfg == nil {
		return
	}
	logging.Get(logging.CategoryConfig).Info("applying reloaded config (theme=%s backend=%s)", cfg.UI.Theme, cfg.Backend.BaseURL)

	styles := ui.NewStyles(ui.ThemeByName(cfg.UI.Theme))
	m.styles = styles
	m.help = ui.NewHelp(styles)
	m.header.SetStyles(styles)
	m.header.SetTitle(cfg.Name)
	m.home.SetStyles(styles)
	m.products.SetStyles(styles)
	m.category.SetStyles(styles)
	m.cartPage.SetStyles(styles)
	m.setTimeout(cfg.GetBackendTimeout())

	if msg.Backend != nil {
		m.backend = msg.Backend
		m.products.SetSource(msg.Backend)
		m.category.SetSource(msg.Backend)
		m.cartPage.SetSubmitter(msg.Backend)
	}
}

// View renders the program.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var page string
	switch m.Route().Page {
	case router.PageHome, router.PageNotFound:
		page = m.home.View()
	case router.PageProducts:
		page = m.products.View()
	case router.PageCategory:
		page = m.category.View()
	case router.PageCart:
		page = m.cartPage.View()
	}

	footer := m.help.ShortHelpView(m.keys.ShortHelp())
	if m.status != "" {
		footer = lipgloss.JoinHorizontal(lipgloss.Top, footer, m.styles.Muted.Render("  · "+m.status))
	}

	return strings.Join([]string{
		m.header.View(m.width, m.Route()),
		m.styles.Content.Padding(0, ui.ContentIndent).Render(page),
		m.styles.Footer.Render(footer),
	}, "\n")
}
