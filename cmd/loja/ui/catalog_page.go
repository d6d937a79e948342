package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"loja/internal/backend"
	"loja/internal/cart"
	"loja/internal/catalog"
	"loja/internal/logging"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// FetchState is the lifecycle of a catalog request as seen by a page.
type FetchState int

const (
	FetchLoading FetchState = iota
	FetchLoaded
	FetchEmpty
	FetchFailed
)

func (s FetchState) String() string {
	switch s {
	case FetchLoading:
		return "loading"
	case FetchLoaded:
		return "loaded"
	case FetchEmpty:
		return "empty"
	case FetchFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Page copy.
const (
	EmptyCategoryText = "Nenhum produto encontrado nesta categoria."
	EmptyCatalogText  = "Nenhum produto encontrado."
	LoadingText       = "Carregando produtos..."
	AddedToCartText   = "Produto adicionado ao carrinho!"
	OutOfStockText    = "Produto indisponível"

	// ProductNotFoundText marks a product the backend has since removed.
	ProductNotFoundText = "Produto não encontrado"
)

// productItem adapts catalog.Product to list.Item
type productItem struct {
	product catalog.Product
}

func (i productItem) Title() string { return i.product.Name }
func (i productItem) Description() string {
	return fmt.Sprintf("%s · %s", catalog.FormatPrice(i.product.Price), i.product.StockLabel())
}
func (i productItem) FilterValue() string { return i.product.Name + " " + i.product.Description }

// filterTab is one entry of the Products page category bar. The zero
// Category means "all".
type filterTab struct {
	Category catalog.Category
	Label    string
}

func productTabs() []filterTab {
	tabs := []filterTab{{Label: "Todos"}}
	for _, c := range catalog.Categories() {
		tabs = append(tabs, filterTab{Category: c.ID, Label: c.Name})
	}
	return tabs
}

// CatalogPageModel renders a list of products. It backs both the Products
// page (with a category filter bar) and a single CategoryPage.
type CatalogPageModel struct {
	id     string
	width  int
	height int

	// Fixed category for a CategoryPage; tabs are used when it is empty.
	fixed  catalog.Category
	tabs   []filterTab
	active int

	state    FetchState
	seq      int
	products []catalog.Product
	lastErr  error

	showDetail bool
	detailSeq  int
	detail     *catalog.Product
	// detailGone is set when the backend no longer knows the selected product.
	detailGone bool

	list    list.Model
	spinner spinner.Model
	help    help.Model
	keys    catalogKeys

	source  Catalog
	store   *cart.Store
	timeout time.Duration
	styles  Styles
}

// NewProductsPage creates the Products page with its filter bar.
func NewProductsPage(source Catalog, store *cart.Store, styles Styles) CatalogPageModel {
	m := newCatalogPage("products", source, store, styles)
	m.tabs = productTabs()
	m.list.Title = "Todos os Produtos"
	return m
}

// NewCategoryPage creates the page for a single category.
func NewCategoryPage(c catalog.Category, source Catalog, store *cart.Store, styles Styles) CatalogPageModel {
	m := newCatalogPage("category", source, store, styles)
	m.SetCategory(c)
	return m
}

func newCatalogPage(id string, source Catalog, store *cart.Store, styles Styles) CatalogPageModel {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.SetShowHelp(false)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	l.SetStatusBarItemName("produto", "produtos")
	l.Styles.Title = styles.Title

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = styles.Spinner

	return CatalogPageModel{
		id:      id,
		state:   FetchLoading,
		list:    l,
		spinner: sp,
		help:    NewHelp(styles),
		keys:    newCatalogKeys(),
		source:  source,
		store:   store,
		timeout: 15 * time.Second,
		styles:  styles,
	}
}

// ID is the key ProductsLoadedMsg uses to address this page.
func (m CatalogPageModel) ID() string { return m.id }

// State reports the current fetch state.
func (m CatalogPageModel) State() FetchState { return m.state }

// Seq is the sequence number of the latest request.
func (m CatalogPageModel) Seq() int { return m.seq }

// Products returns the products currently shown.
func (m CatalogPageModel) Products() []catalog.Product { return m.products }

// Category is the category being shown; empty for "all".
func (m CatalogPageModel) Category() catalog.Category {
	if m.tabs == nil {
		return m.fixed
	}
	return m.tabs[m.active].Category
}

// SetCategory switches a CategoryPage to another category. The caller
// should follow up with Activate to fetch it.
func (m *CatalogPageModel) SetCategory(c catalog.Category) {
	m.fixed = c
	m.list.Title = c.DisplayName()
}

// SetSource swaps the backend, e.g. after a config reload.
func (m *CatalogPageModel) SetSource(source Catalog) { m.source = source }

// SetTimeout sets the per-request deadline.
func (m *CatalogPageModel) SetTimeout(d time.Duration) { m.timeout = d }

// SetStyles applies a new theme.
func (m *CatalogPageModel) SetStyles(s Styles) {
	m.styles = s
	m.list.Styles.Title = s.Title
	m.spinner.Style = s.Spinner
	m.help = NewHelp(s)
}

// SetSize sets the dimensions of the page.
func (m *CatalogPageModel) SetSize(w, h int) {
	m.width = w
	m.height = h

	listW, _ := NewLayoutConfig(w, h+HeaderHeight+FooterHeight).SplitWidths()
	if !m.showDetail {
		listW = w
	}
	listH := h - 2 // help line
	if m.tabs != nil {
		listH -= TabBarHeight
	}
	if m.fixed != "" {
		listH -= 2 // category description
	}
	if listH < 3 {
		listH = 3
	}
	m.list.SetSize(listW, listH)
}

// Capturing reports whether the page is consuming raw keystrokes.
func (m CatalogPageModel) Capturing() bool {
	return m.list.FilterState() == list.Filtering
}

// Activate starts a fresh fetch for the current category. Any response of
// an earlier request that is still in flight becomes stale.
func (m *CatalogPageModel) Activate() tea.Cmd {
	m.seq++
	m.state = FetchLoading
	m.lastErr = nil
	return tea.Batch(m.spinner.Tick, m.fetchCmd(m.seq, m.Category()))
}

func (m CatalogPageModel) fetchCmd(seq int, c catalog.Category) tea.Cmd {
	source, pageID, timeout := m.source, m.id, m.timeout
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		products, err := source.ListProducts(ctx, c)
		return ProductsLoadedMsg{PageID: pageID, Seq: seq, Category: c, Products: products, Err: err}
	}
}

func (m CatalogPageModel) detailCmd(seq int, id string) tea.Cmd {
	source, pageID, timeout := m.source, m.id, m.timeout
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		p, err := source.GetProduct(ctx, id)
		return ProductDetailMsg{PageID: pageID, Seq: seq, Product: p, Err: err}
	}
}

func requestContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}

// Init initializes the model.
func (m CatalogPageModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m CatalogPageModel) Update(msg tea.Msg) (CatalogPageModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)

	case ProductsLoadedMsg:
		if msg.PageID != m.id {
			return m, nil
		}
		if msg.Seq != m.seq {
			logging.UIDebug("dropping stale catalog response page=%s seq=%d current=%d", m.id, msg.Seq, m.seq)
			return m, nil
		}
		return m, m.applyProducts(msg)

	case ProductDetailMsg:
		// A nil detail means the list was reloaded after the request went out.
		if msg.PageID != m.id || msg.Seq != m.detailSeq || m.detail == nil {
			return m, nil
		}
		if msg.Err != nil {
			if backend.IsNotFound(msg.Err) {
				m.detailGone = true
				logging.UI("product %s no longer exists", m.detail.ID)
				return m, nil
			}
			logging.Get(logging.CategoryUI).Warn("product detail failed: %v", msg.Err)
			return m, nil
		}
		m.detail = msg.Product
		m.detailGone = false
		return m, nil

	case spinner.TickMsg:
		if m.state != FetchLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.list.FilterState() != list.Filtering {
			switch {
			case key.Matches(msg, m.keys.Add):
				return m, m.addSelected()
			case key.Matches(msg, m.keys.Detail):
				return m, m.toggleDetail()
			case key.Matches(msg, m.keys.Refresh):
				return m, m.Activate()
			case m.tabs != nil && key.Matches(msg, m.keys.NextTab):
				return m, m.selectTab(m.active + 1)
			case m.tabs != nil && key.Matches(msg, m.keys.PrevTab):
				return m, m.selectTab(m.active - 1)
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)

	if m.showDetail {
		cmds = append(cmds, m.syncDetail())
	}

	return m, tea.Batch(cmds...)
}

func (m *CatalogPageModel) applyProducts(msg ProductsLoadedMsg) tea.Cmd {
	if msg.Err != nil {
		// A failed fetch still renders as the empty state.
		logging.Get(logging.CategoryUI).Error("catalog fetch failed (category=%q): %v", msg.Category, msg.Err)
		m.state = FetchFailed
		m.lastErr = msg.Err
		m.products = nil
		return m.list.SetItems(nil)
	}

	m.products = msg.Products
	if len(msg.Products) == 0 {
		m.state = FetchEmpty
	} else {
		m.state = FetchLoaded
	}

	items := make([]list.Item, len(msg.Products))
	for i, p := range msg.Products {
		items[i] = productItem{product: p}
	}
	m.detail = nil
	return m.list.SetItems(items)
}

func (m *CatalogPageModel) selectTab(i int) tea.Cmd {
	n := len(m.tabs)
	i = ((i % n) + n) % n
	if i == m.active {
		return nil
	}
	m.active = i
	if i == 0 {
		m.list.Title = "Todos os Produtos"
	} else {
		m.list.Title = m.tabs[i].Label
	}
	return m.Activate()
}

func (m *CatalogPageModel) selected() (catalog.Product, bool) {
	if m.state != FetchLoaded {
		return catalog.Product{}, false
	}
	sel, ok := m.list.SelectedItem().(productItem)
	if !ok {
		return catalog.Product{}, false
	}
	return sel.product, true
}

func (m *CatalogPageModel) addSelected() tea.Cmd {
	p, ok := m.selected()
	if !ok {
		return nil
	}
	if !p.InStock {
		return m.list.NewStatusMessage(m.styles.Error.Render(OutOfStockText))
	}
	m.store.AddOne(p)
	return m.list.NewStatusMessage(m.styles.Success.Render(AddedToCartText))
}

func (m *CatalogPageModel) toggleDetail() tea.Cmd {
	m.showDetail = !m.showDetail
	m.SetSize(m.width, m.height)
	if !m.showDetail {
		return nil
	}
	m.detail = nil
	return m.syncDetail()
}

// syncDetail loads fresh product data when the selection moves.
func (m *CatalogPageModel) syncDetail() tea.Cmd {
	p, ok := m.selected()
	if !ok {
		return nil
	}
	if m.detail != nil && m.detail.ID == p.ID {
		return nil
	}
	cached := p
	m.detail = &cached
	m.detailGone = false
	m.detailSeq++
	return m.detailCmd(m.detailSeq, p.ID)
}

// View renders the page.
func (m CatalogPageModel) View() string {
	var sections []string

	if m.tabs != nil {
		sections = append(sections, m.renderTabs())
	}
	if m.fixed != "" {
		sections = append(sections, m.renderCategoryHeader())
	}

	switch m.state {
	case FetchLoading:
		sections = append(sections, m.styles.Content.Render(m.spinner.View()+" "+LoadingText))
	case FetchEmpty, FetchFailed:
		sections = append(sections, m.renderEmpty())
	default:
		body := m.list.View()
		if m.showDetail {
			_, detailW := NewLayoutConfig(m.width, m.height+HeaderHeight+FooterHeight).SplitWidths()
			if detailW > 0 {
				body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.renderDetail(detailW))
			}
		}
		sections = append(sections, body)
	}

	sections = append(sections, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m CatalogPageModel) renderTabs() string {
	parts := make([]string, len(m.tabs))
	for i, t := range m.tabs {
		if i == m.active {
			parts[i] = m.styles.TabActive.Render(t.Label)
		} else {
			parts[i] = m.styles.Tab.Render(t.Label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...) + "\n"
}

func (m CatalogPageModel) renderCategoryHeader() string {
	desc := ""
	for _, info := range catalog.Categories() {
		if info.ID == m.fixed {
			desc = info.Description
		}
	}
	return m.styles.Subtitle.Render(desc) + "\n"
}

func (m CatalogPageModel) renderEmpty() string {
	text := EmptyCatalogText
	if m.Category() != "" {
		text = EmptyCategoryText
	}
	var sb strings.Builder
	sb.WriteString(m.styles.Muted.Render(text))
	if m.state == FetchFailed {
		sb.WriteString("\n\n")
		sb.WriteString(m.styles.Muted.Render("Não foi possível falar com a loja. Pressione r para tentar de novo."))
	}
	return m.styles.Content.Render(sb.String())
}

func (m CatalogPageModel) renderDetail(width int) string {
	p := m.detail
	if p == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(m.styles.Bold.Render(p.Name))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Muted.Render(p.Category.DisplayName()))
	sb.WriteString("\n\n")
	sb.WriteString(m.styles.Body.Render(p.Description))
	sb.WriteString("\n\n")
	sb.WriteString(m.styles.Price.Render(catalog.FormatPrice(p.Price)))
	sb.WriteString("  ")
	sb.WriteString(m.styles.StockBadge(p.InStock, p.StockLabel()))
	if p.StockQuantity > 0 {
		sb.WriteString("\n")
		sb.WriteString(m.styles.Muted.Render(fmt.Sprintf("%d unidades disponíveis", p.StockQuantity)))
	}
	if item, ok := m.store.Get(p.ID); ok {
		sb.WriteString("\n")
		sb.WriteString(m.styles.Info.Render(fmt.Sprintf("No carrinho: %d", item.Quantity)))
	}
	if m.detailGone {
		sb.WriteString("\n\n")
		sb.WriteString(m.styles.Warning.Render(ProductNotFoundText))
	}

	return m.styles.Card.Width(width - 2).Render(sb.String())
}
