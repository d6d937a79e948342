package shop

import (
	"context"
	"errors"
	"testing"
	"time"

	"loja/cmd/loja/ui"
	"loja/internal/cart"
	"loja/internal/catalog"
	"loja/internal/config"
	"loja/internal/order"
	"loja/internal/router"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	products []catalog.Product
	listErr  error
	seeded   int
	orders   int
}

func (f *fakeBackend) ListProducts(_ context.Context, c catalog.Category) ([]catalog.Product, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []catalog.Product
	for _, p := range f.products {
		if c == "" || p.Category == c {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeBackend) GetProduct(_ context.Context, id string) (*catalog.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeBackend) SeedDemoData(context.Context) (string, error) {
	f.seeded++
	return "Dados iniciais criados com sucesso", nil
}

func (f *fakeBackend) SubmitOrder(_ context.Context, o *order.Order) (*order.Confirmation, error) {
	f.orders++
	return &order.Confirmation{ID: "ord-1", Total: o.Total(), Status: "pending"}, nil
}

var demoProducts = []catalog.Product{
	{ID: "p1", Name: "Camiseta Geek", Price: decimal.RequireFromString("49.90"), Category: catalog.CategoryGeeks, InStock: true},
	{ID: "p2", Name: "Gel Ártico", Price: decimal.RequireFromString("19.90"), Category: catalog.CategoryGelDor, InStock: true},
}

func newTestModel(t *testing.T, b *fakeBackend, start string) Model {
	t.Helper()
	m := New(cart.NewStore(), b, Options{
		StartRoute:   router.Parse(start),
		Timeout:      time.Second,
		Styles:       ui.NewStyles(ui.LightTheme()),
		GlamourStyle: "notty",
	})
	t.Cleanup(m.Close)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func productsSeq(m Model) int { return m.products.Seq() }
func categorySeq(m Model) int { return m.category.Seq() }

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// loadProducts resolves the pending fetch of the products page.
func loadProducts(t *testing.T, m Model, b *fakeBackend, page string) Model {
	t.Helper()
	var c catalog.Category
	seq := 0
	if page == "products" {
		c, seq = m.products.Category(), productsSeq(m)
	} else {
		c, seq = m.category.Category(), categorySeq(m)
	}
	ps, err := b.ListProducts(context.Background(), c)
	m, _ = send(t, m, ui.ProductsLoadedMsg{PageID: page, Seq: seq, Category: c, Products: ps, Err: err})
	return m
}

// runFetch executes a command tree until it yields a catalog response.
func runFetch(t *testing.T, cmd tea.Cmd) ui.ProductsLoadedMsg {
	t.Helper()
	var walk func(tea.Cmd) (ui.ProductsLoadedMsg, bool)
	walk = func(c tea.Cmd) (ui.ProductsLoadedMsg, bool) {
		if c == nil {
			return ui.ProductsLoadedMsg{}, false
		}
		switch msg := c().(type) {
		case ui.ProductsLoadedMsg:
			return msg, true
		case tea.BatchMsg:
			for _, inner := range msg {
				if got, ok := walk(inner); ok {
					return got, true
				}
			}
		}
		return ui.ProductsLoadedMsg{}, false
	}
	msg, ok := walk(cmd)
	require.True(t, ok, "expected a catalog fetch")
	return msg
}

func TestStartRoute(t *testing.T) {
	b := &fakeBackend{products: demoProducts}
	m := newTestModel(t, b, "/produtos")

	assert.Equal(t, router.PageProducts, m.Route().Page)
	assert.NotNil(t, m.Init())
	assert.Equal(t, ui.FetchLoading, m.products.State())

	m = loadProducts(t, m, b, "products")
	assert.Contains(t, m.View(), "Camiseta Geek")
}

func TestUnknownRouteRendersHomeWithNotice(t *testing.T) {
	m := newTestModel(t, &fakeBackend{}, "/nao-existe")

	assert.Equal(t, router.PageNotFound, m.Route().Page)
	view := m.View()
	assert.Contains(t, view, "/nao-existe")
	assert.Contains(t, view, "Geeks")
}

func TestGlobalNavigationAndBack(t *testing.T) {
	m := newTestModel(t, &fakeBackend{}, "/")

	m, _ = send(t, m, keyRunes("2"))
	assert.Equal(t, router.PageProducts, m.Route().Page)

	m, cmd := send(t, m, keyRunes("g"))
	assert.NotNil(t, cmd)
	assert.Equal(t, router.CategoryRoute(catalog.CategoryGeeks), m.Route())

	m, _ = send(t, m, keyRunes("3"))
	assert.Equal(t, router.PageCart, m.Route().Page)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, router.CategoryRoute(catalog.CategoryGeeks), m.Route())

	m, _ = send(t, m, ui.NavigateMsg{Route: router.Home})
	assert.Equal(t, router.PageHome, m.Route().Page)
}

func TestStaleCategoryResponseDropped(t *testing.T) {
	b := &fakeBackend{products: demoProducts}
	m := newTestModel(t, b, "/categoria/geeks")
	staleSeq := categorySeq(m)

	// Switch category before the first fetch lands.
	m, _ = send(t, m, keyRunes("d"))
	require.Equal(t, catalog.CategoryGelDor, m.category.Category())

	m, _ = send(t, m, ui.ProductsLoadedMsg{PageID: "category", Seq: staleSeq, Category: catalog.CategoryGeeks, Products: demoProducts[:1]})
	assert.Equal(t, ui.FetchLoading, m.category.State())

	m = loadProducts(t, m, b, "category")
	assert.Equal(t, ui.FetchLoaded, m.category.State())
	view := m.View()
	assert.Contains(t, view, "Gel Ártico")
	assert.NotContains(t, view, "Camiseta Geek")
}

func TestAddToCartUpdatesHeader(t *testing.T) {
	b := &fakeBackend{products: demoProducts}
	m := newTestModel(t, b, "/produtos")
	m = loadProducts(t, m, b, "products")

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, 2, m.Store().ItemCount())
	assert.Contains(t, m.View(), "Carrinho (2)")
}

func TestCheckoutFormCapturesNavigationKeys(t *testing.T) {
	m := newTestModel(t, &fakeBackend{}, "/carrinho")
	m.Store().AddOne(demoProducts[0])

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = send(t, m, keyRunes("1"))

	assert.Equal(t, router.PageCart, m.Route().Page, "typing in the form must not navigate")
	assert.Equal(t, "1", m.cartPage.Customer().Name)
}

func TestSeedRefetchesEmptyCatalog(t *testing.T) {
	b := &fakeBackend{}
	m := newTestModel(t, b, "/produtos")
	m = loadProducts(t, m, b, "products")
	require.Equal(t, ui.FetchEmpty, m.products.State())

	before := productsSeq(m)
	m, cmd := send(t, m, SeededMsg{Message: "Dados iniciais criados com sucesso"})
	assert.NotNil(t, cmd)
	assert.Equal(t, before+1, productsSeq(m))
	assert.Contains(t, m.View(), "Dados iniciais")
}

func TestSeedDuringFirstFetchRefetches(t *testing.T) {
	b := &fakeBackend{}
	m := newTestModel(t, b, "/produtos")
	require.Equal(t, ui.FetchLoading, m.products.State())
	preSeed := productsSeq(m)

	m, cmd := send(t, m, SeededMsg{Message: "Dados iniciais criados com sucesso"})
	require.NotNil(t, cmd, "seed landing mid-fetch must trigger a new fetch")
	assert.Equal(t, preSeed+1, productsSeq(m))

	// The fetch issued before seeding saw an empty catalog.
	m, _ = send(t, m, ui.ProductsLoadedMsg{PageID: "products", Seq: preSeed, Products: nil})
	assert.Equal(t, ui.FetchLoading, m.products.State())

	b.products = demoProducts
	m, _ = send(t, m, runFetch(t, cmd))
	assert.Equal(t, ui.FetchLoaded, m.products.State())
	assert.Contains(t, m.View(), "Camiseta Geek")
}

func TestSeedFailureIsIgnored(t *testing.T) {
	m := newTestModel(t, &fakeBackend{}, "/")
	m, cmd := send(t, m, SeededMsg{Err: errors.New("offline")})
	assert.Nil(t, cmd)
	assert.Equal(t, router.PageHome, m.Route().Page)
}

func TestSeedCommandCallsBackend(t *testing.T) {
	b := &fakeBackend{}
	msg := seedCmd(b, time.Second)()
	seeded, ok := msg.(SeededMsg)
	require.True(t, ok)
	assert.NoError(t, seeded.Err)
	assert.Equal(t, 1, b.seeded)
}

func TestConfigReloadSwapsBackend(t *testing.T) {
	old := &fakeBackend{listErr: errors.New("down")}
	m := newTestModel(t, old, "/")

	cfg := config.DefaultConfig()
	cfg.UI.Theme = "dark"
	cfg.Name = "Loja Nova"
	fresh := &fakeBackend{products: demoProducts}
	m, _ = send(t, m, ConfigReloadedMsg{Config: cfg, Backend: fresh})

	assert.True(t, m.styles.Theme.IsDark)
	assert.Contains(t, m.View(), "Loja Nova")

	m, cmd := send(t, m, keyRunes("2"))
	m, _ = send(t, m, runFetch(t, cmd))
	assert.Equal(t, ui.FetchLoaded, m.products.State())
	assert.Contains(t, m.View(), "Camiseta Geek")
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, &fakeBackend{}, "/")
	m, cmd := send(t, m, keyRunes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}
