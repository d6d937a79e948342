package ui

import (
	"context"

	"loja/internal/catalog"
	"loja/internal/order"
	"loja/internal/router"

	tea "github.com/charmbracelet/bubbletea"
)

// ProductsLoadedMsg carries the result of a catalog fetch back to the page
// that issued it. Seq identifies the request; pages drop stale sequences.
type ProductsLoadedMsg struct {
	PageID   string
	Seq      int
	Category catalog.Category
	Products []catalog.Product
	Err      error
}

// ProductDetailMsg carries a single product lookup for the detail pane.
type ProductDetailMsg struct {
	PageID  string
	Seq     int
	Product *catalog.Product
	Err     error
}

// OrderSubmittedMsg is the outcome of a checkout submission.
type OrderSubmittedMsg struct {
	Confirmation *order.Confirmation
	Err          error
}

// NavigateMsg asks the root model to change route.
type NavigateMsg struct {
	Route router.Route
}

// Navigate returns a command emitting a NavigateMsg.
func Navigate(r router.Route) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Route: r} }
}

// Catalog is the backend surface the product pages need.
type Catalog interface {
	ListProducts(ctx context.Context, category catalog.Category) ([]catalog.Product, error)
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
}

// OrderSubmitter is the backend surface the checkout needs.
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, o *order.Order) (*order.Confirmation, error)
}
