package ui

import (
	"fmt"

	"loja/internal/cart"
	"loja/internal/router"

	"github.com/charmbracelet/lipgloss"
)

// Header is the top bar: store title, navigation and the live cart count.
// It observes the cart store, so it is always held by pointer.
type Header struct {
	title  string
	count  int
	styles Styles
}

// NewHeader creates a header and subscribes it to the store. The returned
// func detaches it.
func NewHeader(title string, store *cart.Store, styles Styles) (*Header, func()) {
	h := &Header{title: title, styles: styles}
	h.OnCartChange(store.Snapshot())
	return h, store.Subscribe(h.OnCartChange)
}

// OnCartChange is the cart observer.
func (h *Header) OnCartChange(s cart.Snapshot) {
	h.count = s.ItemCount
}

// Count is the item count last seen.
func (h *Header) Count() int { return h.count }

// SetStyles applies a new theme.
func (h *Header) SetStyles(s Styles) { h.styles = s }

// SetTitle changes the store name.
func (h *Header) SetTitle(t string) { h.title = t }

// CartLabel is the navigation label for the cart.
func (h *Header) CartLabel() string {
	return fmt.Sprintf("Carrinho (%d)", h.count)
}

// View renders the header for the current route.
func (h *Header) View(width int, current router.Route) string {
	nav := func(label string, p router.Page, alt ...router.Page) string {
		active := current.Page == p
		for _, a := range alt {
			active = active || current.Page == a
		}
		if active {
			return h.styles.NavActive.Render(label)
		}
		return h.styles.NavItem.Render(label)
	}

	title := h.styles.Header.Render("🛒 " + h.title)
	links := lipgloss.JoinHorizontal(lipgloss.Top,
		nav("1 Início", router.PageHome, router.PageNotFound),
		nav("2 Produtos", router.PageProducts, router.PageCategory),
		nav("3 "+h.CartLabel(), router.PageCart),
	)

	gap := width - lipgloss.Width(title) - lipgloss.Width(links)
	if gap < 1 {
		gap = 1
	}
	filler := h.styles.Header.Padding(0).Render(fmt.Sprintf("%*s", gap, ""))
	return lipgloss.JoinHorizontal(lipgloss.Top, title, filler, links)
}
