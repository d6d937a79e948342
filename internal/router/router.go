// Package router maps storefront URL paths to pages and keeps the
// navigation history.
package router

import (
	"strings"

	"loja/internal/catalog"
)

// Page identifies a top-level view.
type Page int

const (
	PageHome Page = iota
	PageProducts
	PageCategory
	PageCart
	PageNotFound
)

func (p Page) String() string {
	switch p {
	case PageHome:
		return "home"
	case PageProducts:
		return "products"
	case PageCategory:
		return "category"
	case PageCart:
		return "cart"
	default:
		return "not_found"
	}
}

// Route is a resolved path.
type Route struct {
	Page     Page
	Category catalog.Category // set only for PageCategory
	Raw      string           // original path, kept for NotFound notices
}

// Well-known routes.
var (
	Home     = Route{Page: PageHome}
	Products = Route{Page: PageProducts}
	Cart     = Route{Page: PageCart}
)

// CategoryRoute returns the route for a category page.
func CategoryRoute(c catalog.Category) Route {
	return Route{Page: PageCategory, Category: c}
}

// Parse resolves a path. Trailing slashes and query strings are ignored.
// Unknown paths and categories outside the fixed set resolve to PageNotFound.
func Parse(path string) Route {
	raw := path
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = "/" + strings.Trim(path, "/")

	switch {
	case path == "/":
		return Home
	case path == "/produtos":
		return Products
	case path == "/carrinho":
		return Cart
	case strings.HasPrefix(path, "/categoria/"):
		c := catalog.Category(strings.TrimPrefix(path, "/categoria/"))
		if c.Valid() {
			return CategoryRoute(c)
		}
	}
	return Route{Page: PageNotFound, Raw: raw}
}

// Path renders the route back to its canonical path.
func (r Route) Path() string {
	switch r.Page {
	case PageHome:
		return "/"
	case PageProducts:
		return "/produtos"
	case PageCategory:
		return "/categoria/" + string(r.Category)
	case PageCart:
		return "/carrinho"
	default:
		return r.Raw
	}
}

// Equal compares routes by page and category.
func (r Route) Equal(o Route) bool {
	return r.Page == o.Page && r.Category == o.Category
}

// MaxHistory bounds the navigation stack. The oldest entries are dropped
// first.
const MaxHistory = 50

// History is a navigation stack. The zero value starts at Home.
type History struct {
	stack []Route
}

// NewHistory starts a history at the given route.
func NewHistory(start Route) *History {
	return &History{stack: []Route{start}}
}

// Current returns the active route.
func (h *History) Current() Route {
	if len(h.stack) == 0 {
		return Home
	}
	return h.stack[len(h.stack)-1]
}

// Push navigates to r. Navigating to the current route is a no-op and
// returns false.
func (h *History) Push(r Route) bool {
	if len(h.stack) > 0 && h.Current().Equal(r) {
		return false
	}
	h.stack = append(h.stack, r)
	if n := len(h.stack); n > MaxHistory {
		h.stack = append(h.stack[:0:0], h.stack[n-MaxHistory:]...)
	}
	return true
}

// Back pops the current route. It returns false when already at the root.
func (h *History) Back() bool {
	if len(h.stack) <= 1 {
		return false
	}
	h.stack = h.stack[:len(h.stack)-1]
	return true
}

// Depth is the number of routes on the stack.
func (h *History) Depth() int { return len(h.stack) }
