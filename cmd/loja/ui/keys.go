package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds the global navigation bindings.
type KeyMap struct {
	Home     key.Binding
	Products key.Binding
	Cart     key.Binding
	Geeks    key.Binding
	GelDor   key.Binding
	Diversos key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the storefront navigation keys.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Home:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "início")),
		Products: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "produtos")),
		Cart:     key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "carrinho")),
		Geeks:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "geeks")),
		GelDor:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "gel dor")),
		Diversos: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "diversos")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "voltar")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "sair")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Home, k.Products, k.Cart, k.Back, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Home, k.Products, k.Cart},
		{k.Geeks, k.GelDor, k.Diversos},
		{k.Back, k.Quit},
	}
}

// catalogKeys are the bindings local to the product pages.
type catalogKeys struct {
	Add     key.Binding
	Detail  key.Binding
	Refresh key.Binding
	NextTab key.Binding
	PrevTab key.Binding
}

func newCatalogKeys() catalogKeys {
	return catalogKeys{
		Add:     key.NewBinding(key.WithKeys("enter", "a"), key.WithHelp("enter", "adicionar ao carrinho")),
		Detail:  key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "detalhes")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "recarregar")),
		NextTab: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "próxima categoria")),
		PrevTab: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab", "categoria anterior")),
	}
}

func (k catalogKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Detail, k.Refresh, k.NextTab}
}

func (k catalogKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

// cartKeys are the bindings of the cart list.
type cartKeys struct {
	Up       key.Binding
	Down     key.Binding
	Inc      key.Binding
	Dec      key.Binding
	Remove   key.Binding
	Checkout key.Binding
}

func newCartKeys() cartKeys {
	return cartKeys{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "subir")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "descer")),
		Inc:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "mais um")),
		Dec:      key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "menos um")),
		Remove:   key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remover")),
		Checkout: key.NewBinding(key.WithKeys("tab", "f"), key.WithHelp("tab", "finalizar pedido")),
	}
}

func (k cartKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Inc, k.Dec, k.Remove, k.Checkout}
}

func (k cartKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

// formKeys are the bindings of the checkout form.
type formKeys struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Leave  key.Binding
}

func newFormKeys() formKeys {
	return formKeys{
		Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "próximo campo")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "campo anterior")),
		Submit: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "finalizar pedido")),
		Leave:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "voltar aos itens")),
	}
}

func (k formKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Submit, k.Leave}
}

func (k formKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

// NewHelp returns a help model styled for the storefront.
func NewHelp(s Styles) help.Model {
	h := help.New()
	h.Styles.ShortKey = s.Bold
	h.Styles.ShortDesc = s.Muted
	h.Styles.ShortSeparator = s.Muted
	return h
}
