package ui

import (
	"fmt"
	"strings"

	"loja/internal/catalog"
	"loja/internal/logging"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// HomePageModel shows the hero text, the category cards and the features
// section, rendered as markdown.
type HomePageModel struct {
	width    int
	height   int
	viewport viewport.Model
	renderer *glamour.TermRenderer
	notice   string
	styles   Styles
	glamour  string // glamour standard style name
}

// NewHomePage creates the home page. glamourStyle is one of glamour's
// standard styles ("dark", "light", "notty", ...).
func NewHomePage(styles Styles, glamourStyle string) HomePageModel {
	m := HomePageModel{
		viewport: viewport.New(0, 0),
		styles:   styles,
		glamour:  glamourStyle,
	}
	m.render(80)
	return m
}

// GlamourStyleFor maps a theme to a glamour standard style.
func GlamourStyleFor(t Theme) string {
	if t.IsDark {
		return "dark"
	}
	return "light"
}

// Init initializes the model.
func (m HomePageModel) Init() tea.Cmd {
	return nil
}

// SetNotice shows a banner above the content; used for unknown routes.
func (m *HomePageModel) SetNotice(n string) {
	m.notice = n
}

// SetStyles applies a new theme.
func (m *HomePageModel) SetStyles(s Styles) {
	m.styles = s
	m.glamour = GlamourStyleFor(s.Theme)
	m.renderer = nil
	m.render(m.wrapWidth())
}

// SetSize sets the dimensions of the page.
func (m *HomePageModel) SetSize(w, h int) {
	resized := w != m.width
	m.width = w
	m.height = h
	m.viewport.Width = w
	m.viewport.Height = h - 1
	if resized {
		m.renderer = nil
		m.render(m.wrapWidth())
	}
}

func (m HomePageModel) wrapWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width - 4
}

// Update handles messages.
func (m HomePageModel) Update(msg tea.Msg) (HomePageModel, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.SetSize(size.Width, size.Height)
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *HomePageModel) render(wrap int) {
	md := HomeMarkdown()
	if m.renderer == nil {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(m.glamour),
			glamour.WithWordWrap(wrap),
		)
		if err != nil {
			logging.Get(logging.CategoryUI).Warn("markdown renderer unavailable: %v", err)
			m.viewport.SetContent(md)
			return
		}
		m.renderer = r
	}
	out, err := m.renderer.Render(md)
	if err != nil {
		logging.Get(logging.CategoryUI).Warn("markdown render failed: %v", err)
		out = md
	}
	m.viewport.SetContent(out)
}

// View renders the page.
func (m HomePageModel) View() string {
	if m.notice == "" {
		return m.viewport.View()
	}
	return m.styles.Warning.Render(m.notice) + "\n" + m.viewport.View()
}

// HomeMarkdown is the home page source.
func HomeMarkdown() string {
	var sb strings.Builder
	sb.WriteString("# Bem-vindo à Nossa Loja Online\n\n")
	sb.WriteString("Descubra os melhores produtos em tecnologia geek, saúde e muito mais. ")
	sb.WriteString("Compre com segurança e receba em casa!\n\n")
	sb.WriteString("Pressione **2** para ver os produtos.\n\n")

	sb.WriteString("## Nossas Categorias\n\n")
	keys := map[catalog.Category]string{
		catalog.CategoryGeeks:    "g",
		catalog.CategoryGelDor:   "d",
		catalog.CategoryDiversos: "v",
	}
	for _, c := range catalog.Categories() {
		fmt.Fprintf(&sb, "- **%s** (`%s`): %s\n", c.Name, keys[c.ID], c.Description)
	}

	sb.WriteString("\n## Por que comprar conosco\n\n")
	sb.WriteString("- **Entrega Rápida**: receba seus produtos em até 3 dias úteis\n")
	sb.WriteString("- **Pagamento Seguro**: múltiplas formas de pagamento disponíveis\n")
	sb.WriteString("- **Garantia Total**: 7 dias para trocar ou devolver\n")
	return sb.String()
}
