package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"loja/internal/cart"
	"loja/internal/catalog"
	"loja/internal/logging"
	"loja/internal/order"
	"loja/internal/router"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

// CheckoutState is the checkout flow state.
type CheckoutState int

const (
	CheckoutEditing CheckoutState = iota
	CheckoutSubmitting
	CheckoutComplete
	// CheckoutFailed is editing with a blocking error notice on top.
	CheckoutFailed
)

func (s CheckoutState) String() string {
	switch s {
	case CheckoutEditing:
		return "editing"
	case CheckoutSubmitting:
		return "submitting"
	case CheckoutComplete:
		return "complete"
	case CheckoutFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Checkout copy.
const (
	EmptyCartAlert    = "Seu carrinho está vazio!"
	OrderFailedAlert  = "Erro ao finalizar pedido. Tente novamente."
	OrderSuccessTitle = "Pedido Realizado com Sucesso!"
	EmptyCartTitle    = "Seu carrinho está vazio"
	EmptyCartSubtitle = "Adicione alguns produtos para continuar"
)

const (
	fieldName = iota
	fieldEmail
	fieldPhone
	fieldAddress
	fieldSubmit
	fieldCount
)

var fieldKeys = [...]string{"name", "email", "phone", "address"}

// CartPageModel is the cart listing plus the checkout form.
type CartPageModel struct {
	width  int
	height int

	store   *cart.Store
	submit  OrderSubmitter
	timeout time.Duration

	cursor    int
	focusForm bool
	focus     int

	inputs  [3]textinput.Model
	address textarea.Model

	state        CheckoutState
	fieldErrs    map[string]string
	notice       string
	confirmation *order.Confirmation
	// pending is the last order that failed to submit. Resubmitting the same
	// purchase reuses it so the idempotency key stays stable.
	pending *order.Order

	help     help.Model
	cartKeys cartKeys
	formKeys formKeys
	styles   Styles
}

// NewCartPage creates the cart page.
func NewCartPage(store *cart.Store, submit OrderSubmitter, styles Styles) CartPageModel {
	m := CartPageModel{
		store:     store,
		submit:    submit,
		timeout:   15 * time.Second,
		fieldErrs: map[string]string{},
		help:      NewHelp(styles),
		cartKeys:  newCartKeys(),
		formKeys:  newFormKeys(),
		styles:    styles,
	}

	placeholders := [3]string{"Nome Completo", "voce@exemplo.com", "(11) 99999-9999"}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 120
		ti.Width = 40
		m.inputs[i] = ti
	}

	ta := textarea.New()
	ta.Placeholder = "Rua, número, bairro, cidade, CEP"
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(44)
	m.address = ta

	return m
}

// State reports the checkout state.
func (m CartPageModel) State() CheckoutState { return m.state }

// Confirmation is the last created order, if any.
func (m CartPageModel) Confirmation() *order.Confirmation { return m.confirmation }

// FieldErrors returns the inline validation errors keyed by field.
func (m CartPageModel) FieldErrors() map[string]string { return m.fieldErrs }

// Notice is the current non-blocking notice line.
func (m CartPageModel) Notice() string { return m.notice }

// SetSubmitter swaps the backend, e.g. after a config reload.
func (m *CartPageModel) SetSubmitter(s OrderSubmitter) { m.submit = s }

// SetTimeout sets the submission deadline.
func (m *CartPageModel) SetTimeout(d time.Duration) { m.timeout = d }

// SetStyles applies a new theme.
func (m *CartPageModel) SetStyles(s Styles) {
	m.styles = s
	m.help = NewHelp(s)
}

// SetSize sets the dimensions of the page.
func (m *CartPageModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	fieldW := w/2 - 8
	if fieldW < 20 {
		fieldW = 20
	}
	for i := range m.inputs {
		m.inputs[i].Width = fieldW
	}
	m.address.SetWidth(fieldW + 4)
}

// Capturing reports whether keys should bypass global navigation.
func (m CartPageModel) Capturing() bool {
	return m.state == CheckoutFailed || (m.focusForm && m.state == CheckoutEditing)
}

// Activate is called when the page becomes current. A finished order is
// left behind so the cart starts fresh.
func (m *CartPageModel) Activate() tea.Cmd {
	if m.state == CheckoutComplete {
		m.state = CheckoutEditing
		m.confirmation = nil
	}
	m.notice = ""
	m.clampCursor()
	return nil
}

// SetCustomer fills the form fields.
func (m *CartPageModel) SetCustomer(c order.CustomerInfo) {
	m.inputs[fieldName].SetValue(c.Name)
	m.inputs[fieldEmail].SetValue(c.Email)
	m.inputs[fieldPhone].SetValue(c.Phone)
	m.address.SetValue(c.Address)
}

// Customer reads the form fields.
func (m CartPageModel) Customer() order.CustomerInfo {
	return order.CustomerInfo{
		Name:    m.inputs[fieldName].Value(),
		Email:   m.inputs[fieldEmail].Value(),
		Phone:   m.inputs[fieldPhone].Value(),
		Address: m.address.Value(),
	}
}

// Init initializes the model.
func (m CartPageModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m CartPageModel) Update(msg tea.Msg) (CartPageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case OrderSubmittedMsg:
		return m.handleSubmitted(msg)

	case tea.KeyMsg:
		switch m.state {
		case CheckoutSubmitting:
			return m, nil
		case CheckoutFailed:
			if msg.Type == tea.KeyEnter || msg.Type == tea.KeyEsc {
				m.state = CheckoutEditing
				m.notice = ""
				return m, m.focusField(m.focus)
			}
			return m, nil
		case CheckoutComplete:
			return m.updateComplete(msg)
		}

		if m.store.Len() == 0 {
			m.focusForm = false
			if key.Matches(msg, m.formKeys.Submit) {
				return m.trySubmit()
			}
			return m, nil
		}
		if m.focusForm {
			return m.updateForm(msg)
		}
		return m.updateItems(msg)
	}

	if m.focusForm && m.state == CheckoutEditing {
		return m.updateFocused(msg)
	}
	return m, nil
}

func (m CartPageModel) updateItems(msg tea.KeyMsg) (CartPageModel, tea.Cmd) {
	items := m.store.Items()
	m.clampCursor()

	switch {
	case key.Matches(msg, m.cartKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.cartKeys.Down):
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.cartKeys.Inc):
		m.store.Increment(items[m.cursor].ID, 1)
	case key.Matches(msg, m.cartKeys.Dec):
		m.store.Increment(items[m.cursor].ID, -1)
	case key.Matches(msg, m.cartKeys.Remove):
		m.store.Remove(items[m.cursor].ID)
	case key.Matches(msg, m.cartKeys.Checkout):
		m.focusForm = true
		return m, m.focusField(fieldName)
	}
	m.clampCursor()
	return m, nil
}

func (m CartPageModel) updateForm(msg tea.KeyMsg) (CartPageModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.formKeys.Leave):
		m.blurAll()
		m.focusForm = false
		return m, nil
	case key.Matches(msg, m.formKeys.Submit):
		return m.trySubmit()
	case msg.Type == tea.KeyEnter && m.focus == fieldSubmit:
		return m.trySubmit()
	case msg.Type == tea.KeyEnter && m.focus < fieldAddress:
		return m, m.focusField(m.focus + 1)
	case key.Matches(msg, m.formKeys.Next):
		// Arrows move the cursor inside the address box.
		if m.focus == fieldAddress && msg.Type == tea.KeyDown {
			break
		}
		return m, m.focusField((m.focus + 1) % fieldCount)
	case key.Matches(msg, m.formKeys.Prev):
		if m.focus == fieldAddress && msg.Type == tea.KeyUp {
			break
		}
		return m, m.focusField((m.focus + fieldCount - 1) % fieldCount)
	}
	return m.updateFocused(msg)
}

func (m CartPageModel) updateFocused(msg tea.Msg) (CartPageModel, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.focus < len(m.inputs):
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		delete(m.fieldErrs, fieldKeys[m.focus])
	case m.focus == fieldAddress:
		m.address, cmd = m.address.Update(msg)
		delete(m.fieldErrs, fieldKeys[fieldAddress])
	}
	return m, cmd
}

func (m CartPageModel) updateComplete(msg tea.KeyMsg) (CartPageModel, tea.Cmd) {
	switch msg.String() {
	case "c", "y":
		if m.confirmation == nil {
			return m, nil
		}
		if err := clipboardWriteAll(m.confirmation.ID); err != nil {
			m.notice = m.styles.Error.Render("Não foi possível copiar o número do pedido")
		} else {
			m.notice = m.styles.Success.Render("Número do pedido copiado!")
		}
	case "enter":
		return m, Navigate(router.Home)
	}
	return m, nil
}

func (m *CartPageModel) focusField(i int) tea.Cmd {
	m.blurAll()
	m.focus = i
	switch {
	case i < len(m.inputs):
		return m.inputs[i].Focus()
	case i == fieldAddress:
		return m.address.Focus()
	}
	return nil
}

func (m *CartPageModel) blurAll() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.address.Blur()
}

func (m *CartPageModel) clampCursor() {
	n := m.store.Len()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m CartPageModel) trySubmit() (CartPageModel, tea.Cmd) {
	m.fieldErrs = map[string]string{}
	m.notice = ""

	o, err := order.New(m.Customer(), m.store.Snapshot())
	if errors.Is(err, order.ErrEmptyCart) {
		m.notice = EmptyCartAlert
		return m, nil
	}
	if err != nil {
		m.fieldErrs = fieldErrors(err)
		logging.Get(logging.CategoryCheckout).Debug("checkout form rejected: %v", err)
		return m, nil
	}

	if o.SameAs(m.pending) {
		o = m.pending
	}
	m.pending = o

	m.state = CheckoutSubmitting
	m.blurAll()
	logging.Get(logging.CategoryCheckout).With("order_key", o.Key()).
		Info("submitting order: %d items, total %s", len(o.Items()), o.Total().StringFixed(2))
	return m, submitCmd(m.submit, o, m.timeout)
}

func submitCmd(s OrderSubmitter, o *order.Order, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		conf, err := s.SubmitOrder(ctx, o)
		return OrderSubmittedMsg{Confirmation: conf, Err: err}
	}
}

func (m CartPageModel) handleSubmitted(msg OrderSubmittedMsg) (CartPageModel, tea.Cmd) {
	if m.state != CheckoutSubmitting {
		return m, nil
	}
	err := msg.Err
	if err == nil && msg.Confirmation == nil {
		err = errors.New("backend returned no order")
	}
	if err != nil {
		// The cart is left untouched so the customer can retry.
		logging.Get(logging.CategoryCheckout).Error("order submission failed: %v", err)
		m.state = CheckoutFailed
		m.notice = OrderFailedAlert
		return m, nil
	}

	logging.Checkout("order created: %s", msg.Confirmation.ID)
	m.pending = nil
	m.state = CheckoutComplete
	m.confirmation = msg.Confirmation
	m.notice = ""
	m.focusForm = false
	m.focus = fieldName
	m.SetCustomer(order.CustomerInfo{})
	m.store.Clear()
	m.cursor = 0
	return m, nil
}

// fieldErrors flattens joined ValidationErrors into a field → reason map.
func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	var walk func(error)
	walk = func(e error) {
		if joined, ok := e.(interface{ Unwrap() []error }); ok {
			for _, inner := range joined.Unwrap() {
				walk(inner)
			}
			return
		}
		var ve *order.ValidationError
		if errors.As(e, &ve) {
			if _, seen := out[ve.Field]; !seen {
				out[ve.Field] = ve.Reason
			}
		}
	}
	walk(err)
	return out
}

// View renders the page.
func (m CartPageModel) View() string {
	if m.state == CheckoutComplete {
		return m.viewComplete()
	}

	title := m.styles.Title.Render("Seu Carrinho")

	if m.store.Len() == 0 {
		body := lipgloss.JoinVertical(lipgloss.Center,
			"🛒",
			m.styles.Bold.Render(EmptyCartTitle),
			m.styles.Muted.Render(EmptyCartSubtitle),
			"",
			m.styles.Info.Render("Pressione 2 para ver os produtos"),
		)
		if m.notice != "" {
			body += "\n\n" + m.styles.Warning.Render(m.notice)
		}
		return lipgloss.JoinVertical(lipgloss.Left, title, m.styles.Card.Render(body))
	}

	left := m.viewItems()
	right := m.viewForm()
	var content string
	if m.width > 0 && m.width < CompactModeWidth {
		content = lipgloss.JoinVertical(lipgloss.Left, left, right)
	} else {
		content = lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
	}

	sections := []string{title, content}
	switch {
	case m.state == CheckoutFailed:
		sections = append(sections, m.styles.Modal.Render(
			m.styles.Error.Render(m.notice)+"\n\n"+m.styles.Muted.Render("Pressione enter para continuar"),
		))
	case m.state == CheckoutSubmitting:
		sections = append(sections, m.styles.Info.Render("Enviando pedido..."))
	case m.notice != "":
		sections = append(sections, m.styles.Warning.Render(m.notice))
	}

	if m.focusForm {
		sections = append(sections, m.help.View(m.formKeys))
	} else {
		sections = append(sections, m.help.View(m.cartKeys))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m CartPageModel) viewItems() string {
	table := NewSimpleTable("Itens do Carrinho", "Produto", "Preço", "Qtd", "Subtotal").AlignRight(1, 2, 3)
	for _, it := range m.store.Items() {
		table.AddRow(it.Name, catalog.FormatPrice(it.Price), strconv.Itoa(it.Quantity), catalog.FormatPrice(it.Subtotal()))
	}
	table.Footer = []string{"Total:", "", "", catalog.FormatPrice(m.store.Total())}
	if !m.focusForm {
		table.Highlight = m.cursor
	}
	return m.styles.Card.Render(strings.TrimRight(table.View(m.styles), "\n"))
}

func (m CartPageModel) viewForm() string {
	labels := [...]string{"Nome Completo *", "E-mail *", "Telefone *", "Endereço Completo *"}

	var sb strings.Builder
	sb.WriteString(m.styles.Bold.Render("Dados para Entrega"))
	sb.WriteString("\n\n")

	for i := 0; i < fieldSubmit; i++ {
		sb.WriteString(m.styles.Muted.Render(labels[i]))
		sb.WriteString("\n")

		var field string
		if i < len(m.inputs) {
			field = m.inputs[i].View()
		} else {
			field = m.address.View()
		}
		box := m.styles.Field
		if m.focusForm && m.focus == i {
			box = m.styles.FieldFocus
		}
		sb.WriteString(box.Render(field))
		sb.WriteString("\n")

		if reason, ok := m.fieldErrs[fieldKeys[i]]; ok {
			sb.WriteString(m.styles.Error.Render(reason))
			sb.WriteString("\n")
		}
	}

	button := fmt.Sprintf("Finalizar Pedido - %s", catalog.FormatPrice(m.store.Total()))
	if m.focusForm && m.focus == fieldSubmit {
		sb.WriteString(m.styles.TabActive.Render("▶ " + button))
	} else {
		sb.WriteString(m.styles.Success.Render(button))
	}

	return m.styles.Card.Render(sb.String())
}

func (m CartPageModel) viewComplete() string {
	var sb strings.Builder
	sb.WriteString("✅\n")
	sb.WriteString(m.styles.Success.Render(OrderSuccessTitle))
	sb.WriteString("\n\n")
	sb.WriteString(m.styles.Body.Render("Obrigado por sua compra! Você receberá um e-mail de confirmação em breve."))
	sb.WriteString("\n\n")

	if c := m.confirmation; c != nil {
		sb.WriteString(m.styles.Bold.Render("Pedido: "))
		sb.WriteString(c.ID)
		sb.WriteString("\n")
		if c.Status != "" {
			sb.WriteString(m.styles.Muted.Render("Status: " + c.Status))
			sb.WriteString("\n")
		}
		if c.CreatedAt != "" {
			sb.WriteString(m.styles.Muted.Render("Criado em: " + c.CreatedAt))
			sb.WriteString("\n")
		}
		sb.WriteString(m.styles.Price.Render("Total: " + catalog.FormatPrice(c.Total)))
		sb.WriteString("\n\n")
	}

	sb.WriteString(m.styles.Info.Render("enter: voltar à loja · c: copiar número do pedido"))
	if m.notice != "" {
		sb.WriteString("\n")
		sb.WriteString(m.notice)
	}
	return m.styles.Card.Render(sb.String())
}
