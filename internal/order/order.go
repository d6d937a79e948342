// Package order builds the immutable order snapshot submitted at checkout.
package order

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"loja/internal/cart"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrEmptyCart is returned when checkout is attempted with nothing in the cart.
var ErrEmptyCart = errors.New("cart is empty")

// ValidationError reports a missing or malformed checkout field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// CustomerInfo is the delivery form. It lives only until submission.
type CustomerInfo struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// Validate checks the required-field constraints of the checkout form. All
// failures are returned joined.
func (c CustomerInfo) Validate() error {
	var errs []error
	required := []struct {
		field, value string
	}{
		{"name", c.Name},
		{"email", c.Email},
		{"phone", c.Phone},
		{"address", c.Address},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, &ValidationError{Field: r.field, Reason: "campo obrigatório"})
		}
	}
	if strings.TrimSpace(c.Email) != "" {
		if _, err := mail.ParseAddress(strings.TrimSpace(c.Email)); err != nil {
			errs = append(errs, &ValidationError{Field: "email", Reason: "e-mail inválido"})
		}
	}
	return errors.Join(errs...)
}

// Item is one line of the order snapshot.
type Item struct {
	ProductID   string
	ProductName string
	Price       decimal.Decimal
	Quantity    int
}

// Order is an immutable snapshot of the cart plus delivery details.
type Order struct {
	key      string
	customer CustomerInfo
	items    []Item
	total    decimal.Decimal
}

// New validates the customer data and snapshots the cart into an order.
func New(customer CustomerInfo, snap cart.Snapshot) (*Order, error) {
	if snap.Empty() {
		return nil, ErrEmptyCart
	}
	if err := customer.Validate(); err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(snap.Items))
	for _, it := range snap.Items {
		items = append(items, Item{
			ProductID:   it.ID,
			ProductName: it.Name,
			Price:       it.Price,
			Quantity:    it.Quantity,
		})
	}
	return &Order{
		key:      uuid.NewString(),
		customer: normalized(customer),
		items:    items,
		total:    snap.Total,
	}, nil
}

// normalized trims every field and reduces the e-mail to its bare address,
// so "Ana <ana@x.com>" is sent as "ana@x.com". c must already be valid.
func normalized(c CustomerInfo) CustomerInfo {
	out := CustomerInfo{
		Name:    strings.TrimSpace(c.Name),
		Email:   strings.TrimSpace(c.Email),
		Phone:   strings.TrimSpace(c.Phone),
		Address: strings.TrimSpace(c.Address),
	}
	if addr, err := mail.ParseAddress(out.Email); err == nil {
		out.Email = addr.Address
	}
	return out
}

// Key is the idempotency key sent with every submission of this order.
func (o *Order) Key() string { return o.key }

// SameAs reports whether o and other describe the same purchase: same
// customer details and the same lines. Keys are ignored.
func (o *Order) SameAs(other *Order) bool {
	if other == nil || o.customer != other.customer || len(o.items) != len(other.items) {
		return false
	}
	for i, it := range o.items {
		ot := other.items[i]
		if it.ProductID != ot.ProductID || it.Quantity != ot.Quantity || !it.Price.Equal(ot.Price) {
			return false
		}
	}
	return o.total.Equal(other.total)
}

// Customer returns the delivery details.
func (o *Order) Customer() CustomerInfo { return o.customer }

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	out := make([]Item, len(o.items))
	copy(out, o.items)
	return out
}

// Total is the cart total at the time the order was built.
func (o *Order) Total() decimal.Decimal { return o.total }

type wireItem struct {
	ProductID   string      `json:"product_id"`
	ProductName string      `json:"product_name"`
	Price       json.Number `json:"price"`
	Quantity    int         `json:"quantity"`
}

type wireOrder struct {
	CustomerName    string      `json:"customer_name"`
	CustomerEmail   string      `json:"customer_email"`
	CustomerPhone   string      `json:"customer_phone"`
	CustomerAddress string      `json:"customer_address"`
	Items           []wireItem  `json:"items"`
	Total           json.Number `json:"total"`
}

// MarshalJSON encodes the body of POST /api/orders. Money goes out as JSON
// numbers with two decimal places.
func (o *Order) MarshalJSON() ([]byte, error) {
	w := wireOrder{
		CustomerName:    o.customer.Name,
		CustomerEmail:   o.customer.Email,
		CustomerPhone:   o.customer.Phone,
		CustomerAddress: o.customer.Address,
		Items:           make([]wireItem, 0, len(o.items)),
		Total:           json.Number(o.total.StringFixed(2)),
	}
	for _, it := range o.items {
		w.Items = append(w.Items, wireItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Price:       json.Number(it.Price.StringFixed(2)),
			Quantity:    it.Quantity,
		})
	}
	return json.Marshal(w)
}

// ConfirmationItem is an order line echoed back by the backend.
type ConfirmationItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// Confirmation is the created order returned by the backend.
type Confirmation struct {
	ID              string             `json:"id"`
	CustomerName    string             `json:"customer_name"`
	CustomerEmail   string             `json:"customer_email"`
	CustomerPhone   string             `json:"customer_phone"`
	CustomerAddress string             `json:"customer_address"`
	Items           []ConfirmationItem `json:"items"`
	Total           decimal.Decimal    `json:"total"`
	Status          string             `json:"status"`
	// CreatedAt is kept verbatim; the backend emits naive timestamps.
	CreatedAt string `json:"created_at"`
}
