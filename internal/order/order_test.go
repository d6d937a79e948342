package order

import (
	"encoding/json"
	"errors"
	"testing"

	"loja/internal/cart"
	"loja/internal/catalog"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCustomer() CustomerInfo {
	return CustomerInfo{
		Name:    "Maria Silva",
		Email:   "maria@example.com",
		Phone:   "(11) 99999-0000",
		Address: "Rua A, 10, Centro, São Paulo, 01000-000",
	}
}

func filledCart() *cart.Store {
	s := cart.NewStore()
	s.Add(catalog.Product{ID: "p1", Name: "Camiseta Star Wars", Price: decimal.RequireFromString("45.99"), InStock: true}, 2)
	s.Add(catalog.Product{ID: "p2", Name: "Gel Anti-inflamatório 60g", Price: decimal.RequireFromString("18.99"), InStock: true}, 1)
	return s
}

func TestCustomerInfo_Validate(t *testing.T) {
	require.NoError(t, validCustomer().Validate())

	err := CustomerInfo{Email: "not-an-email"}.Validate()
	require.Error(t, err)

	var fields []string
	for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
		var ve *ValidationError
		require.True(t, errors.As(e, &ve))
		fields = append(fields, ve.Field)
	}
	assert.Equal(t, []string{"name", "phone", "address", "email"}, fields)
}

func TestCustomerInfo_BlankIsMissing(t *testing.T) {
	c := validCustomer()
	c.Address = "   "
	var ve *ValidationError
	require.True(t, errors.As(c.Validate(), &ve))
	assert.Equal(t, "address", ve.Field)
}

func TestNew_EmptyCart(t *testing.T) {
	_, err := New(validCustomer(), cart.NewStore().Snapshot())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestNew_InvalidCustomer(t *testing.T) {
	_, err := New(CustomerInfo{}, filledCart().Snapshot())
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestNew_SnapshotIsDetachedFromCart(t *testing.T) {
	s := filledCart()
	o, err := New(validCustomer(), s.Snapshot())
	require.NoError(t, err)

	s.Clear()

	require.Len(t, o.Items(), 2)
	assert.Equal(t, "110.97", o.Total().StringFixed(2))
}

func TestOrder_MarshalJSON(t *testing.T) {
	c := validCustomer()
	c.Name = "  Maria Silva "
	o, err := New(c, filledCart().Snapshot())
	require.NoError(t, err)

	data, err := json.Marshal(o)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))

	want := map[string]any{
		"customer_name":    "Maria Silva",
		"customer_email":   "maria@example.com",
		"customer_phone":   "(11) 99999-0000",
		"customer_address": "Rua A, 10, Centro, São Paulo, 01000-000",
		"items": []any{
			map[string]any{"product_id": "p1", "product_name": "Camiseta Star Wars", "price": 45.99, "quantity": float64(2)},
			map[string]any{"product_id": "p2", "product_name": "Gel Anti-inflamatório 60g", "price": 18.99, "quantity": float64(1)},
		},
		"total": 110.97,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order body mismatch (-want +got):\n%s", diff)
	}
}

func TestNew_EmailSentAsBareAddress(t *testing.T) {
	c := validCustomer()
	c.Email = " Ana <ana@example.com> "
	o, err := New(c, filledCart().Snapshot())
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", o.Customer().Email)

	data, err := json.Marshal(o)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"customer_email":"ana@example.com"`)
}

func TestOrder_KeyAndSameAs(t *testing.T) {
	s := filledCart()
	first, err := New(validCustomer(), s.Snapshot())
	require.NoError(t, err)
	again, err := New(validCustomer(), s.Snapshot())
	require.NoError(t, err)

	assert.NotEmpty(t, first.Key())
	assert.NotEqual(t, first.Key(), again.Key())
	assert.True(t, again.SameAs(first))
	assert.False(t, again.SameAs(nil))

	s.AddOne(catalog.Product{ID: "p1", Name: "Camiseta Star Wars", Price: decimal.RequireFromString("45.99"), InStock: true})
	more, err := New(validCustomer(), s.Snapshot())
	require.NoError(t, err)
	assert.False(t, more.SameAs(first))

	c := validCustomer()
	c.Phone = "(21) 98888-0000"
	other, err := New(c, filledCart().Snapshot())
	require.NoError(t, err)
	assert.False(t, other.SameAs(first))
}

func TestConfirmation_Decode(t *testing.T) {
	raw := `{"id":"o-1","customer_name":"Maria","items":[{"product_id":"p1","product_name":"X","price":45.99,"quantity":2}],"total":91.98,"status":"pending","created_at":"2025-07-28T12:00:00.123000"}`
	var c Confirmation
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	assert.Equal(t, "o-1", c.ID)
	assert.Equal(t, "pending", c.Status)
	assert.Equal(t, "91.98", c.Total.StringFixed(2))
	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)
}
