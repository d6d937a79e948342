package cart

import (
	"testing"

	"loja/internal/catalog"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func product(id, price string) catalog.Product {
	return catalog.Product{
		ID:       id,
		Name:     "Produto " + id,
		Price:    decimal.RequireFromString(price),
		Category: catalog.CategoryGeeks,
		InStock:  true,
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestStore_Empty(t *testing.T) {
	s := NewStore()
	assert.True(t, s.Total().IsZero())
	assert.Equal(t, 0, s.ItemCount())
	assert.Equal(t, 0, s.Len())
	assert.True(t, s.Snapshot().Empty())
}

func TestStore_AddMergesRepeatedAdds(t *testing.T) {
	s := NewStore()
	p := product("1", "10.00")

	s.Add(p, 2)
	s.Add(p, 3)

	require.Equal(t, 1, s.Len())
	item, ok := s.Get("1")
	require.True(t, ok)
	assert.Equal(t, 5, item.Quantity)
	assert.True(t, s.Total().Equal(dec("50.00")), "total = %s", s.Total())
}

func TestStore_AddAccumulatesAnySequence(t *testing.T) {
	sequences := [][]int{
		{1},
		{1, 1, 1},
		{4, 2, 7, 1},
		{10, 0, 3},
	}
	for _, seq := range sequences {
		s := NewStore()
		p := product("x", "1.25")
		want := 0
		for _, q := range seq {
			s.Add(p, q)
			if q > 0 {
				want += q
			}
		}
		require.Equal(t, 1, s.Len(), "seq %v", seq)
		item, _ := s.Get("x")
		assert.Equal(t, want, item.Quantity, "seq %v", seq)
	}
}

func TestStore_AddKeepsInsertionOrder(t *testing.T) {
	s := NewStore()
	s.AddOne(product("b", "1"))
	s.AddOne(product("a", "1"))
	s.AddOne(product("c", "1"))
	s.AddOne(product("a", "1"))

	var ids []string
	for _, it := range s.Items() {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []string{"b", "a", "c"}, ids)
}

func TestStore_AddIgnoresNonPositiveQuantity(t *testing.T) {
	s := NewStore()
	s.Add(product("1", "10.00"), 0)
	s.Add(product("1", "10.00"), -4)
	assert.Equal(t, 0, s.Len())

	s.Add(product("1", "10.00"), 2)
	s.Add(product("1", "10.00"), -1)
	item, _ := s.Get("1")
	assert.Equal(t, 2, item.Quantity)
}

func TestStore_RemoveAbsentIsNoop(t *testing.T) {
	s := NewStore()
	s.AddOne(product("1", "3.00"))
	s.Remove("missing")
	assert.Equal(t, 1, s.Len())
}

func TestStore_SetQuantityZeroEqualsRemove(t *testing.T) {
	build := func() *Store {
		s := NewStore()
		s.Add(product("1", "10.00"), 1)
		s.Add(product("2", "20.00"), 2)
		s.Add(product("3", "5.00"), 4)
		return s
	}

	a := build()
	a.SetQuantity("2", 0)
	b := build()
	b.Remove("2")

	assert.Equal(t, b.Items(), a.Items())
	assert.True(t, a.Total().Equal(b.Total()))
	assert.Equal(t, b.ItemCount(), a.ItemCount())
}

func TestStore_SetQuantityNegativeEmptiesCart(t *testing.T) {
	s := NewStore()
	s.Add(product("2", "5.50"), 1)
	s.SetQuantity("2", -1)

	assert.Equal(t, 0, s.Len())
	assert.True(t, s.Total().IsZero())
}

func TestStore_SetQuantityNeverInserts(t *testing.T) {
	s := NewStore()
	s.SetQuantity("ghost", 3)
	assert.Equal(t, 0, s.Len())
}

func TestStore_SetQuantityReplaces(t *testing.T) {
	s := NewStore()
	s.Add(product("1", "2.00"), 5)
	s.SetQuantity("1", 2)
	item, _ := s.Get("1")
	assert.Equal(t, 2, item.Quantity)
	assert.True(t, s.Total().Equal(dec("4.00")))
}

func TestStore_Increment(t *testing.T) {
	s := NewStore()
	s.AddOne(product("1", "2.00"))
	s.Increment("1", 1)
	item, _ := s.Get("1")
	assert.Equal(t, 2, item.Quantity)

	s.Increment("1", -2)
	assert.Equal(t, 0, s.Len())

	s.Increment("ghost", 1)
	assert.Equal(t, 0, s.Len())
}

func TestStore_TotalsAcrossItems(t *testing.T) {
	s := NewStore()
	s.Add(product("a", "10.00"), 1)
	s.Add(product("b", "20.00"), 2)

	assert.True(t, s.Total().Equal(dec("50.00")))
	assert.Equal(t, 3, s.ItemCount())
	assert.Equal(t, 2, s.Len())
}

func TestStore_TotalIsExactForCents(t *testing.T) {
	s := NewStore()
	s.Add(product("a", "0.10"), 3)
	s.Add(product("b", "45.99"), 2)
	assert.Equal(t, "92.28", s.Total().StringFixed(2))
}

func TestStore_ClearResetsTotals(t *testing.T) {
	s := NewStore()
	s.Add(product("a", "18.99"), 3)
	s.Add(product("b", "32.50"), 1)
	s.Clear()

	assert.True(t, s.Total().IsZero())
	assert.Equal(t, 0, s.ItemCount())

	s.Clear()
	assert.Equal(t, 0, s.Len())
}

func TestStore_ItemsReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Add(product("a", "1.00"), 1)
	items := s.Items()
	items[0].Quantity = 99

	item, _ := s.Get("a")
	assert.Equal(t, 1, item.Quantity)
}

func TestStore_SubscribersSeeCompleteState(t *testing.T) {
	s := NewStore()
	var seen []Snapshot
	s.Subscribe(func(snap Snapshot) {
		// The store must already reflect the mutation.
		assert.Equal(t, s.ItemCount(), snap.ItemCount)
		assert.True(t, s.Total().Equal(snap.Total))
		seen = append(seen, snap)
	})

	s.Add(product("1", "10.00"), 2)
	s.Add(product("1", "10.00"), 3)
	s.SetQuantity("1", 1)
	s.Remove("1")

	require.Len(t, seen, 4)
	assert.Equal(t, 2, seen[0].ItemCount)
	assert.Equal(t, 5, seen[1].ItemCount)
	assert.Equal(t, "50.00", seen[1].Total.StringFixed(2))
	assert.Equal(t, 1, seen[2].ItemCount)
	assert.True(t, seen[3].Empty())
}

func TestStore_NoNotificationWithoutChange(t *testing.T) {
	s := NewStore()
	calls := 0
	s.Subscribe(func(Snapshot) { calls++ })

	s.Remove("missing")
	s.SetQuantity("missing", 2)
	s.Add(product("1", "1.00"), 0)
	s.Clear()
	assert.Equal(t, 0, calls)

	s.AddOne(product("1", "1.00"))
	s.SetQuantity("1", 1)
	assert.Equal(t, 1, calls)
}

func TestStore_Unsubscribe(t *testing.T) {
	s := NewStore()
	var order []string
	unA := s.Subscribe(func(Snapshot) { order = append(order, "a") })
	s.Subscribe(func(Snapshot) { order = append(order, "b") })

	s.AddOne(product("1", "1.00"))
	unA()
	unA()
	s.AddOne(product("1", "1.00"))

	assert.Equal(t, []string{"a", "b", "b"}, order)
}

func TestStore_UnsubscribeDuringNotify(t *testing.T) {
	s := NewStore()
	calls := 0
	var un func()
	un = s.Subscribe(func(Snapshot) {
		calls++
		un()
	})
	s.AddOne(product("1", "1.00"))
	s.AddOne(product("1", "1.00"))
	assert.Equal(t, 1, calls)
}
