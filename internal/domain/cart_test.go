package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddMergesByProductKey(t *testing.T) {
	cart := NewCart("cart-1")

	item := CartItem{ProductKey: "standard", UnitPrice: decimal.New(1599, -2), Quantity: 1}
	cart.Apply(Mutation{Kind: MutationAdd, Item: &item})
	cart.Apply(Mutation{Kind: MutationAdd, Item: &item})

	require.Len(t, cart.Items, 1, "productKey is unique per cart")
	assert.Equal(t, int64(2), cart.Items[0].Quantity)
}

func TestCart_UpdateToZeroRemoves(t *testing.T) {
	cart := NewCart("cart-1")
	cart.Apply(Mutation{Kind: MutationAdd, Item: &CartItem{ProductKey: "standard", Quantity: 3}})

	cart.Apply(Mutation{Kind: MutationUpdate, ProductKey: "standard", Quantity: 0})

	assert.True(t, cart.IsEmpty(), "zero quantity must remove the item")
}

func TestCart_UpdateSetsAbsoluteQuantity(t *testing.T) {
	cart := NewCart("cart-1")
	cart.Apply(Mutation{Kind: MutationAdd, Item: &CartItem{ProductKey: "standard", Quantity: 1}})

	cart.Apply(Mutation{Kind: MutationUpdate, ProductKey: "standard", Quantity: 5})

	assert.Equal(t, int64(5), cart.Items[0].Quantity)
}

func TestCart_RemoveAndClear(t *testing.T) {
	cart := NewCart("cart-1")
	cart.Apply(Mutation{Kind: MutationAdd, Item: &CartItem{ProductKey: "standard", Quantity: 1}})
	cart.Apply(Mutation{Kind: MutationAdd, Item: &CartItem{ProductKey: "competition", Quantity: 2}})

	cart.Apply(Mutation{Kind: MutationRemove, ProductKey: "standard"})
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "competition", cart.Items[0].ProductKey)

	cart.Apply(Mutation{Kind: MutationClear})
	assert.True(t, cart.IsEmpty())
}

func TestCart_TotalIsDerived(t *testing.T) {
	cart := NewCart("cart-1")
	cart.Apply(Mutation{Kind: MutationAdd, Item: &CartItem{ProductKey: "standard", UnitPrice: decimal.New(1599, -2), Quantity: 1}})
	cart.Apply(Mutation{Kind: MutationAdd, Item: &CartItem{ProductKey: "competition", UnitPrice: decimal.New(2500, -2), Quantity: 2}})

	assert.Equal(t, "65.99", cart.Total().StringFixed(2))

	cart.Apply(Mutation{Kind: MutationRemove, ProductKey: "competition"})
	assert.Equal(t, "15.99", cart.Total().StringFixed(2))
}

func TestCart_LogIsAppendOnly(t *testing.T) {
	cart := NewCart("cart-1")
	cart.Apply(Mutation{Kind: MutationAdd, Item: &CartItem{ProductKey: "standard", Quantity: 1}})
	cart.Apply(Mutation{Kind: MutationUpdate, ProductKey: "standard", Quantity: 2})
	cart.Apply(Mutation{Kind: MutationClear})

	require.Len(t, cart.Log, 3)
	assert.Equal(t, MutationAdd, cart.Log[0].Kind)
	assert.Equal(t, MutationUpdate, cart.Log[1].Kind)
	assert.Equal(t, MutationClear, cart.Log[2].Kind)
	for _, m := range cart.Log {
		assert.False(t, m.At.IsZero())
	}
}
