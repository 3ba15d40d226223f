package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is the aggregate behind the storefront's client-side cart. Items are
// keyed by ProductKey (unique per cart); every change goes through Apply so
// the mutation log stays append-only and the total stays a derived value.
type Cart struct {
	ID        string     `json:"id"`
	Items     []CartItem `json:"items"`
	Log       []Mutation `json:"log"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CartItem struct {
	ProductKey string          `json:"product_key"`
	PriceID    string          `json:"price_id,omitempty"`
	Title      string          `json:"title,omitempty"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int64           `json:"quantity"`
	AddedAt    time.Time       `json:"added_at"`
}

type MutationKind string

const (
	MutationAdd    MutationKind = "add"
	MutationUpdate MutationKind = "update"
	MutationRemove MutationKind = "remove"
	MutationClear  MutationKind = "clear"
)

type Mutation struct {
	Kind       MutationKind `json:"kind"`
	ProductKey string       `json:"product_key,omitempty"`
	Quantity   int64        `json:"quantity,omitempty"`
	Item       *CartItem    `json:"item,omitempty"`
	At         time.Time    `json:"at"`
}

func NewCart(id string) *Cart {
	now := time.Now().UTC()
	return &Cart{ID: id, CreatedAt: now, UpdatedAt: now}
}

// Apply mutates the item list and records the mutation. A quantity update to
// zero or below removes the item, so persisted quantities are always >= 1.
func (c *Cart) Apply(m Mutation) {
	if m.At.IsZero() {
		m.At = time.Now().UTC()
	}

	switch m.Kind {
	case MutationAdd:
		if m.Item == nil {
			return
		}
		if existing := c.find(m.Item.ProductKey); existing != nil {
			existing.Quantity += m.Item.Quantity
		} else {
			item := *m.Item
			if item.AddedAt.IsZero() {
				item.AddedAt = m.At
			}
			c.Items = append(c.Items, item)
		}
	case MutationUpdate:
		if m.Quantity <= 0 {
			c.remove(m.ProductKey)
		} else if existing := c.find(m.ProductKey); existing != nil {
			existing.Quantity = m.Quantity
		}
	case MutationRemove:
		c.remove(m.ProductKey)
	case MutationClear:
		c.Items = nil
	}

	c.Log = append(c.Log, m)
	c.UpdatedAt = m.At
}

// Total is the derived projection over the current items.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(item.Quantity)))
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) find(productKey string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductKey == productKey {
			return &c.Items[i]
		}
	}
	return nil
}

func (c *Cart) remove(productKey string) {
	for i, item := range c.Items {
		if item.ProductKey == productKey {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}
