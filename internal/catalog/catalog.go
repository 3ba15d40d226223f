// Package catalog holds the static mapping from internal product keys to
// Stripe price identifiers and display metadata. Price amounts live here for
// cart display and reconciliation only; the amount Stripe charges always
// comes from the price identifier, never from the client.
package catalog

import (
	"github.com/shopspring/decimal"
)

const placeholderPriceID = "price_XXXX"

type Product struct {
	Key         string
	Title       string
	Description string
	PriceID     string
	UnitAmount  int64 // minor units (cents)
	Currency    string
}

// Price returns the display price in major units, e.g. 1599 -> 15.99.
func (p Product) Price() decimal.Decimal {
	return decimal.New(p.UnitAmount, -2)
}

// Configured reports whether the product can be sent to checkout. Keys left
// on the placeholder price ID must never reach a session request.
func (p Product) Configured() bool {
	return p.PriceID != "" && p.PriceID != placeholderPriceID
}

type Catalog struct {
	products map[string]Product
}

func New(products ...Product) *Catalog {
	m := make(map[string]Product, len(products))
	for _, p := range products {
		m[p.Key] = p
	}
	return &Catalog{products: m}
}

func (c *Catalog) Lookup(key string) (Product, bool) {
	p, ok := c.products[key]
	return p, ok
}

func (c *Catalog) Len() int {
	return len(c.products)
}

// PriceIDs returns the price identifiers of every configured product. The
// checkout allowlist must always cover these: a catalog the server itself
// sells from can never be rejected.
func (c *Catalog) PriceIDs() []string {
	ids := make([]string, 0, len(c.products))
	for _, p := range c.products {
		if p.Configured() {
			ids = append(ids, p.PriceID)
		}
	}
	return ids
}

// Default is the preorder catalog: the two deck editions sold on the
// storefront.
func Default() *Catalog {
	return New(
		Product{
			Key:         "standard",
			Title:       "Karu Deck - Standard Edition",
			Description: "100+ cartes anime, design exclusif, boîte de rangement",
			PriceID:     "price_1S1wLUAZn1zIIHOSDPcy58fB",
			UnitAmount:  1599,
			Currency:    "eur",
		},
		Product{
			Key:         "competition",
			Title:       "Karu Deck - Compétition Edition",
			Description: "100+ cartes anime, boîte collector magnétique, cartes exclusives limitées",
			PriceID:     "price_1S1zLAAZn1zIIHOSWMOpUPpZ",
			UnitAmount:  2500,
			Currency:    "eur",
		},
	)
}
