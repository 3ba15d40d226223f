package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedPriceSet(t *testing.T) {
	set := NewAllowedPriceSet([]string{"price_b", "price_a", "", "price_b"})

	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Contains("price_a"))
	assert.True(t, set.Contains("price_b"))
	assert.False(t, set.Contains("price_c"))
	assert.False(t, set.Contains(""))

	// Values is sorted and detached from internal state.
	values := set.Values()
	assert.Equal(t, []string{"price_a", "price_b"}, values)
	values[0] = "mutated"
	assert.Equal(t, []string{"price_a", "price_b"}, set.Values())
}
