package checkout

import "sort"

// AllowedPriceSet is the closed set of price identifiers the server will
// forward to Stripe. Built once at startup, read-only afterwards, so
// unrestricted concurrent reads are fine.
type AllowedPriceSet struct {
	ids    map[string]struct{}
	sorted []string
}

func NewAllowedPriceSet(ids []string) AllowedPriceSet {
	set := AllowedPriceSet{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := set.ids[id]; dup {
			continue
		}
		set.ids[id] = struct{}{}
		set.sorted = append(set.sorted, id)
	}
	sort.Strings(set.sorted)
	return set
}

func (s AllowedPriceSet) Contains(priceID string) bool {
	_, ok := s.ids[priceID]
	return ok
}

// Values returns the allowed identifiers in stable order. Callers get a
// copy; the set itself never changes.
func (s AllowedPriceSet) Values() []string {
	return append([]string(nil), s.sorted...)
}

func (s AllowedPriceSet) Len() int {
	return len(s.ids)
}
