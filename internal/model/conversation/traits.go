package conversation

// DisclosedTraits tracks which persona facts have already surfaced in a
// conversation. The set only grows; insertion order is preserved so the
// suppression clause reads the same way across prompts.
type DisclosedTraits struct {
	seen  map[string]struct{}
	facts []string
}

// NewDisclosedTraits returns an empty trait set.
func NewDisclosedTraits() *DisclosedTraits {
	return &DisclosedTraits{seen: make(map[string]struct{})}
}

// Add records a fact description. Adding an already-known fact is a no-op.
func (d *DisclosedTraits) Add(fact string) bool {
	if _, ok := d.seen[fact]; ok {
		return false
	}
	d.seen[fact] = struct{}{}
	d.facts = append(d.facts, fact)
	return true
}

// Contains reports whether the fact has already been disclosed.
func (d *DisclosedTraits) Contains(fact string) bool {
	_, ok := d.seen[fact]
	return ok
}

// List returns the disclosed facts in insertion order.
func (d *DisclosedTraits) List() []string {
	out := make([]string, len(d.facts))
	copy(out, d.facts)
	return out
}

// Len reports the number of disclosed facts.
func (d *DisclosedTraits) Len() int {
	return len(d.facts)
}
