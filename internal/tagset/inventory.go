package tagset

import "fmt"

// Inventory is the fixed, ordered set of tags a model can predict.
// Index i of the inventory is state i of the decoder.
type Inventory struct {
	tags  []Tag
	index map[Tag]int
}

// NewInventory builds an inventory from canonical tag strings.
// The order of names defines the tag indexes. Duplicates are rejected.
func NewInventory(names []string) (*Inventory, error) {
	inv := &Inventory{
		tags:  make([]Tag, 0, len(names)),
		index: make(map[Tag]int, len(names)),
	}
	for i, name := range names {
		t, err := ParseTag(name)
		if err != nil {
			return nil, fmt.Errorf("tag %d: %w", i, err)
		}
		if _, dup := inv.index[t]; dup {
			return nil, fmt.Errorf("%w: duplicate tag %q at index %d", ErrInvalidTag, name, i)
		}
		inv.index[t] = len(inv.tags)
		inv.tags = append(inv.tags, t)
	}
	return inv, nil
}

// Len returns the number of tags.
func (inv *Inventory) Len() int {
	return len(inv.tags)
}

// Tag returns the tag at index i.
func (inv *Inventory) Tag(i int) Tag {
	return inv.tags[i]
}

// Index returns the index of t, or -1 if t is not in the inventory.
func (inv *Inventory) Index(t Tag) int {
	if i, ok := inv.index[t]; ok {
		return i
	}
	return -1
}

// Strings returns the canonical string of every tag, in index order.
func (inv *Inventory) Strings() []string {
	out := make([]string, len(inv.tags))
	for i, t := range inv.tags {
		out[i] = t.String()
	}
	return out
}
