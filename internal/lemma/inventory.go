package lemma

import "fmt"

// Inventory is the ordered set of operations a model scores.
// Index 0 is always Identity, which is applicable to every form.
type Inventory struct {
	ops   []Op
	index map[Op]int
}

// NewInventory builds an inventory from canonical operation strings.
func NewInventory(names []string) (*Inventory, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: empty inventory", ErrInvalidOp)
	}
	inv := &Inventory{
		ops:   make([]Op, 0, len(names)),
		index: make(map[Op]int, len(names)),
	}
	for i, name := range names {
		op, err := ParseOp(name)
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
		if _, dup := inv.index[op]; dup {
			return nil, fmt.Errorf("%w: duplicate operation %q at index %d", ErrInvalidOp, name, i)
		}
		inv.index[op] = i
		inv.ops = append(inv.ops, op)
	}
	if inv.ops[0] != Identity {
		return nil, fmt.Errorf("%w: operation 0 must be K, got %q", ErrInvalidOp, names[0])
	}
	return inv, nil
}

// Len returns the number of operations.
func (inv *Inventory) Len() int {
	return len(inv.ops)
}

// Op returns the operation at index i.
func (inv *Inventory) Op(i int) Op {
	return inv.ops[i]
}

// Index returns the index of op, or -1.
func (inv *Inventory) Index(op Op) int {
	if i, ok := inv.index[op]; ok {
		return i
	}
	return -1
}

// Applicable returns a mask of the operations applicable to form.
func (inv *Inventory) Applicable(form string) []bool {
	n := len([]rune(form))
	mask := make([]bool, len(inv.ops))
	for i, op := range inv.ops {
		mask[i] = op.Strip <= n
	}
	return mask
}

// Strings returns the canonical string of every operation, in index order.
func (inv *Inventory) Strings() []string {
	out := make([]string, len(inv.ops))
	for i, op := range inv.ops {
		out[i] = op.String()
	}
	return out
}
