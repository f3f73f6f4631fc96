// Package vocab maps tokens, characters and suffixes to dense integer ids.
//
// Every table reserves id 0 for padding and id 1 for unknown items. Lookups
// never fail: anything not in a table resolves to UnkID. A Vocabulary is
// immutable once built and safe for concurrent use.
package vocab

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Reserved ids and their table entries.
const (
	PadID int32 = 0
	UnkID int32 = 1

	PadToken = "<pad>"
	UnkToken = "<unk>"
)

// ErrInvalidTable is returned when a persisted table violates the id layout.
var ErrInvalidTable = errors.New("invalid vocabulary table")

// Table is a dense string → id mapping.
type Table struct {
	items []string
	ids   map[string]int32
}

// NewTable builds a table from entries in id order. Entries 0 and 1 must be
// PadToken and UnkToken; duplicates are rejected.
func NewTable(entries []string) (*Table, error) {
	if len(entries) < 2 || entries[PadID] != PadToken || entries[UnkID] != UnkToken {
		return nil, fmt.Errorf("%w: entries 0 and 1 must be %q and %q", ErrInvalidTable, PadToken, UnkToken)
	}
	t := &Table{
		items: make([]string, len(entries)),
		ids:   make(map[string]int32, len(entries)),
	}
	copy(t.items, entries)
	for i, e := range entries {
		if _, dup := t.ids[e]; dup {
			return nil, fmt.Errorf("%w: duplicate entry %q at id %d", ErrInvalidTable, e, i)
		}
		t.ids[e] = int32(i)
	}
	return t, nil
}

// Len returns the number of ids, reserved ones included.
func (t *Table) Len() int {
	return len(t.items)
}

// ID returns the id of s, or UnkID. The reserved entries are not
// addressable: looking up PadToken or UnkToken yields UnkID.
func (t *Table) ID(s string) int32 {
	if id, ok := t.find(s); ok {
		return id
	}
	return UnkID
}

// Has reports whether s has its own, non-reserved id.
func (t *Table) Has(s string) bool {
	_, ok := t.find(s)
	return ok
}

func (t *Table) find(s string) (int32, bool) {
	id, ok := t.ids[s]
	if !ok || id <= UnkID {
		return UnkID, false
	}
	return id, true
}

// Item returns the entry for id, or UnkToken when id is out of range.
func (t *Table) Item(id int32) string {
	if id < 0 || int(id) >= len(t.items) {
		return UnkToken
	}
	return t.items[id]
}

// Entries returns a copy of the entries in id order.
func (t *Table) Entries() []string {
	out := make([]string, len(t.items))
	copy(out, t.items)
	return out
}

// Vocabulary groups the word, character and suffix tables of a model.
type Vocabulary struct {
	words     *Table
	chars     *Table
	suffixes  *Table // nil when the model has no suffix feature
	suffixLen int
}

// New builds a Vocabulary. suffixes may be empty, in which case suffixLen
// must be 0.
func New(words, chars, suffixes []string, suffixLen int) (*Vocabulary, error) {
	w, err := NewTable(words)
	if err != nil {
		return nil, fmt.Errorf("words: %w", err)
	}
	c, err := NewTable(chars)
	if err != nil {
		return nil, fmt.Errorf("chars: %w", err)
	}
	v := &Vocabulary{words: w, chars: c}
	if len(suffixes) > 0 {
		if suffixLen <= 0 {
			return nil, fmt.Errorf("%w: suffix table given with suffix length %d", ErrInvalidTable, suffixLen)
		}
		s, err := NewTable(suffixes)
		if err != nil {
			return nil, fmt.Errorf("suffixes: %w", err)
		}
		v.suffixes = s
		v.suffixLen = suffixLen
	} else if suffixLen != 0 {
		return nil, fmt.Errorf("%w: suffix length %d without suffix table", ErrInvalidTable, suffixLen)
	}
	return v, nil
}

// Normalize returns the lookup key of a token: NFC, lower case.
func Normalize(token string) string {
	return strings.ToLower(norm.NFC.String(token))
}

// Lookup returns the word id of token. Tokens missing from the table are
// retried with ё folded to е before resolving to UnkID.
func (v *Vocabulary) Lookup(token string) int32 {
	key := Normalize(token)
	if id, ok := v.words.find(key); ok {
		return id
	}
	if strings.ContainsRune(key, 'ё') {
		return v.words.ID(strings.ReplaceAll(key, "ё", "е"))
	}
	return UnkID
}

// LookupChars returns the character ids of the normalised token, one per rune.
func (v *Vocabulary) LookupChars(token string) []int32 {
	key := Normalize(token)
	ids := make([]int32, 0, len(key))
	for _, r := range key {
		ids = append(ids, v.chars.ID(string(r)))
	}
	return ids
}

// LookupSuffix returns the id of the token's final SuffixLen runes, or
// PadID when the vocabulary has no suffix table.
func (v *Vocabulary) LookupSuffix(token string) int32 {
	if v.suffixes == nil {
		return PadID
	}
	return v.suffixes.ID(Suffix(Normalize(token), v.suffixLen))
}

// Suffix returns the last n runes of s (all of s when shorter).
func Suffix(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}

// Words returns the word table.
func (v *Vocabulary) Words() *Table { return v.words }

// Chars returns the character table.
func (v *Vocabulary) Chars() *Table { return v.chars }

// Suffixes returns the suffix table, or nil.
func (v *Vocabulary) Suffixes() *Table { return v.suffixes }

// SuffixLen returns the suffix length in runes (0 when disabled).
func (v *Vocabulary) SuffixLen() int { return v.suffixLen }
