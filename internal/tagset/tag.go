package tagset

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTag is returned when a tag string does not follow the schema.
var ErrInvalidTag = errors.New("invalid tag")

// Tag is a part of speech plus a set of (attribute, value) pairs.
//
// Tag is comparable; two tags are equal iff they have the same POS and the
// same value for every attribute.
type Tag struct {
	POS   POS
	Feats [NumAttrs]Value
}

// NewTag builds a tag from a POS and attribute value names.
// Unknown values are reported as ErrInvalidTag.
func NewTag(pos POS, feats map[Attr]string) (Tag, error) {
	t := Tag{POS: pos}
	for a, name := range feats {
		v, ok := ValueOf(a, name)
		if !ok {
			return Tag{}, fmt.Errorf("%w: %s=%s", ErrInvalidTag, a, name)
		}
		t.Feats[a] = v
	}
	return t, nil
}

// With returns a copy of t with attribute a set to v.
func (t Tag) With(a Attr, v Value) Tag {
	t.Feats[a] = v
	return t
}

// Get returns the value name of attribute a, or "" when unset.
func (t Tag) Get(a Attr) string {
	return ValueName(a, t.Feats[a])
}

// String returns the canonical form: "POS" or "POS|Attr=Val|...",
// attributes in canonical order.
func (t Tag) String() string {
	var b strings.Builder
	b.WriteString(t.POS.String())
	for a := Attr(0); a < NumAttrs; a++ {
		if t.Feats[a] == None {
			continue
		}
		b.WriteByte('|')
		b.WriteString(a.String())
		b.WriteByte('=')
		b.WriteString(ValueName(a, t.Feats[a]))
	}
	return b.String()
}

// ParseTag parses the canonical string form produced by Tag.String.
// Attribute order in the input is not significant; duplicates are rejected.
func ParseTag(s string) (Tag, error) {
	parts := strings.Split(s, "|")
	pos, ok := ParsePOS(parts[0])
	if !ok {
		return Tag{}, fmt.Errorf("%w: unknown part of speech %q", ErrInvalidTag, parts[0])
	}
	t := Tag{POS: pos}
	for _, p := range parts[1:] {
		name, val, found := strings.Cut(p, "=")
		if !found {
			return Tag{}, fmt.Errorf("%w: malformed feature %q in %q", ErrInvalidTag, p, s)
		}
		a, ok := ParseAttr(name)
		if !ok {
			return Tag{}, fmt.Errorf("%w: unknown attribute %q", ErrInvalidTag, name)
		}
		if t.Feats[a] != None {
			return Tag{}, fmt.Errorf("%w: duplicate attribute %q in %q", ErrInvalidTag, name, s)
		}
		v, ok := ValueOf(a, val)
		if !ok {
			return Tag{}, fmt.Errorf("%w: unknown value %q for %s", ErrInvalidTag, val, name)
		}
		t.Feats[a] = v
	}
	return t, nil
}

// MustParseTag is like ParseTag but panics on error. Intended for tests and
// static tables.
func MustParseTag(s string) Tag {
	t, err := ParseTag(s)
	if err != nil {
		panic(err)
	}
	return t
}
