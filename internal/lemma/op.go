// Package lemma implements lemma generation as a closed set of edit operations.
//
// An operation removes a number of runes from the end of the (lower-cased)
// surface form and appends a suffix:
//
//	K        identity
//	n        strip n runes
//	n,suf    strip n runes, then append suf
//
// so "кошки" with "1,а" yields "кошка" and "сидит" with "2,еть" yields "сидеть".
package lemma

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidOp is returned for malformed operation strings.
var ErrInvalidOp = errors.New("invalid lemma operation")

// Identity is the operation that leaves the form unchanged.
var Identity = Op{}

// Op is a suffix edit: strip Strip runes, then append Append.
type Op struct {
	Strip  int
	Append string
}

// String returns the canonical form of op.
func (op Op) String() string {
	switch {
	case op.Strip == 0 && op.Append == "":
		return "K"
	case op.Append == "":
		return strconv.Itoa(op.Strip)
	default:
		return strconv.Itoa(op.Strip) + "," + op.Append
	}
}

// ParseOp parses the canonical string form of an operation.
func ParseOp(s string) (Op, error) {
	if s == "K" {
		return Identity, nil
	}
	num, suffix, _ := strings.Cut(s, ",")
	n, err := strconv.Atoi(num)
	if err != nil || n < 0 {
		return Op{}, fmt.Errorf("%w: %q", ErrInvalidOp, s)
	}
	return Op{Strip: n, Append: suffix}, nil
}

// Applicable reports whether op can be applied to form.
func (op Op) Applicable(form string) bool {
	return op.Strip <= len([]rune(form))
}

// Apply returns the lemma obtained by applying op to form.
// The second result is false when op strips more runes than form has.
func (op Op) Apply(form string) (string, bool) {
	runes := []rune(form)
	if op.Strip > len(runes) {
		return form, false
	}
	return string(runes[:len(runes)-op.Strip]) + op.Append, true
}

// Derive returns the shortest operation turning form into lemma.
func Derive(form, lemma string) Op {
	f := []rune(form)
	l := []rune(lemma)
	common := 0
	for common < len(f) && common < len(l) && f[common] == l[common] {
		common++
	}
	return Op{Strip: len(f) - common, Append: string(l[common:])}
}
