// Package tagset defines the closed morphological tag schema used by the tagger.
//
// The schema is the Universal Dependencies subset used for Russian
// (MorphoRuEval-2017 convention): a part of speech plus at most one value for
// each grammatical attribute. Every name is enumerated, so a Tag is a small
// comparable value and the decoder state space is exactly the Inventory.
package tagset

// POS is a part-of-speech category.
type POS uint8

// Parts of speech, in canonical (alphabetical) order.
const (
	ADJ POS = iota
	ADP
	ADV
	AUX
	CCONJ
	DET
	INTJ
	NOUN
	NUM
	PART
	PRON
	PROPN
	PUNCT
	SCONJ
	SYM
	VERB
	X
	numPOS
)

var posNames = [numPOS]string{
	"ADJ", "ADP", "ADV", "AUX", "CCONJ", "DET", "INTJ", "NOUN", "NUM",
	"PART", "PRON", "PROPN", "PUNCT", "SCONJ", "SYM", "VERB", "X",
}

// String returns the canonical POS name.
func (p POS) String() string {
	if p >= numPOS {
		return "POS(?)"
	}
	return posNames[p]
}

// Attr is a grammatical attribute (feature name).
type Attr uint8

// Attributes, in canonical (alphabetical) order.
const (
	Animacy Attr = iota
	Aspect
	Case
	Degree
	Gender
	Mood
	Number
	Person
	Tense
	Variant
	VerbForm
	Voice
	NumAttrs
)

var attrNames = [NumAttrs]string{
	"Animacy", "Aspect", "Case", "Degree", "Gender", "Mood",
	"Number", "Person", "Tense", "Variant", "VerbForm", "Voice",
}

// String returns the canonical attribute name.
func (a Attr) String() string {
	if a >= NumAttrs {
		return "Attr(?)"
	}
	return attrNames[a]
}

// Value is an attribute value. The zero Value means "attribute not set";
// set values are 1-based indexes into the attribute's value list.
type Value uint8

// None marks an unset attribute.
const None Value = 0

// attrValues lists the permissible values per attribute.
// Value(i+1) corresponds to attrValues[attr][i].
var attrValues = [NumAttrs][]string{
	Animacy:  {"Anim", "Inan"},
	Aspect:   {"Imp", "Perf"},
	Case:     {"Nom", "Gen", "Dat", "Acc", "Ins", "Loc", "Par", "Voc"},
	Degree:   {"Pos", "Cmp", "Sup"},
	Gender:   {"Masc", "Fem", "Neut"},
	Mood:     {"Ind", "Imp", "Cnd"},
	Number:   {"Sing", "Plur"},
	Person:   {"1", "2", "3"},
	Tense:    {"Past", "Pres", "Fut"},
	Variant:  {"Short"},
	VerbForm: {"Fin", "Inf", "Part", "Conv"},
	Voice:    {"Act", "Pass", "Mid"},
}

// Values returns the permissible value names of an attribute.
func Values(a Attr) []string {
	if a >= NumAttrs {
		return nil
	}
	out := make([]string, len(attrValues[a]))
	copy(out, attrValues[a])
	return out
}

// ValueOf returns the Value for a name of attribute a.
func ValueOf(a Attr, name string) (Value, bool) {
	if a >= NumAttrs {
		return None, false
	}
	for i, v := range attrValues[a] {
		if v == name {
			return Value(i + 1), true
		}
	}
	return None, false
}

// ValueName returns the name of v for attribute a, or "" for None.
func ValueName(a Attr, v Value) string {
	if a >= NumAttrs || v == None || int(v) > len(attrValues[a]) {
		return ""
	}
	return attrValues[a][v-1]
}

// ParsePOS returns the POS for its canonical name.
func ParsePOS(name string) (POS, bool) {
	for i, n := range posNames {
		if n == name {
			return POS(i), true
		}
	}
	return 0, false
}

// ParseAttr returns the Attr for its canonical name.
func ParseAttr(name string) (Attr, bool) {
	for i, n := range attrNames {
		if n == name {
			return Attr(i), true
		}
	}
	return 0, false
}
