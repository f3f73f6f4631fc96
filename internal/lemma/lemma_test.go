package lemma

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOp(t *testing.T) {
	tests := []struct {
		in      string
		want    Op
		wantErr bool
	}{
		{in: "K", want: Identity},
		{in: "0", want: Identity},
		{in: "2", want: Op{Strip: 2}},
		{in: "1,а", want: Op{Strip: 1, Append: "а"}},
		{in: "0,ся", want: Op{Append: "ся"}},
		{in: "x", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOp(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidOp)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpString(t *testing.T) {
	assert.Equal(t, "K", Identity.String())
	assert.Equal(t, "3", Op{Strip: 3}.String())
	assert.Equal(t, "2,еть", Op{Strip: 2, Append: "еть"}.String())
}

func TestApply(t *testing.T) {
	got, ok := Op{Strip: 1, Append: "а"}.Apply("кошки")
	require.True(t, ok)
	assert.Equal(t, "кошка", got)

	got, ok = Op{Strip: 2, Append: "еть"}.Apply("сидит")
	require.True(t, ok)
	assert.Equal(t, "сидеть", got)

	got, ok = Op{Strip: 6}.Apply("кот")
	assert.False(t, ok)
	assert.Equal(t, "кот", got)
}

func TestDerive(t *testing.T) {
	tests := []struct {
		form, lemma string
		want        Op
	}{
		{"кошки", "кошка", Op{Strip: 1, Append: "а"}},
		{"сидит", "сидеть", Op{Strip: 2, Append: "еть"}},
		{"кот", "кот", Identity},
		{"людей", "человек", Op{Strip: 5, Append: "человек"}},
	}
	for _, tt := range tests {
		op := Derive(tt.form, tt.lemma)
		assert.Equal(t, tt.want, op)
		got, ok := op.Apply(tt.form)
		require.True(t, ok)
		assert.Equal(t, tt.lemma, got)
	}
}

func TestInventory(t *testing.T) {
	inv, err := NewInventory([]string{"K", "1,а", "2,еть", "6"})
	require.NoError(t, err)
	assert.Equal(t, 4, inv.Len())
	assert.Equal(t, 2, inv.Index(Op{Strip: 2, Append: "еть"}))
	assert.Equal(t, []bool{true, true, true, false}, inv.Applicable("кошка"))
	assert.Equal(t, []string{"K", "1,а", "2,еть", "6"}, inv.Strings())

	_, err = NewInventory([]string{"1,а", "K"})
	assert.ErrorIs(t, err, ErrInvalidOp)
	_, err = NewInventory([]string{"K", "0"})
	assert.ErrorIs(t, err, ErrInvalidOp)
	_, err = NewInventory(nil)
	assert.ErrorIs(t, err, ErrInvalidOp)
}
