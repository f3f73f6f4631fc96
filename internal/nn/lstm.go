package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/morpho/internal/tensor"
)

// LSTM is a single-direction long short-term memory layer over padded batches.
//
// Gates are packed in the order input, forget, cell, output:
//   - w_ih: [4*Hidden, Input]
//   - w_hh: [4*Hidden, Hidden]
//   - bias: [1, 4*Hidden]
//
// Sequences are laid out as a [batch*steps, Input] matrix. Positions at or
// beyond a sequence's length are skipped: the state is not advanced and the
// output row stays zero. A reverse LSTM therefore starts each sequence at its
// last real token, not at the padded end.
type LSTM struct {
	Input   int
	Hidden  int
	Reverse bool

	wIH     *Parameter
	wHH     *Parameter
	bias    *Parameter
	backend tensor.Backend
}

// NewLSTM creates an LSTM layer. A nil rng leaves the weights zero.
func NewLSTM(input, hidden int, reverse bool, backend tensor.Backend, rng *rand.Rand) *LSTM {
	gates := 4 * hidden
	var wIH, wHH *tensor.Matrix
	if rng != nil {
		wIH = Xavier(input, gates, gates, input, rng)
		wHH = Xavier(hidden, gates, gates, hidden, rng)
	} else {
		wIH = tensor.NewMatrix(gates, input)
		wHH = tensor.NewMatrix(gates, hidden)
	}
	return &LSTM{
		Input:   input,
		Hidden:  hidden,
		Reverse: reverse,
		wIH:     NewParameter("w_ih", wIH),
		wHH:     NewParameter("w_hh", wHH),
		bias:    NewParameter("bias", tensor.NewMatrix(1, gates)),
		backend: backend,
	}
}

// Forward runs the layer over x [batch*steps, Input] and returns
// [batch*steps, Hidden].
func (l *LSTM) Forward(x *tensor.Matrix, batch, steps int, lengths []int) *tensor.Matrix {
	if x.Rows != batch*steps || x.Cols != l.Input {
		panic(fmt.Sprintf("lstm: input %v does not match batch=%d steps=%d input=%d", x.Shape(), batch, steps, l.Input))
	}
	if len(lengths) != batch {
		panic(fmt.Sprintf("lstm: %d lengths for batch of %d", len(lengths), batch))
	}

	H := l.Hidden
	xw := l.backend.MatMulT(x, l.wIH.Value())
	tensor.AddRowVector(xw, l.bias.Value().Data)

	out := tensor.NewMatrix(batch*steps, H)
	h := tensor.NewMatrix(batch, H)
	c := tensor.NewMatrix(batch, H)

	for s := 0; s < steps; s++ {
		t := s
		if l.Reverse {
			t = steps - 1 - s
		}
		hw := l.backend.MatMulT(h, l.wHH.Value())
		for b := 0; b < batch; b++ {
			if t >= lengths[b] {
				continue
			}
			gx := xw.Row(b*steps + t)
			gh := hw.Row(b)
			hb := h.Row(b)
			cb := c.Row(b)
			for j := 0; j < H; j++ {
				ig := tensor.Sigmoid(gx[j] + gh[j])
				fg := tensor.Sigmoid(gx[H+j] + gh[H+j])
				gg := tensor.Tanh(gx[2*H+j] + gh[2*H+j])
				og := tensor.Sigmoid(gx[3*H+j] + gh[3*H+j])
				cb[j] = fg*cb[j] + ig*gg
				hb[j] = og * tensor.Tanh(cb[j])
			}
			copy(out.Row(b*steps+t), hb)
		}
	}
	return out
}

// Parameters returns [w_ih, w_hh, bias].
func (l *LSTM) Parameters() []*Parameter {
	return []*Parameter{l.wIH, l.wHH, l.bias}
}

// LoadStateDict loads w_ih, w_hh and bias under prefix.
func (l *LSTM) LoadStateDict(stateDict StateDict, prefix string) error {
	return loadAll(l.Parameters(), stateDict, prefix)
}

// StateDict stores w_ih, w_hh and bias under prefix.
func (l *LSTM) StateDict(stateDict StateDict, prefix string) {
	storeAll(l.Parameters(), stateDict, prefix)
}

// BiLSTM runs a forward and a reverse LSTM over the same input and
// concatenates their outputs, giving [batch*steps, 2*Hidden].
//
// Parameters live under "fwd." and "bwd." below the layer prefix.
type BiLSTM struct {
	Fwd *LSTM
	Bwd *LSTM
}

// NewBiLSTM creates a bidirectional layer.
func NewBiLSTM(input, hidden int, backend tensor.Backend, rng *rand.Rand) *BiLSTM {
	return &BiLSTM{
		Fwd: NewLSTM(input, hidden, false, backend, rng),
		Bwd: NewLSTM(input, hidden, true, backend, rng),
	}
}

// Forward runs both directions.
func (b *BiLSTM) Forward(x *tensor.Matrix, batch, steps int, lengths []int) *tensor.Matrix {
	return tensor.HConcat(
		b.Fwd.Forward(x, batch, steps, lengths),
		b.Bwd.Forward(x, batch, steps, lengths),
	)
}

// OutputSize returns 2*Hidden.
func (b *BiLSTM) OutputSize() int {
	return 2 * b.Fwd.Hidden
}

// Parameters returns the parameters of both directions.
func (b *BiLSTM) Parameters() []*Parameter {
	return append(b.Fwd.Parameters(), b.Bwd.Parameters()...)
}

// LoadStateDict loads both directions.
func (b *BiLSTM) LoadStateDict(stateDict StateDict, prefix string) error {
	if err := b.Fwd.LoadStateDict(stateDict, prefix+"fwd."); err != nil {
		return err
	}
	return b.Bwd.LoadStateDict(stateDict, prefix+"bwd.")
}

// StateDict stores both directions.
func (b *BiLSTM) StateDict(stateDict StateDict, prefix string) {
	b.Fwd.StateDict(stateDict, prefix+"fwd.")
	b.Bwd.StateDict(stateDict, prefix+"bwd.")
}
