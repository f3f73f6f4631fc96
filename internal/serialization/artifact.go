package serialization

import (
	"sort"

	"github.com/born-ml/morpho/internal/model"
	"github.com/born-ml/morpho/internal/nn"
	"github.com/born-ml/morpho/internal/tensor"
)

// Artifact is the in-memory content of a .morph file.
type Artifact struct {
	Hyper    model.Hyperparams
	Vocab    VocabTables
	Tags     []string
	LemmaOps []string
	Metadata map[string]string
	Tensors  nn.StateDict
}

// Sizes returns the inventory sizes of the artifact.
func (a *Artifact) Sizes() model.Sizes {
	h := Header{Vocab: a.Vocab, Tags: a.Tags, LemmaOps: a.LemmaOps}
	return h.Sizes()
}

// tensorMetas lays out the tensors in name order and returns their metadata.
// Shapes follow the architecture where it names the tensor, so bias vectors
// are stored as [n] rather than [1, n].
func (a *Artifact) tensorMetas() []TensorMeta {
	expected := model.ExpectedShapes(a.Hyper, a.Sizes())

	names := make([]string, 0, len(a.Tensors))
	for name := range a.Tensors {
		names = append(names, name)
	}
	sort.Strings(names)

	metas := make([]TensorMeta, 0, len(names))
	var offset int64
	for _, name := range names {
		m := a.Tensors[name]
		shape := tensor.Shape{m.Rows, m.Cols}
		if want, ok := expected[name]; ok && want.NumElements() == len(m.Data) {
			shape = want
		}
		size := int64(len(m.Data)) * 4
		metas = append(metas, TensorMeta{
			Name:   name,
			DType:  DTypeFloat32,
			Shape:  []int(shape.Clone()),
			Offset: offset,
			Size:   size,
		})
		offset += size
	}
	return metas
}
