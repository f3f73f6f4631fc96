package analyzer_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/morpho/analyzer"
	"github.com/born-ml/morpho/internal/model/modeltest"
	"github.com/born-ml/morpho/internal/serialization"
)

func TestLoadAndAnalyze(t *testing.T) {
	path := modeltest.WriteTemp(t, modeltest.CatSits(), serialization.FormatVersionV2)
	an, err := analyzer.Load(path, analyzer.DefaultOptions())
	require.NoError(t, err)

	got, err := an.AnalyzeSentence([]string{"Кошка", "сидит"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "NOUN", got[0].POS)
	assert.Equal(t, "VERB", got[1].POS)
	assert.Equal(t, "сидеть", got[1].Lemma)

	_, err = an.Analyze(nil)
	assert.ErrorIs(t, err, analyzer.ErrEmptyBatch)
}

func TestOptionsFromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "morph.yaml")
	require.NoError(t, os.WriteFile(path, []byte("decoder: greedy\noverflow: split\nmax_length: 4\n"), 0o600))

	cfg, err := analyzer.LoadConfig(path)
	require.NoError(t, err)
	opts, err := analyzer.OptionsFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, analyzer.Greedy, opts.Decoder)
	assert.Equal(t, analyzer.OverflowSplit, opts.Overflow)
	assert.Equal(t, 4, opts.MaxLength)
}
