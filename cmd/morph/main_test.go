package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/morpho/internal/analyzer"
	"github.com/born-ml/morpho/internal/model/modeltest"
	"github.com/born-ml/morpho/internal/serialization"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errBuf bytes.Buffer
	ui := UI{In: strings.NewReader(stdin), Out: &out, Err: &errBuf}
	err := newApp(ui).Run(append([]string{"morph"}, args...))
	return out.String(), errBuf.String(), err
}

func demoModel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.morph")
	out, _, err := run(t, "", "init-demo", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)
	return path
}

func TestInitDemo(t *testing.T) {
	path := demoModel(t)
	a, err := serialization.ReadFile(path, serialization.ReaderOptions{})
	require.NoError(t, err)
	assert.Equal(t, modeltest.DefaultTags, a.Tags)

	random := filepath.Join(t.TempDir(), "random.morph")
	_, _, err = run(t, "", "init-demo", "--random", "--seed", "3", "--words", "мы видим", "--format-version", "1", random)
	require.NoError(t, err)
	a, err = serialization.ReadFile(random, serialization.ReaderOptions{})
	require.NoError(t, err)
	assert.Equal(t, "3", a.Metadata["seed"])

	_, _, err = run(t, "", "init-demo")
	assert.Error(t, err)
}

func TestAnalyze_JSON(t *testing.T) {
	path := demoModel(t)
	out, _, err := run(t, "Кошка сидит на окне. Кошка сидит.", "--model", path, "analyze")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	var rec struct {
		Sentence int `json:"sentence"`
		Analyses []struct {
			Token string `json:"token"`
			POS   string `json:"pos"`
			Lemma string `json:"lemma"`
		} `json:"analyses"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, 1, rec.Sentence)
	require.Len(t, rec.Analyses, 5)
	assert.Equal(t, "Кошка", rec.Analyses[0].Token)
	assert.Equal(t, "VERB", rec.Analyses[1].POS)
	assert.Equal(t, "окно", rec.Analyses[3].Lemma)
}

func TestAnalyze_CoNLLU(t *testing.T) {
	path := demoModel(t)
	out, _, err := run(t, "кошка сидит\n\nна окне\n", "--model", path, "analyze", "--lines", "--format", "conllu")
	require.NoError(t, err)

	assert.Contains(t, out, "# sent_id = 1\n# text = кошка сидит\n")
	assert.Contains(t, out, "1\tкошка\tкошка\tNOUN\t_\tAnimacy=Anim|Case=Nom|Gender=Fem|Number=Sing\t_\t_\t_\tConf=")
	assert.Contains(t, out, "1\tна\tна\tADP\t_\t_\t_\t_\t_\tConf=")
	assert.Contains(t, out, "# sent_id = 2\n")
	assert.NotContains(t, out, "# sent_id = 3")
}

func TestAnalyze_FileAndOverflow(t *testing.T) {
	path := demoModel(t)
	input := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(input, []byte("на окне .\nкошка\n"), 0o600))

	out, stderr, err := run(t, "", "--model", path, "analyze", "--lines", "--max-length", "2", input)
	require.NoError(t, err)
	assert.Contains(t, out, `"error":"sentence too long`)
	assert.Contains(t, stderr, "sentence skipped")

	out, _, err = run(t, "", "--model", path, "analyze", "--lines", "--max-length", "2", "--overflow", "split", input)
	require.NoError(t, err)
	assert.NotContains(t, out, "error")
}

func TestAnalyze_Errors(t *testing.T) {
	path := demoModel(t)

	_, _, err := run(t, "кошка", "analyze")
	assert.ErrorContains(t, err, "no model")

	_, _, err = run(t, "   ", "--model", path, "analyze")
	assert.ErrorIs(t, err, analyzer.ErrEmptyBatch)

	_, _, err = run(t, "кошка", "--model", path, "analyze", "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")

	_, _, err = run(t, "кошка", "--model", path, "--decoder", "beam", "analyze")
	assert.Error(t, err)

	_, _, err = run(t, "", "--model", filepath.Join(t.TempDir(), "missing.morph"), "tags")
	assert.Error(t, err)
}

func TestConfigFile(t *testing.T) {
	path := demoModel(t)
	cfgPath := filepath.Join(t.TempDir(), "morph.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("model: "+path+"\ndecoder: greedy\nlog_level: debug\n"), 0o600))

	out, stderr, err := run(t, "кошка сидит", "--config", cfgPath, "analyze", "--format", "conllu")
	require.NoError(t, err)
	assert.Contains(t, out, "2\tсидит\tсидеть\tVERB")
	assert.Contains(t, stderr, "model loaded")
	assert.Contains(t, stderr, `"decoder": "greedy"`)
}

func TestTags(t *testing.T) {
	path := demoModel(t)
	out, _, err := run(t, "", "--model", path, "tags")
	require.NoError(t, err)
	assert.Equal(t, strings.Join(modeltest.DefaultTags, "\n")+"\n", out)

	out, _, err = run(t, "", "--model", path, "tags", "--lemma-ops")
	require.NoError(t, err)
	assert.Equal(t, "K\n2,еть\n1,о\n", out)
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "morph v"+serialization.Version+" (artifact format v2)\n", out)
}

func TestReplLine(t *testing.T) {
	an, err := analyzer.FromArtifact(modeltest.CatSits(), analyzer.DefaultOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, replLine(&buf, an, "Кошка сидит"))
	assert.Contains(t, buf.String(), "сидеть")
	assert.Contains(t, buf.String(), modeltest.TagVerb)

	buf.Reset()
	require.NoError(t, replLine(&buf, an, ":ops"))
	assert.Equal(t, "K\n2,еть\n1,о\n", buf.String())

	buf.Reset()
	assert.ErrorIs(t, replLine(&buf, an, "   "), analyzer.ErrEmptyBatch)
}
