package definition

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mweagle/goscore/classify"
	"github.com/mweagle/goscore/sampler"
)

func writeDefinition(t *testing.T, name string, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
	return path
}

func TestLoad_JSON(t *testing.T) {
	path := writeDefinition(t, "midterm.json", `{
		"name": "Midterm",
		"count": 250,
		"mean": 68.5,
		"stdDev": 12,
		"cutoff": 75,
		"seed": 9
	}`)
	def, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Midterm", def.Name)
	assert.Equal(t, sampler.Params{Count: 250, Mean: 68.5, StdDev: 12}, def.Params)
	assert.Equal(t, 75.0, def.Cutoff)
	assert.Equal(t, uint64(9), def.Seed)
	assert.True(t, def.Console)
}

func TestLoad_YAMLExpression(t *testing.T) {
	path := writeDefinition(t, "final.yaml", strings.Join([]string{
		"count: 40",
		"distribution: Normal(81, 6.5)",
		"cutoff: 90",
		"console: false",
	}, "\n"))
	def, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "final", def.Name)
	assert.Equal(t, sampler.Params{Count: 40, Mean: 81, StdDev: 6.5}, def.Params)
	assert.Equal(t, 90.0, def.Cutoff)
	assert.False(t, def.Console)
}

func TestDecode_Defaults(t *testing.T) {
	def, err := Decode(strings.NewReader(`{}`), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, sampler.Params{Count: DefaultCount, Mean: DefaultMean, StdDev: DefaultStdDev}, def.Params)
	assert.Equal(t, DefaultCutoff, def.Cutoff)
}

func TestDecode_Rejects(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected error
	}{
		{"single score", `{"count": 1}`, sampler.ErrInvalidCount},
		{"zero spread", `{"stdDev": 0}`, sampler.ErrInvalidStdDev},
		{"negative spread", `{"distribution": "Normal(50, -2)"}`, sampler.ErrInvalidStdDev},
		{"bad expression", `{"distribution": "Pareto(1, 2)"}`, sampler.ErrInvalidExpression},
		{"NaN cutoff", `{"count": 50, "cutoff": "NaN"}`, classify.ErrInvalidCutoff},
		{"infinite cutoff", `{"cutoff": "+Inf"}`, classify.ErrInvalidCutoff},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tc.input), FormatJSON)
			assert.ErrorIs(t, err, tc.expected)
		})
	}
	for _, badCount := range []string{`{"count": 2.9}`, `{"count": 1e30}`, `{"count": "NaN"}`, `{"seed": 9.5}`} {
		_, err := Decode(strings.NewReader(badCount), FormatJSON)
		assert.Error(t, err, badCount)
	}
	_, err := Decode(strings.NewReader(`{"mean": [1]}`), FormatJSON)
	assert.Error(t, err)
	_, err = Decode(strings.NewReader(`{"count": -4}`), FormatJSON)
	assert.Error(t, err)
	_, err = Decode(strings.NewReader(`{`), FormatJSON)
	assert.Error(t, err)
}

func TestDecode_RejectsYAMLNaNCutoff(t *testing.T) {
	_, err := Decode(strings.NewReader("count: 50\ncutoff: .nan\n"), FormatYAML)
	assert.ErrorIs(t, err, classify.ErrInvalidCutoff)
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatForPath("a/b.YML"))
	assert.Equal(t, FormatYAML, FormatForPath("b.yaml"))
	assert.Equal(t, FormatJSON, FormatForPath("b.json"))
	assert.Equal(t, FormatJSON, FormatForPath("b"))
}

func TestValueAccessors(t *testing.T) {
	dict := map[string]interface{}{
		"f": 1.5,
		"i": 3,
		"s": "2.25",
		"b": "true",
	}
	f, err := Float("f", dict, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.5, f)
	i, err := Uint("i", dict, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), i)
	_, err = Uint("f", dict, 0)
	assert.Error(t, err)
	s, err := Float("s", dict, 0)
	require.NoError(t, err)
	assert.Equal(t, 2.25, s)
	missing, err := Float("missing", dict, 7)
	require.NoError(t, err)
	assert.Equal(t, 7.0, missing)
	assert.True(t, Boolean("b", dict))
	assert.False(t, Boolean("missing", dict))
	assert.Equal(t, "", String("f", dict))
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := writeDefinition(t, "watched.json", `{"count": 10}`)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	changes := make(chan *Definition, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(def *Definition) {
			changes <- def
		}, log)
	}()

	// Give the watcher time to register before writing
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`{"count": 20}`), 0600))

	select {
	case def := <-changes:
		assert.Equal(t, 20, def.Params.Count)
	case <-ctx.Done():
		t.Fatal("timed out waiting for reload")
	}
	cancel()
	assert.NoError(t, <-done)
}
