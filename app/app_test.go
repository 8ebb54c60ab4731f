package app

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/mweagle/goscore/definition"
	"github.com/mweagle/goscore/density"
	"github.com/mweagle/goscore/engine"
	"github.com/mweagle/goscore/sampler"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSnapshot(t *testing.T) *engine.Snapshot {
	t.Helper()
	snapshot, err := engine.Analyze(sampler.Params{Count: 100, Mean: 70, StdDev: 10}, 60, rand.NewSource(1), testLogger())
	require.NoError(t, err)
	return snapshot
}

func TestEncodeReport(t *testing.T) {
	snapshot := testSnapshot(t)
	source, err := EncodeReport("Midterm", "/tmp/midterm.png", snapshot, testLogger())
	require.NoError(t, err)

	assert.Contains(t, source, `summary : "Summary Statistics" {`)
	assert.Contains(t, source, "shape: sql_table")
	assert.Contains(t, source, `"Std Dev": "`+snapshot.Summary.Value("Std Dev")+`"`)
	assert.Contains(t, source, `"cutoff": "60"`)
	assert.Contains(t, source, "# Cutoff 60")
	assert.Contains(t, source, "icon: /tmp/midterm.png")
	assert.Contains(t, source, "summary -> chart")
	assert.Contains(t, source, snapshot.Classification.Tiles()[0])
}

func TestEncodeReport_NoChart(t *testing.T) {
	source, err := EncodeReport("Midterm", "", testSnapshot(t), testLogger())
	require.NoError(t, err)
	assert.NotContains(t, source, "shape: image")
	assert.NotContains(t, source, "-> chart")
}

func TestPrintSummary(t *testing.T) {
	color.NoColor = true
	snapshot := testSnapshot(t)
	var output bytes.Buffer
	require.NoError(t, PrintSummary(&output, "Midterm", snapshot))

	text := output.String()
	assert.Contains(t, text, "Midterm")
	for _, eachLabel := range snapshot.Summary.Labels() {
		assert.Contains(t, text, eachLabel.Name)
		assert.Contains(t, text, eachLabel.Value)
	}
	for _, eachTile := range snapshot.Classification.Tiles() {
		assert.Contains(t, text, eachTile)
	}
}

func TestDensitySegments(t *testing.T) {
	points := []density.Point{
		{X: 1, Y: 1, BelowCutoff: true},
		{X: 2, Y: 2, BelowCutoff: true},
		{X: 3, Y: 1},
		{X: 4, Y: 0.5},
	}
	below, above := densitySegments(points)
	require.Len(t, below, 3)
	require.Len(t, above, 2)
	assert.Equal(t, 3.0, below[2].X)
	assert.Equal(t, 3.0, above[0].X)

	below, above = densitySegments(points[2:])
	assert.Empty(t, below)
	assert.Len(t, above, 2)
}

func TestPlotChart(t *testing.T) {
	chartPath := filepath.Join(t.TempDir(), "chart.png")
	require.NoError(t, PlotChart(testSnapshot(t), "Midterm", chartPath, testLogger()))
	info, err := os.Stat(chartPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestApplication_RunAndApply(t *testing.T) {
	color.NoColor = true
	outputDir := t.TempDir()
	inputFile := filepath.Join(outputDir, "midterm.json")
	require.NoError(t, os.WriteFile(inputFile,
		[]byte(`{"name": "Midterm", "count": 80, "mean": 72, "stdDev": 9, "cutoff": 65, "seed": 4}`),
		0600))

	var console bytes.Buffer
	application, err := NewApplication(&ApplicationParams{
		InputFile:       inputFile,
		OutputDirectory: outputDir,
		CreateDot:       true,
		Console:         &console,
	}, testLogger())
	require.NoError(t, err)

	outputs, err := application.Run(context.Background())
	require.NoError(t, err)
	for _, eachPath := range []string{outputs.ChartPath, outputs.D2Path, outputs.DotPath} {
		_, statErr := os.Stat(eachPath)
		assert.NoError(t, statErr, eachPath)
	}
	assert.Empty(t, outputs.SVGPath)
	assert.True(t, strings.HasSuffix(outputs.D2Path, "midterm.d2"))
	assert.Contains(t, console.String(), "Midterm")

	first := application.Session().Snapshot()
	snapshot, err := application.Apply(&definition.Definition{
		Name:   "Midterm",
		Params: first.Params,
		Cutoff: 70,
		Seed:   4,
	})
	require.NoError(t, err)
	assert.Equal(t, first.Sample, snapshot.Sample)
	assert.Equal(t, 70.0, snapshot.Classification.Cutoff)

	reseeded, err := application.Apply(&definition.Definition{
		Name:   "Midterm",
		Params: first.Params,
		Cutoff: 70,
		Seed:   5,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), reseeded.Generation)

	_, err = application.Apply(&definition.Definition{
		Params: sampler.Params{Count: 1, Mean: 50, StdDev: 1},
		Seed:   5,
	})
	assert.ErrorIs(t, err, sampler.ErrInvalidCount)
}

func TestApplication_ConcurrentApplyAndRender(t *testing.T) {
	outputDir := t.TempDir()
	inputFile := filepath.Join(outputDir, "quiz.json")
	require.NoError(t, os.WriteFile(inputFile,
		[]byte(`{"name": "Quiz", "count": 40, "mean": 60, "stdDev": 8, "cutoff": 55, "seed": 1}`),
		0600))
	application, err := NewApplication(&ApplicationParams{
		InputFile:       inputFile,
		OutputDirectory: outputDir,
	}, testLogger())
	require.NoError(t, err)
	params := application.Session().Snapshot().Params

	applyErrs := make(chan error, 10)
	renderErrs := make(chan error, 10)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 10; i++ {
			_, applyErr := application.Apply(&definition.Definition{
				Name:   "Quiz",
				Params: params,
				Cutoff: float64(50 + i),
				Seed:   uint64(1 + i%2),
			})
			applyErrs <- applyErr
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 10; i++ {
			_, renderErr := application.Render(context.Background(), application.Session().Snapshot())
			renderErrs <- renderErr
		}
	}()
	wg.Wait()
	close(applyErrs)
	close(renderErrs)
	for applyErr := range applyErrs {
		assert.NoError(t, applyErr)
	}
	for renderErr := range renderErrs {
		assert.NoError(t, renderErr)
	}
}

func TestNewApplication_InvalidDefinition(t *testing.T) {
	inputFile := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(inputFile, []byte(`{"stdDev": -1}`), 0600))
	_, err := NewApplication(&ApplicationParams{InputFile: inputFile}, testLogger())
	assert.ErrorIs(t, err, sampler.ErrInvalidStdDev)
}
