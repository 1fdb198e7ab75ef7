package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"fragsort/internal/config"
	"fragsort/internal/metrics"
	"fragsort/internal/model"
	"fragsort/internal/source"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeInput(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "source.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	return path
}

func testConfig(input string) config.Config {
	cfg := config.Default()
	cfg.Input = input
	cfg.Output = filepath.Join(filepath.Dir(input), "sequence.txt")
	return cfg
}

func TestRunner_Run(t *testing.T) {
	input := writeInput(t, "901234", "123456", "567890", "777777")
	cfg := testConfig(input)
	rec := metrics.New()

	core, logs := observer.New(zapcore.DebugLevel)
	r := NewRunner(cfg, zap.New(core), rec)

	res, err := r.Run(context.Background())
	require.NoError(t, err)

	_, err = uuid.Parse(res.RunID)
	assert.NoError(t, err)
	assert.Equal(t, model.Chain{"123456", "567890", "901234"}, res.Assembly.Chain)
	assert.Equal(t, []model.Fragment{"777777"}, res.Assembly.Excluded)
	assert.Equal(t, "12345678901234", res.Assembly.Merged)
	assert.True(t, res.Saved)
	assert.Equal(t, input, res.Source)

	saved, err := source.LoadFile(cfg.Output, cfg.Rules())
	require.NoError(t, err)
	assert.Equal(t, res.Assembly.Chain, model.Chain(saved))

	assert.Equal(t, 1, logs.FilterMessage("assembly finished").Len())
	assert.Equal(t, 1, logs.FilterMessage("chain saved").Len())
	series, err := testutil.GatherAndCount(rec.Registry(), "fragsort_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 1, series)
}

func TestRunner_NoOutput(t *testing.T) {
	cfg := testConfig(writeInput(t, "123456", "567890"))
	cfg.Output = ""

	res, err := NewRunner(cfg, nil, nil).Run(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Saved)
	assert.Empty(t, res.OutputPath)
}

func TestRunner_CancelledRunDoesNotSave(t *testing.T) {
	cfg := testConfig(writeInput(t, "123456", "567890"))
	core, logs := observer.New(zapcore.DebugLevel)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := NewRunner(cfg, zap.New(core), nil).Run(ctx)
	require.NoError(t, err)

	assert.True(t, res.Assembly.Validation.Valid)
	assert.False(t, res.Saved)
	_, statErr := os.Stat(cfg.Output)
	assert.True(t, os.IsNotExist(statErr))
	assert.Equal(t, 1, logs.FilterMessage("run cancelled, not saving").Len())
}

func TestRunner_LoadErrors(t *testing.T) {
	t.Run("missing input", func(t *testing.T) {
		cfg := testConfig(filepath.Join(t.TempDir(), "missing.txt"))
		_, err := NewRunner(cfg, nil, nil).Run(context.Background())
		assert.ErrorIs(t, err, source.ErrSourceUnavailable)
	})

	t.Run("malformed line", func(t *testing.T) {
		cfg := testConfig(writeInput(t, "123456", "12345"))
		_, err := NewRunner(cfg, nil, nil).Run(context.Background())
		assert.ErrorIs(t, err, source.ErrMalformedFragment)
		_, statErr := os.Stat(cfg.Output)
		assert.True(t, os.IsNotExist(statErr), "nothing is written after a load error")
	})
}

func TestRunner_SearchTimeout(t *testing.T) {
	var lines []string
	for _, a := range "0123456789" {
		for _, b := range "0123456789" {
			lines = append(lines, string(a)+string(b))
		}
	}
	cfg := testConfig(writeInput(t, lines...))
	cfg.FragmentLength = 2
	cfg.Overlap = 1
	cfg.Search.MaxStates = 0
	cfg.Search.MaxFrontier = 100_000
	cfg.Search.Timeout = 20 * time.Millisecond

	res, err := NewRunner(cfg, nil, nil).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Assembly.Search.TimedOut)
	assert.True(t, res.Assembly.Validation.Valid)
	assert.True(t, res.Saved)
}

func TestGenerateReport(t *testing.T) {
	cfg := testConfig(writeInput(t, "123456", "567890", "999999"))
	res, err := NewRunner(cfg, nil, nil).Run(context.Background())
	require.NoError(t, err)

	report := GenerateReport(res, false)
	assert.Contains(t, report, "Total pieces:     2")
	assert.Contains(t, report, "Sequence is valid: true")
	assert.Contains(t, report, "The sequence is fully valid.")
	assert.Contains(t, report, "1234567890")
	assert.Contains(t, report, "Excluded isolated pieces (1)")
	assert.Contains(t, report, "Sorted sequence saved to "+cfg.Output)
	assert.NotContains(t, report, "Out-degree per fragment")

	verbose := GenerateReport(res, true)
	assert.Contains(t, verbose, "Out-degree per fragment")
	assert.Contains(t, verbose, "Stage timings")
}

func TestGenerateReport_InvalidChain(t *testing.T) {
	res := &Result{
		RunID:   "run-1",
		Version: model.Version,
		Assembly: model.Assembly{
			Input:      2,
			Overlap:    2,
			Chain:      model.Chain{"123456", "345678"},
			Validation: model.ValidationResult{Valid: false, FailIndex: 0},
		},
	}
	report := GenerateReport(res, false)
	assert.Contains(t, report, "Sequence is valid: false")
	assert.Contains(t, report, "Error at index 0: 123456 -> 345678")
	assert.Contains(t, report, "The sequence is invalid. Not saving to file.")
	assert.NotContains(t, report, "Merged value")
}
