// Package app wires the loader, the assembler, persistence, logging and
// metrics into one run. The CLI, TUI and web modes all go through Runner.
package app

import (
	"context"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fragsort/internal/assemble"
	"fragsort/internal/config"
	"fragsort/internal/metrics"
	"fragsort/internal/model"
	"fragsort/internal/source"
)

// Result is one finished run.
type Result struct {
	RunID      string         `json:"run_id"`
	Version    string         `json:"version"`
	Source     string         `json:"source,omitempty"`
	Assembly   model.Assembly `json:"assembly"`
	Saved      bool           `json:"saved"`
	OutputPath string         `json:"output_path,omitempty"`
	Elapsed    time.Duration  `json:"elapsed_ns"`
	HeapAlloc  uint64         `json:"heap_alloc_bytes"`
}

// Runner executes reconstruction runs with a fixed configuration.
type Runner struct {
	Config  config.Config
	Logger  *zap.Logger
	Metrics *metrics.Recorder
}

// NewRunner returns a Runner. A nil logger is replaced by a no-op one.
func NewRunner(cfg config.Config, logger *zap.Logger, rec *metrics.Recorder) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{Config: cfg, Logger: logger, Metrics: rec}
}

// Run loads the configured input, reconstructs the chain and, when the
// chain is valid, an output path is set and ctx was not cancelled, saves it.
// Loader and write failures are errors; an invalid chain is not.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	log := r.Logger.With(zap.String("input", r.Config.Input))
	log.Debug("loading fragments")

	frags, err := source.LoadFile(r.Config.Input, r.Config.Rules())
	if err != nil {
		log.Error("load failed", zap.Error(err))
		return nil, err
	}

	res, err := r.RunFragments(ctx, frags)
	if err != nil {
		return nil, err
	}
	res.Source = r.Config.Input

	if r.Config.Output == "" {
		return res, nil
	}
	if err := ctx.Err(); err != nil {
		log.Warn("run cancelled, not saving", zap.String("run_id", res.RunID), zap.Error(err))
		return res, nil
	}
	if !res.Assembly.Validation.Valid {
		log.Warn("chain is invalid, not saving",
			zap.String("run_id", res.RunID),
			zap.Int("fail_index", res.Assembly.Validation.FailIndex))
		return res, nil
	}
	if err := source.SaveChain(r.Config.Output, res.Assembly.Chain); err != nil {
		log.Error("save failed", zap.String("run_id", res.RunID), zap.Error(err))
		return res, err
	}
	res.Saved = true
	res.OutputPath = r.Config.Output
	log.Info("chain saved",
		zap.String("run_id", res.RunID),
		zap.String("output", r.Config.Output),
		zap.Int("fragments", res.Assembly.Chain.Len()))
	return res, nil
}

// RunFragments reconstructs a chain from already loaded fragments. The
// configured search timeout bounds the path search only.
func (r *Runner) RunFragments(ctx context.Context, frags []model.Fragment) (*Result, error) {
	res := &Result{RunID: uuid.NewString(), Version: model.Version}
	log := r.Logger.With(zap.String("run_id", res.RunID))
	log.Debug("assembling", zap.Int("fragments", len(frags)), zap.Int("overlap", r.Config.Overlap))

	if r.Config.Search.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Config.Search.Timeout)
		defer cancel()
	}

	t0 := time.Now()
	asm, err := assemble.NewAssembler(r.Config.AssembleOptions()).Assemble(ctx, frags)
	res.Elapsed = time.Since(t0)
	if err != nil {
		log.Error("assembly failed", zap.Error(err))
		return nil, err
	}
	res.Assembly = asm

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	res.HeapAlloc = ms.HeapAlloc

	r.Metrics.Observe(asm)

	fields := []zap.Field{
		zap.Int("chain", asm.Chain.Len()),
		zap.Int("excluded", len(asm.Excluded)),
		zap.Bool("valid", asm.Validation.Valid),
		zap.Int("states", asm.Search.StatesExplored),
		zap.Duration("elapsed", res.Elapsed),
	}
	if asm.Search.Truncated {
		log.Warn("path search stopped early",
			append(fields, zap.Bool("timed_out", asm.Search.TimedOut), zap.Int("dropped", asm.Search.StatesDropped))...)
	} else {
		log.Info("assembly finished", fields...)
	}
	for _, st := range asm.Timings {
		log.Debug("stage", zap.String("stage", st.Stage), zap.Duration("took", st.Duration))
	}
	return res, nil
}
