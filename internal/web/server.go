package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fragsort/internal/app"
	"fragsort/internal/assemble"
	"fragsort/internal/model"
	"fragsort/internal/source"
)

//go:embed static/*
var staticFS embed.FS

//go:embed help.md
var helpMD string

const (
	maxBodyBytes    = 8 << 20
	watchDebounce   = 150 * time.Millisecond
	shutdownTimeout = 5 * time.Second
)

// Server serves assembly results over HTTP. The result for the configured
// input is cached and refreshed on demand or when the input changes.
type Server struct {
	runner *app.Runner
	logger *zap.Logger

	mu      sync.RWMutex
	last    *app.Result
	lastErr error
}

// NewServer returns a Server backed by runner.
func NewServer(runner *app.Runner) *Server {
	return &Server{runner: runner, logger: runner.Logger.Named("web")}
}

type assembleResponse struct {
	*app.Result
	Report        string `json:"report"`
	VerboseReport string `json:"verbose_report"`
}

type errorResponse struct {
	Error string `json:"error"`
	Line  int    `json:"line,omitempty"`
	Value string `json:"value,omitempty"`
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	subFS, _ := fs.Sub(staticFS, "static")
	mux.Handle("GET /", http.FileServer(http.FS(subFS)))

	mux.HandleFunc("GET /api/assemble", s.handleCached)
	mux.HandleFunc("POST /api/assemble", s.handlePosted)
	mux.HandleFunc("GET /api/report", s.handleReport)
	mux.HandleFunc("GET /api/help", handleHelp)
	if rec := s.runner.Metrics; rec != nil {
		mux.Handle("GET /metrics", rec.Handler())
	}
	return mux
}

// Refresh reruns the configured input and replaces the cached result.
func (s *Server) Refresh(ctx context.Context) error {
	res, err := s.runner.Run(ctx)
	s.mu.Lock()
	s.last, s.lastErr = res, err
	s.mu.Unlock()
	return err
}

// Latest returns the cached result and the error of the run that produced it.
func (s *Server) Latest() (*app.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.lastErr
}

func (s *Server) latestOrRun(ctx context.Context) (*app.Result, error) {
	res, err := s.Latest()
	if res == nil && err == nil {
		_ = s.Refresh(context.WithoutCancel(ctx))
		res, err = s.Latest()
	}
	return res, err
}

// Serve listens on addr until ctx is cancelled. With watch set, the input
// file is watched and the cache refreshed on every change.
func (s *Server) Serve(ctx context.Context, addr string, watch bool) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if watch {
		g.Go(func() error { return s.Watch(ctx, s.runner.Config.Input) })
	}
	return g.Wait()
}

// Watch refreshes the cache whenever path is written or replaced. Bursts of
// events are collapsed into a single refresh. It returns when ctx is done.
func (s *Server) Watch(ctx context.Context, path string) error {
	abs, err := filepath.Abs(model.ExpandHome(path))
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	// Watch the directory: editors often replace the file instead of writing it.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	log := s.logger.With(zap.String("input", abs))
	log.Info("watching input")

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			if err := s.Refresh(ctx); err != nil {
				log.Warn("refresh failed", zap.Error(err))
				continue
			}
			log.Info("input changed, chain rebuilt")
		}
	}
}

func (s *Server) handleCached(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Has("refresh") {
		// The refresh replaces the shared cache and the output file, so a
		// client hanging up must not cut it short.
		_ = s.Refresh(context.WithoutCancel(r.Context()))
	}
	res, err := s.latestOrRun(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, newAssembleResponse(res))
}

func (s *Server) handlePosted(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}
	frags, err := source.ParseLines(string(body), s.runner.Config.Rules())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	res, err := s.runner.RunFragments(r.Context(), frags)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, newAssembleResponse(res))
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	res, err := s.latestOrRun(r.Context())
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	verbose := r.URL.Query().Has("verbose")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, app.GenerateReport(res, verbose))
}

func handleHelp(w http.ResponseWriter, r *http.Request) {
	text := strings.ReplaceAll(helpMD, "{{VERSION}}", model.Version)

	w.Header().Set("Content-Type", "text/markdown")
	_, _ = io.WriteString(w, text)
}

func newAssembleResponse(res *app.Result) assembleResponse {
	return assembleResponse{
		Result:        res,
		Report:        app.GenerateReport(res, false),
		VerboseReport: app.GenerateReport(res, true),
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, source.ErrMalformedFragment),
		errors.Is(err, source.ErrNoFragments),
		errors.Is(err, assemble.ErrBadOverlap):
		return http.StatusBadRequest
	case errors.Is(err, source.ErrSourceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := errorResponse{Error: err.Error()}
	var le *source.LineError
	if errors.As(err, &le) {
		resp.Line, resp.Value = le.Line, le.Value
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
