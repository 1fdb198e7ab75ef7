package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"github.com/tcnksm/go-latest"
	"go.uber.org/zap"

	"fragsort/internal/app"
	"fragsort/internal/config"
	"fragsort/internal/logging"
	"fragsort/internal/metrics"
	"fragsort/internal/model"
	"fragsort/internal/source"
	"fragsort/internal/tui"
	"fragsort/internal/web"
)

func checkUpdate(currentVer string) {
	githubTag := &latest.GithubTag{
		Owner:      "fragsort",
		Repository: "fragsort",
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not check for updates: %v\n", err)
		return
	}

	if res.Outdated {
		fmt.Printf("\n✨ A new version is available: %s (you have %s)\n", res.Current, currentVer)
		fmt.Println("👉 Download it from https://github.com/fragsort/fragsort/releases")
	} else {
		fmt.Printf("✅ You are using the latest version: %s\n", currentVer)
	}
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fragsort [options]\n\n")
		fmt.Fprintf(os.Stderr, "fragsort rebuilds a sequence from fixed-length fragments whose ends overlap.\n")
		fmt.Fprintf(os.Stderr, "It finds the longest chain it can, attaches leftovers to its ends, validates it\n")
		fmt.Fprintf(os.Stderr, "and saves it one fragment per line.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  fragsort                    # TUI on a terminal, report otherwise\n")
		fmt.Fprintf(os.Stderr, "  fragsort -r -i frags.txt    # Print the report for frags.txt\n")
		fmt.Fprintf(os.Stderr, "  fragsort -k 3 -l 8 --json   # 8-char fragments overlapping by 3, JSON out\n")
		fmt.Fprintf(os.Stderr, "  fragsort -w --watch         # Web mode, rebuild when the input changes\n")
		fmt.Fprintf(os.Stderr, "  fragsort -c fragsort.yaml   # Load settings from a file\n")
	}

	inputFlag := pflag.StringP("input", "i", "", "Fragment file, one fragment per line (default source.txt)")
	outputFlag := pflag.StringP("output", "o", "", "Where to save a valid chain (default sequence.txt)")
	overlapFlag := pflag.IntP("overlap", "k", 0, "Overlap length K (default 2)")
	lengthFlag := pflag.IntP("length", "l", 0, "Fragment length, 0 infers it from the first line (default 6)")
	configFlag := pflag.StringP("config", "c", "", "YAML config file")
	reportFlag := pflag.BoolP("report", "r", false, "Print the text report (CLI mode)")
	jsonFlag := pflag.BoolP("json", "j", false, "Print the run result as JSON")
	tuiFlag := pflag.BoolP("tui", "t", false, "Force TUI mode")
	webFlag := pflag.BoolP("web", "w", false, "Start Web Mode")
	addrFlag := pflag.String("addr", "", "Web listen address (default :8080)")
	watchFlag := pflag.Bool("watch", false, "In web mode, rebuild when the input file changes")
	maxStatesFlag := pflag.Int("max-states", 0, "Stop the path search after this many states (0 = unlimited)")
	maxFrontierFlag := pflag.Int("max-frontier", 0, "Cap on queued search states (0 = unlimited)")
	timeoutFlag := pflag.Duration("timeout", 0, "Time limit for the path search (0 = none)")
	fixedPointFlag := pflag.Bool("fixed-point", false, "Repeat end extension until nothing more attaches")
	verboseFlag := pflag.BoolP("verbose", "v", false, "Debug logging and detailed report")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	updateFlag := pflag.BoolP("update", "u", false, "Check for latest version")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	if *versionFlag {
		fmt.Printf("fragsort version %s\n", model.Version)
		return
	}

	if *updateFlag {
		checkUpdate(model.Version)
		return
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	changed := pflag.CommandLine.Changed
	if changed("input") {
		cfg.Input = *inputFlag
	}
	if changed("output") {
		cfg.Output = *outputFlag
	}
	if changed("overlap") {
		cfg.Overlap = *overlapFlag
	}
	if changed("length") {
		cfg.FragmentLength = *lengthFlag
	}
	if changed("addr") {
		cfg.Web.Addr = *addrFlag
	}
	if changed("watch") {
		cfg.Web.Watch = *watchFlag
	}
	if changed("max-states") {
		cfg.Search.MaxStates = *maxStatesFlag
	}
	if changed("max-frontier") {
		cfg.Search.MaxFrontier = *maxFrontierFlag
	}
	if changed("timeout") {
		cfg.Search.Timeout = *timeoutFlag
	}
	if changed("fixed-point") {
		cfg.Extend.FixedPoint = *fixedPointFlag
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration:\n%v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *webFlag:
		runWebMode(ctx, cfg, *verboseFlag)
	case *jsonFlag:
		runJsonMode(ctx, cfg, *verboseFlag)
	case *reportFlag:
		runReportMode(ctx, cfg, *verboseFlag)
	case *tuiFlag || isatty.IsTerminal(os.Stdout.Fd()):
		runTuiMode(cfg)
	default:
		runReportMode(ctx, cfg, *verboseFlag)
	}
}

func newLogger(cfg config.Config, verbose bool) *zap.Logger {
	logger, err := logging.New(cfg.Log, verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return logger
}

// fail prints err and, for a rejected input line, the lines around it.
func fail(cfg config.Config, err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	var le *source.LineError
	if errors.As(err, &le) {
		fmt.Fprintf(os.Stderr, "\n%s\n", model.GetLineContext(cfg.Input, le.Line, 2))
	}
	os.Exit(1)
}

func run(ctx context.Context, cfg config.Config, verbose bool) *app.Result {
	logger := newLogger(cfg, verbose)
	defer logger.Sync()

	res, err := app.NewRunner(cfg, logger, nil).Run(ctx)
	if err != nil {
		fail(cfg, err)
	}
	return res
}

func runReportMode(ctx context.Context, cfg config.Config, verbose bool) {
	res := run(ctx, cfg, verbose)
	fmt.Println(app.GenerateReport(res, verbose))
}

func runJsonMode(ctx context.Context, cfg config.Config, verbose bool) {
	res := run(ctx, cfg, verbose)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		fail(cfg, err)
	}
}

func runWebMode(ctx context.Context, cfg config.Config, verbose bool) {
	logger := newLogger(cfg, verbose)
	defer logger.Sync()

	srv := web.NewServer(app.NewRunner(cfg, logger, metrics.New()))
	if err := srv.Refresh(ctx); err != nil {
		logger.Warn("initial run failed", zap.Error(err))
	}

	fmt.Printf("Starting fragsort web server at http://localhost%s\n", cfg.Web.Addr)
	if err := srv.Serve(ctx, cfg.Web.Addr, cfg.Web.Watch); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTuiMode(cfg config.Config) {
	// Log lines would tear the alternate screen; the TUI shows errors itself.
	m := tui.InitialModel(app.NewRunner(cfg, zap.NewNop(), nil))
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}
