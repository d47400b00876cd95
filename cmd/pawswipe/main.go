package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/erazemk/pawswipe/internal/api"
	"github.com/erazemk/pawswipe/internal/db"
	"github.com/erazemk/pawswipe/internal/ingest"
	"github.com/erazemk/pawswipe/internal/metrics"
	"github.com/erazemk/pawswipe/internal/petfinder"
	"github.com/erazemk/pawswipe/internal/store"
	"github.com/erazemk/pawswipe/internal/web"
)

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	level  slog.Leveler
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= lr.level.Level()
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		level:  lr.level,
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		level:  lr.level,
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. INFO/WARN go to stdout, ERROR goes
// to stderr. If logPath is non-empty, all levels are also written to that file.
// Returns a cleanup function that closes the log file (if opened).
func setupLogger(logPath, levelName, format string) (func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", levelName)
	}
	opts := &slog.HandlerOptions{Level: level}

	var newHandler func(io.Writer, *slog.HandlerOptions) slog.Handler
	switch format {
	case "text":
		newHandler = func(w io.Writer, o *slog.HandlerOptions) slog.Handler { return slog.NewTextHandler(w, o) }
	case "json":
		newHandler = func(w io.Writer, o *slog.HandlerOptions) slog.Handler { return slog.NewJSONHandler(w, o) }
	default:
		return nil, fmt.Errorf("invalid log format %q (want text or json)", format)
	}

	var cleanup func()

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		level:  level,
		stdout: newHandler(stdoutW, opts),
		stderr: newHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

type config struct {
	dbPath    string
	addr      string
	logPath   string
	logLevel  string
	logFormat string

	apiURL    string
	apiID     string
	apiSecret string

	location      string
	limit         int
	types         string
	reset         bool
	photos        bool
	ingestTimeout time.Duration
	noIngest      bool
}

func parseFlags(args []string) (*config, error) {
	fs := flag.NewFlagSet("pawswipe", flag.ContinueOnError)
	cfg := &config{}

	fs.StringVar(&cfg.dbPath, "db", "pawswipe.sqlite3", "")
	fs.StringVar(&cfg.dbPath, "d", "pawswipe.sqlite3", "")

	fs.StringVar(&cfg.addr, "addr", ":8080", "")
	fs.StringVar(&cfg.addr, "a", ":8080", "")

	fs.StringVar(&cfg.logPath, "log", "", "")
	fs.StringVar(&cfg.logPath, "l", "", "")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "")
	fs.StringVar(&cfg.logFormat, "log-format", "text", "")

	fs.StringVar(&cfg.apiURL, "petfinder-url", petfinder.DefaultBaseURL, "")
	fs.StringVar(&cfg.apiID, "petfinder-id", os.Getenv("PETFINDER_API_KEY"), "")
	fs.StringVar(&cfg.apiSecret, "petfinder-secret", os.Getenv("PETFINDER_API_SECRET"), "")

	fs.StringVar(&cfg.location, "location", ingest.DefaultLocation, "")
	fs.IntVar(&cfg.limit, "limit", ingest.DefaultLimit, "")
	fs.StringVar(&cfg.types, "types", strings.Join(ingest.DefaultTypes, ","), "")
	fs.BoolVar(&cfg.reset, "reset", false, "")
	fs.BoolVar(&cfg.photos, "photos", false, "")
	fs.DurationVar(&cfg.ingestTimeout, "ingest-timeout", 60*time.Second, "")
	fs.BoolVar(&cfg.noIngest, "no-ingest", false, "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: pawswipe [flags]

Flags:
  -d, -db <path>              SQLite database path (default: pawswipe.sqlite3)
  -a, -addr <host:port>       listen address (default: :8080)
  -l, -log <path>             log file path (default: no file, stdout/stderr only)
  -log-level <level>          debug, info, warn or error (default: info)
  -log-format <format>        text or json (default: text)

Ingestion (runs once at startup):
  -petfinder-url <url>        adoption API base URL (default: `+petfinder.DefaultBaseURL+`)
  -petfinder-id <id>          API client id (env: PETFINDER_API_KEY)
  -petfinder-secret <secret>  API client secret (env: PETFINDER_API_SECRET)
  -location <loc>             search location (default: `+ingest.DefaultLocation+`)
  -limit <n>                  animals fetched per type (default: 10)
  -types <list>               comma-separated animal types (default: dog,cat)
  -reset                      clear the catalog and all decisions before loading
  -photos                     download and cache pet photos
  -ingest-timeout <duration>  ingestion time limit (default: 60s)
  -no-ingest                  skip ingestion and serve the existing catalog

  -h, -help                   show this help and exit
`)
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	return cfg, nil
}

func splitTypes(s string) []string {
	var types []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}
	return types
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Set up structured logging: INFO/WARN → stdout, ERROR → stderr.
	// Optionally also write to a log file.
	closeLog, err := setupLogger(cfg.logPath, cfg.logLevel, cfg.logFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	database, err := db.Open(cfg.dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	slog.Info("database ready", "path", cfg.dbPath)

	// Signals cancel a running ingest as well as the server.
	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New(database)

	if cfg.noIngest {
		slog.Info("ingestion disabled")
	} else {
		runIngest(sigCtx, cfg, database, m)
	}
	if sigCtx.Err() != nil {
		slog.Info("interrupted before the server started")
		return
	}

	apiRouter := api.NewRouter(database, m)
	webRouter, err := web.NewRouter(database)
	if err != nil {
		slog.Error("failed to set up web router", "error", err)
		os.Exit(1)
	}

	// Combine: API routes take priority, web routes handle the rest.
	mux := http.NewServeMux()
	for _, prefix := range api.Prefixes {
		mux.Handle(prefix, apiRouter)
	}
	mux.Handle("/", webRouter)

	handler := chimw.RequestID(chimw.RealIP(api.LoggingMiddleware(m.Instrument(chimw.Recoverer(mux)))))

	server := &http.Server{
		Addr:              cfg.addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	go func() {
		<-sigCtx.Done()
		slog.Info("shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped, closing database")
}

// runIngest loads the catalog from the adoption API. Failures are logged and
// the server starts on whatever catalog already exists.
func runIngest(ctx context.Context, cfg *config, database *sql.DB, m *metrics.Metrics) {
	if cfg.apiID == "" || cfg.apiSecret == "" {
		slog.Warn("adoption API credentials not set, skipping ingestion",
			"hint", "set -petfinder-id/-petfinder-secret or PETFINDER_API_KEY/PETFINDER_API_SECRET")
		return
	}

	client, err := petfinder.NewClient(petfinder.Config{
		BaseURL:      cfg.apiURL,
		ClientID:     cfg.apiID,
		ClientSecret: cfg.apiSecret,
		Cache:        &store.TokenCache{DB: database},
	})
	if err != nil {
		slog.Error("failed to create adoption API client", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.ingestTimeout)
	defer cancel()

	if _, err := ingest.Run(ctx, database, client, ingest.Options{
		Types:    splitTypes(cfg.types),
		Location: cfg.location,
		Limit:    cfg.limit,
		Reset:    cfg.reset,
		Photos:   cfg.photos,
		Metrics:  m,
	}); err != nil {
		slog.Error("ingestion failed, serving existing catalog", "error", err)
	}
}
