package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/five82/folio/internal/books"
	"github.com/five82/folio/internal/config"
	"github.com/five82/folio/internal/logger"
	"github.com/five82/folio/internal/logtail"
	"github.com/five82/folio/internal/prefs"
	"github.com/five82/folio/internal/search"
	"github.com/five82/folio/internal/ui"

	"github.com/rs/zerolog"
)

// Options configure the folio application. Non-zero fields override the
// config file.
type Options struct {
	ConfigPath  string
	PrefsPath   string // empty uses default ~/.config/folio/prefs.toml
	Endpoint    string
	Debounce    time.Duration
	Theme       string
	LogLevel    string
	LogFile     string
	MetricsAddr string
	Query       string // submitted as soon as the TUI starts
}

// ErrEmptyQuery is returned by Search for a blank query.
var ErrEmptyQuery = errors.New("query is empty")

// Run boots the folio TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := setup(opts)
	if err != nil {
		return err
	}
	defer env.close()

	if env.cfg.MetricsAddr != "" {
		addr, err := StartMetricsServer(ctx, env.cfg.MetricsAddr, env.log)
		if err != nil {
			return fmt.Errorf("start metrics server: %w", err)
		}
		env.log.Info().Str("addr", addr.String()).Msg("metrics listening")
	}

	userPrefs, err := prefs.Load(opts.PrefsPath, ui.ThemeNames())
	if err != nil {
		env.log.Warn().Err(err).Msg("prefs unreadable, using defaults")
	}
	theme := userPrefs.Theme
	if strings.TrimSpace(opts.Theme) != "" {
		theme = opts.Theme
	}

	env.log.Info().
		Str("endpoint", env.client.Endpoint()).
		Dur("debounce", env.cfg.Debounce).
		Str("theme", theme).
		Msg("folio starting")

	return ui.Run(ui.Options{
		Context:      ctx,
		Searcher:     env.client,
		Logger:       env.log,
		ThemeName:    theme,
		PrefsPath:    opts.PrefsPath,
		Debounce:     env.cfg.Debounce,
		InitialQuery: opts.Query,
	})
}

// Search runs query once without the TUI and writes one entry per book to w.
// An empty result prints the no-results message; a failed request returns
// an error carrying the network-failure message.
func Search(ctx context.Context, opts Options, query string, w io.Writer) error {
	env, err := setup(opts)
	if err != nil {
		return err
	}
	defer env.close()

	state := search.New(env.cfg.Debounce)
	state, _ = state.SetQuery(query)
	state, eff := state.Submit()
	start, ok := eff.(search.StartSearch)
	if !ok {
		return ErrEmptyQuery
	}

	found, err := env.client.Search(ctx, start.Query)
	state = state.Resolve(start.Request, found, err)

	switch state.Status {
	case search.StatusFailed:
		return fmt.Errorf("%s: %w", state.Message, err)
	case search.StatusEmpty:
		_, err := fmt.Fprintln(w, state.Message)
		return err
	}
	return writeBooks(w, state.Results)
}

func writeBooks(w io.Writer, list []books.Book) error {
	for i, b := range list {
		if _, err := fmt.Fprintf(w, "%s\n  %s\n  %s\n", b.DisplayTitle(), b.DisplayAuthors(), b.ListThumbnail()); err != nil {
			return err
		}
		if i < len(list)-1 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
	}
	return nil
}

// Logs writes the last n lines of the configured log file to w, rendered in
// console form. Records below minLevel are skipped; an empty minLevel keeps
// everything.
func Logs(opts Options, n int, minLevel string, w io.Writer) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applyOverrides(&cfg, opts); err != nil {
		return err
	}

	lines, err := logtail.Read(cfg.LogFile, n)
	if err != nil {
		return err
	}
	if v := strings.TrimSpace(minLevel); v != "" {
		level, err := zerolog.ParseLevel(strings.ToLower(v))
		if err != nil {
			return fmt.Errorf("parse level: %w", err)
		}
		lines = logtail.MinLevel(lines, level)
	}
	for _, line := range logtail.Humanize(lines) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// env is the set of dependencies shared by Run and Search.
type env struct {
	cfg    config.Config
	log    *logger.Logger
	client *books.Client
	close  func()
}

func setup(opts Options) (*env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := applyOverrides(&cfg, opts); err != nil {
		return nil, err
	}

	log, closeLog := openLogger(cfg)

	client, err := books.NewClient(cfg.Endpoint,
		books.WithUserAgent(cfg.UserAgent),
		books.WithTimeout(cfg.RequestTimeout),
		books.WithRateLimit(cfg.RequestsPerSecond),
		books.WithLogger(log.WithComponent("books")),
	)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("init books client: %w", err)
	}

	return &env{cfg: cfg, log: log, client: client, close: closeLog}, nil
}

func applyOverrides(cfg *config.Config, opts Options) error {
	if v := strings.TrimSpace(opts.Endpoint); v != "" {
		cfg.Endpoint = v
	}
	if opts.Debounce > 0 {
		cfg.Debounce = opts.Debounce
	}
	if v := strings.TrimSpace(opts.LogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(opts.LogFile); v != "" {
		expanded, err := config.ExpandPath(v)
		if err != nil {
			return fmt.Errorf("log file %q: %w", v, err)
		}
		cfg.LogFile = expanded
	}
	if v := strings.TrimSpace(opts.MetricsAddr); v != "" {
		cfg.MetricsAddr = v
	}
	return nil
}

// openLogger installs the global logger writing to cfg.LogFile. The TUI owns
// the terminal, so when the file cannot be opened logs are discarded.
func openLogger(cfg config.Config) (*logger.Logger, func()) {
	file, err := logger.OpenFile(cfg.LogFile)
	if err != nil {
		return logger.Setup(logger.Config{Level: cfg.LogLevel}), func() {}
	}
	log := logger.Setup(logger.Config{
		Level:  cfg.LogLevel,
		Format: logger.ParseFormat(cfg.LogFormat),
		Output: file,
	})
	return log, func() { _ = file.Close() }
}
