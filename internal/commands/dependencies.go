package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/mhdinshadk/Chat-Bot/internal/api"
	"github.com/mhdinshadk/Chat-Bot/internal/config"
	"github.com/mhdinshadk/Chat-Bot/internal/logging"
	"github.com/mhdinshadk/Chat-Bot/internal/models"
	"github.com/mhdinshadk/Chat-Bot/internal/render"
	"github.com/mhdinshadk/Chat-Bot/internal/tui"
)

// mockReplyDelay makes --mock replies visibly asynchronous
const mockReplyDelay = 750 * time.Millisecond

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// NewCompleter builds the completion client for the effective config.
	NewCompleter func(cfg config.Config, env config.Env, mock bool) (api.Completer, error)

	// RunChat starts the interactive chat interface.
	RunChat func(s tui.ChatSession, opts tui.Options) error

	// LoadEnv reads credentials and overrides from .env files and the environment.
	LoadEnv func() (config.Env, error)

	// CopyToClipboard writes text to the system clipboard.
	CopyToClipboard func(string) error

	// Terminal reports the stdout width and whether stdout is a terminal.
	Terminal func() (width int, isTTY bool)

	// StdinPiped reports whether a prompt is being piped in.
	StdinPiped func() bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewCompleter: buildCompleter,
		RunChat:      tui.RunChat,
		LoadEnv: func() (config.Env, error) {
			return config.LoadEnv(config.DotEnvFiles()...)
		},
		CopyToClipboard: clipboard.WriteAll,
		Terminal:        terminal,
		StdinPiped:      stdinPiped,
		Stdin:           os.Stdin,
		Stdout:          os.Stdout,
		Stderr:          os.Stderr,
	}
}

// buildCompleter selects the completion backend for the configured provider
func buildCompleter(cfg config.Config, env config.Env, mock bool) (api.Completer, error) {
	provider := cfg.Provider
	if mock {
		provider = models.ProviderMock
	}

	key, err := env.RequireKey(provider)
	if err != nil {
		return nil, err
	}

	switch provider {
	case models.ProviderMock:
		return api.NewEchoCompleter(mockReplyDelay), nil
	case models.ProviderOpenAI:
		baseURL := env.OpenAIBaseURL
		if baseURL == "" {
			baseURL = cfg.BaseURL
		}
		return api.NewOpenAIClient(key, baseURL, cfg.Model, cfg.Timeout())
	default:
		return api.NewClient(key,
			api.WithModel(models.ModelFromName(cfg.Model)),
			api.WithBaseURL(cfg.BaseURL),
			api.WithTimeout(cfg.Timeout()),
		)
	}
}

// closeCompleter releases clients that hold connections
func closeCompleter(c api.Completer) {
	if closer, ok := c.(interface{ Close() }); ok {
		closer.Close()
	}
}

// terminal returns the stdout width or a default value
func terminal() (int, bool) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 80, false
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return 80, true
	}
	return width, true
}

func stdinPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice == 0
}

// runtime is the per-invocation state shared by the commands
type runtime struct {
	cfg     config.Config
	env     config.Env
	log     zerolog.Logger
	logPath string
	closer  io.Closer
}

func (r *runtime) Close() {
	if r.closer != nil {
		_ = r.closer.Close()
	}
}

// setup loads config and environment, applies flag overrides and opens the log
func (d *Dependencies) setup(opts *rootOptions) (*runtime, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	env, err := d.LoadEnv()
	if err != nil {
		return nil, err
	}
	cfg = env.Apply(cfg)

	if opts.model != "" {
		cfg.Model = opts.model
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}

	logPath, err := config.GetLogPath(cfg)
	if err != nil {
		return nil, err
	}

	var console io.Writer
	if opts.logStderr {
		console = d.Stderr
	}
	logger, closer, err := logging.New(logging.Options{
		Level:      cfg.Log.Level,
		File:       logPath,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		Console:    console,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}

	if cfg.TUITheme != "" && render.SetTUITheme(cfg.TUITheme) {
		tui.UpdateTheme()
	}

	logger.Debug().
		Str("provider", string(cfg.Provider)).
		Str("model", cfg.Model).
		Bool("mock", opts.mock).
		Msg("startup")

	return &runtime{cfg: cfg, env: env, log: logger, logPath: logPath, closer: closer}, nil
}
