// Package app implements the application layer for lockmend.
package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/lockmend/internal/adapters/detector"
	"go.trai.ch/lockmend/internal/adapters/linear"
	"go.trai.ch/lockmend/internal/adapters/telemetry"
	"go.trai.ch/lockmend/internal/adapters/watcher"
	"go.trai.ch/lockmend/internal/core/domain"
	"go.trai.ch/lockmend/internal/core/ports"
	"go.trai.ch/lockmend/internal/engine/autofix"
	"go.trai.ch/lockmend/internal/ui/output"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	fixer        *autofix.Fixer
	logger       ports.Logger
	watcher      ports.Watcher
	stdout       io.Writer
	stderr       io.Writer
	profileFn    func() termenv.Profile
	debounce     time.Duration
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	fixer *autofix.Fixer,
	log ports.Logger,
	w ports.Watcher,
) *App {
	return &App{
		configLoader: loader,
		fixer:        fixer,
		logger:       log,
		watcher:      w,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
		profileFn:    output.ColorProfile,
		debounce:     watcher.DefaultDebounceWindow,
	}
}

// WithOutput sets where merged lockfiles and progress lines are written.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// WithDebounce sets the quiet period watch mode waits for before fixing.
func (a *App) WithDebounce(window time.Duration) *App {
	a.debounce = window
	return a
}

// LogOptions configures logging for the session.
type LogOptions struct {
	Verbose bool
	// Format is one of auto, pretty, plain or json.
	Format string
}

// logConfigurer is implemented by loggers that can be tuned at startup.
type logConfigurer interface {
	SetJSON(enable bool)
	SetLevel(level slog.Level)
	SetProfile(profileFn func() termenv.Profile)
}

// ConfigureLogging applies the log format and verbosity.
func (a *App) ConfigureLogging(opts LogOptions) {
	format := detector.ResolveFormat(detector.DetectEnvironment(), opts.Format)
	switch format {
	case detector.FormatPlain:
		a.profileFn = output.ColorProfileANSI
	case detector.FormatJSON:
		a.profileFn = output.ColorProfileAscii
	default:
		a.profileFn = output.ColorProfile
	}

	l, ok := a.logger.(logConfigurer)
	if !ok {
		return
	}
	l.SetJSON(format == detector.FormatJSON)
	l.SetProfile(a.profileFn)
	if opts.Verbose {
		l.SetLevel(slog.LevelDebug)
	}
}

// FixOptions configuration for the Fix method.
type FixOptions struct {
	// Cwd is where the project search starts, the process directory when empty.
	Cwd string
	// Immutable refuses to modify a conflicted lockfile, on top of the project setting.
	Immutable bool
	// DryRun prints the merged lockfile instead of writing it.
	DryRun bool
	// Progress prints one line per pipeline stage.
	Progress bool
}

// Fix repairs the project lockfile when it carries merge conflicts.
func (a *App) Fix(ctx context.Context, opts FixOptions) error {
	cfg, err := a.loadConfig(opts.Cwd)
	if err != nil {
		return err
	}

	req := autofix.RequestFromConfig(cfg)
	req.Immutable = req.Immutable || opts.Immutable

	fixer, shutdown := a.fixerFor(opts.Progress)
	defer shutdown()

	if opts.DryRun {
		content, err := fixer.Preview(ctx, req)
		if err != nil {
			return err
		}
		if content == nil {
			a.logger.Info("lockfile has no conflicts")
			return nil
		}
		if _, err := a.stdout.Write(content); err != nil {
			return zerr.Wrap(err, "failed to write merged lockfile")
		}
		return nil
	}

	fixed, err := fixer.Fix(ctx, req)
	if err != nil {
		return err
	}
	if fixed {
		a.logger.Info("lockfile conflicts resolved")
	} else {
		a.logger.Debug("lockfile has no conflicts")
	}
	return nil
}

// CheckOptions configuration for the Check method.
type CheckOptions struct {
	Cwd string
}

// Check reports the state of the project lockfile without modifying it.
func (a *App) Check(ctx context.Context, opts CheckOptions) (autofix.Status, error) {
	cfg, err := a.loadConfig(opts.Cwd)
	if err != nil {
		return autofix.StatusNoProject, err
	}

	status, err := a.fixer.Check(ctx, autofix.RequestFromConfig(cfg))
	if err != nil {
		return status, err
	}

	switch status {
	case autofix.StatusConflicted:
		a.logger.Warn(cfg.LockfileFilename + " has merge conflicts")
	case autofix.StatusClean:
		a.logger.Info(cfg.LockfileFilename + " has no conflicts")
	default:
		a.logger.Info(status.String())
	}
	return status, nil
}

func (a *App) loadConfig(cwd string) (domain.Config, error) {
	if cwd == "" {
		cwd = "."
	}
	cfg, err := a.configLoader.Load(cwd)
	if err != nil {
		return domain.Config{}, zerr.Wrap(err, "failed to load configuration")
	}
	return cfg, nil
}

// fixerFor returns the fixer to run, reporting stages to the renderer when progress is on.
// The returned function flushes pending progress output.
func (a *App) fixerFor(progress bool) (*autofix.Fixer, func()) {
	if !progress {
		return a.fixer, func() {}
	}

	renderer := linear.NewRenderer(a.stderr, a.profileFn)
	provider := telemetry.NewProvider(telemetry.NewBridge(renderer))
	tracer := telemetry.NewOTelTracer(provider)

	return a.fixer.WithTracer(tracer), func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			a.logger.Warn("failed to flush progress output: " + err.Error())
		}
	}
}
