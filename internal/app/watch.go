package app

import (
	"context"
	"errors"

	"go.trai.ch/lockmend/internal/adapters/watcher"
	"go.trai.ch/lockmend/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// WatchOptions configuration for the Watch method.
type WatchOptions struct {
	Cwd      string
	Progress bool
}

// Watch fixes the lockfile once, then again every time it changes, until ctx is done.
// Failed fixes are logged and do not stop the watch.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	cfg, err := a.loadConfig(opts.Cwd)
	if err != nil {
		return err
	}
	if !cfg.HasProject() {
		return domain.ErrNoProjectRoot
	}

	fixOpts := FixOptions{Cwd: cfg.ProjectRoot, Progress: opts.Progress}
	a.fixOnce(ctx, fixOpts)

	if err := a.watcher.Start(ctx, cfg.LockfilePath()); err != nil {
		return err
	}
	defer func() {
		if err := a.watcher.Stop(); err != nil {
			a.logger.Warn("failed to stop watcher: " + err.Error())
		}
	}()
	a.logger.Info("watching " + cfg.LockfilePath())

	trigger := make(chan struct{}, 1)
	debouncer := watcher.NewDebouncer(a.debounce, func([]string) {
		select {
		case trigger <- struct{}{}:
		default:
		}
	})
	defer debouncer.Stop()

	g, groupCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for event := range a.watcher.Events() {
			debouncer.Add(event.Path)
		}
		return nil
	})
	g.Go(func() error {
		for {
			select {
			case <-groupCtx.Done():
				return nil
			case <-trigger:
				a.fixOnce(groupCtx, fixOpts)
			}
		}
	})

	return g.Wait()
}

func (a *App) fixOnce(ctx context.Context, opts FixOptions) {
	if err := a.Fix(ctx, opts); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		a.logger.Error(zerr.Wrap(err, "autofix failed"))
	}
}
