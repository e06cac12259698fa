// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"slices"

	"github.com/addonhelper/addonhelper/internal/issue"
	"github.com/addonhelper/addonhelper/internal/watch"
	"github.com/addonhelper/addonhelper/pkg/addons"

	"github.com/spf13/cobra"
)

func newWatchCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Install archives as soon as they land in the staging directory",
		Long: `Watch the staging directory and install archives as they arrive.

Events are debounced (watch.debounce, 2s by default) so large uploads
finish before the install runs. With watch.install_on_start, archives
already waiting are installed when the watcher starts. Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runWatch(cmd.Context(), flags)
		},
	}
}

func (a *App) runWatch(ctx context.Context, flags *rootFlagValues) error {
	sess, err := a.openSession(ctx, flags)
	if err != nil {
		return err
	}

	if sess.cfg.Watch.InstallOnStart {
		// A failed archive stays staged and is retried on the next change.
		if err := a.handle(ctx, sess, addons.VerbReloadPacks, nil); err != nil {
			var exitErr *ExitError
			if !errors.As(err, &exitErr) {
				return err
			}
		}
	}

	w, err := watch.New(watch.Config{
		Dir:      sess.layout.StagingDir,
		Patterns: slices.Concat(sess.layout.BundlePatterns, sess.layout.PackPatterns),
		Debounce: sess.cfg.Watch.Debounce,
		Logger:   sess.logger,
		OnChange: func(ctx context.Context, changed []string) error {
			sess.logger.Info("staging directory changed", "files", changed)
			// Failures are already printed by the sink.
			_ = a.handle(ctx, sess, addons.VerbReloadPacks, nil)
			return nil
		},
	})
	if err != nil {
		return a.watchFailed(sess, err)
	}

	sess.logger.Info("watching for add-ons", "dir", sess.layout.StagingDir)
	if err := w.Run(ctx); err != nil {
		return a.watchFailed(sess, err)
	}
	sess.logger.Info("watcher stopped")
	return nil
}

func (a *App) watchFailed(sess *session, err error) error {
	a.renderIssue(issue.WatchFailedId, sess.cfg.UI.ColorScheme)
	return issue.NewErrorContext().
		WithOperation("watch staging directory").
		WithResource(sess.layout.StagingDir).
		WithSuggestion("Raise fs.inotify.max_user_watches or run 'addonhelper install' from cron instead").
		Wrap(err).
		BuildError()
}
