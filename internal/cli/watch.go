package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/digtower/pkg/config"
	"github.com/matzehuels/digtower/pkg/errors"
	"github.com/matzehuels/digtower/pkg/pipeline"
)

// watchDebounce collapses bursts of events (editors often write a file in
// several steps) into one rebuild.
const watchDebounce = 300 * time.Millisecond

// watchCommand creates the watch command, which renders the project and
// renders it again whenever a definition changes.
func (c *CLI) watchCommand() *cobra.Command {
	var flags batchFlags

	cmd := &cobra.Command{
		Use:   "watch [project]",
		Short: "Render a project and re-render on every definition change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, opts, err := c.settings(cmd, projectArg(args), &flags)
			if err != nil {
				return err
			}
			return c.runWatch(cmd.Context(), cfg, opts, flags.noCache)
		},
	}
	flags.register(cmd)

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, cfg config.Config, opts pipeline.Options, noCache bool) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, opts); err != nil {
		return err
	}

	rebuild := func() error {
		err := c.runRender(ctx, cfg, opts, noCache)
		if err != nil && (errors.IsFatal(err) || ctx.Err() != nil) {
			return err
		}
		if err != nil {
			c.Logger.Warn("render finished with errors", "err", errors.UserMessage(err))
		}
		printInfo("Watching %s (ctrl+c to stop)", opts.Root)
		return nil
	}
	if err := rebuild(); err != nil {
		return err
	}

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			if event.Has(fsnotify.Create) && isWatchableDir(event.Name, opts) {
				if err := addWatchDirs(watcher, withRoot(opts, event.Name)); err != nil {
					c.Logger.Warn("cannot watch directory", "dir", event.Name, "err", err)
				}
				continue
			}
			if !isDefinitionEvent(event, opts.Extension) {
				continue
			}
			c.Logger.Debug("definition changed", "file", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			if err := rebuild(); err != nil {
				return err
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			c.Logger.Warn("watcher error", "err", err)
		}
	}
}

// isDefinitionEvent reports whether event touches a definition file in a
// way that changes its content or existence.
func isDefinitionEvent(event fsnotify.Event, ext string) bool {
	if filepath.Ext(event.Name) != ext {
		return false
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

// addWatchDirs watches opts.Root and every directory below it that
// discovery would visit.
func addWatchDirs(w *fsnotify.Watcher, opts pipeline.Options) error {
	return filepath.WalkDir(opts.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != opts.Root && !isWatchableDir(path, opts) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

// isWatchableDir reports whether path is a directory outside the output
// tree, the excluded directory and hidden directories.
func isWatchableDir(path string, opts pipeline.Options) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return false
	}
	if opts.ExcludeDir != "" && name == opts.ExcludeDir {
		return false
	}
	out := opts.OutputPath()
	if rel, err := filepath.Rel(out, path); err == nil && !strings.HasPrefix(rel, "..") {
		return false
	}
	return true
}

func withRoot(opts pipeline.Options, root string) pipeline.Options {
	sub := opts
	sub.Root = root
	sub.OutputDir = opts.OutputPath()
	return sub
}
