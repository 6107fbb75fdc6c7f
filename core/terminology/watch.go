package terminology

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits for a burst of file events to settle.
const DefaultDebounce = 100 * time.Millisecond

// WithDebounce sets the quiet period Watch waits before reloading.
func WithDebounce(d time.Duration) Option {
	return func(c *Catalog) {
		c.debounce = d
	}
}

// Watch reloads dir whenever a locale file under it is written, created,
// removed or renamed, until ctx is done. It returns once the watcher runs.
// A failed reload keeps the current entries.
func (c *Catalog) Watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	// Directories are watched individually; fsnotify does not recurse.
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		watcher.Close()
		return fmt.Errorf("watch directory %s: %w", dir, err)
	}

	go c.watchLoop(ctx, watcher, dir)

	c.logger.Info().Str("dir", dir).Msg("watching locales for changes")
	return nil
}

func (c *Catalog) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, dir string) {
	defer watcher.Close()

	debounce := c.debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						c.logger.Error().Err(err).Str("dir", event.Name).Msg("watch new directory")
					}
					continue
				}
			}

			if !isLocaleFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			c.logger.Debug().
				Str("event", event.Op.String()).
				Str("file", event.Name).
				Msg("locale file changed")

			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := c.Reload(dir); err != nil {
				c.logger.Error().Err(err).Msg("locale reload failed, keeping old entries")
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			c.logger.Error().Err(err).Msg("locale watcher error")
		}
	}
}
