// Package watch re-runs the merge batch when new scans land in the input
// directory. Microscope exports arrive in bursts, so events are debounced:
// a run starts only once the directory has been quiet for the settle delay.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/plateworks/chanmerge/internal/logging"
)

// Watcher triggers batch runs from filesystem events on one directory.
type Watcher struct {
	Dir        string
	Extensions []string // Lowercase, with leading dot.
	Settle     time.Duration
}

// Run blocks until ctx is done. After every burst of events touching
// matching files, once the directory stays quiet for the settle delay, fn
// is invoked. Runs never overlap: events arriving while fn executes queue
// a single follow-up run.
func (w *Watcher) Run(ctx context.Context, fn func(context.Context)) error {
	log := logging.Component("watch")

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer fsw.Close()
	if err := fsw.Add(w.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.Dir, err)
	}
	log.Info().Str("dir", w.Dir).Dur("settle", w.Settle).Msg("watching for incoming scans")

	timer := time.NewTimer(w.Settle)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			log.Debug().Str("file", filepath.Base(ev.Name)).Str("op", ev.Op.String()).Msg("change")
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.Settle)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watch error")

		case <-timer.C:
			log.Info().Msg("directory settled, running batch")
			fn(ctx)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	ext := strings.ToLower(filepath.Ext(ev.Name))
	for _, want := range w.Extensions {
		if ext == want {
			return true
		}
	}
	return false
}
