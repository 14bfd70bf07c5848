// Package watcher reloads a MIDI file whenever it changes.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"moria.us/smf/dump"
	"moria.us/smf/midi"
)

const reloadDelay = 100 * time.Millisecond

// A State is the parsed contents of the file at one point in time. Err is
// set if the file could not be read, or is malformed. A malformed file still
// has the events before the error.
type State struct {
	Data    []byte
	Events  []midi.Event
	Summary dump.Summary
	Err     error
}

// Load reads and parses a file.
func Load(name string) *State {
	data, err := os.ReadFile(name)
	if err != nil {
		return &State{Err: err}
	}
	evs, sum, err := dump.Collect(data)
	return &State{
		Data:    data,
		Events:  evs,
		Summary: sum,
		Err:     err,
	}
}

type watcher struct {
	path   string
	output chan<- *State
	delay  delay
}

// Watch loads the file and sends its state, then sends a new state each
// time the file changes. The channel is closed once ctx is done, or after
// sending a state with the error if watching fails.
func Watch(ctx context.Context, name string) (<-chan *State, error) {
	path, err := filepath.Abs(name)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory, so the file can be replaced by renaming.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}
	ch := make(chan *State, 1)
	w := watcher{
		path:   path,
		output: ch,
	}
	go w.watch(ctx, fw)
	return ch, nil
}

func (w *watcher) watch(ctx context.Context, fw *fsnotify.Watcher) {
	defer close(w.output)
	defer fw.Close()
	defer w.delay.stop()
	if err := w.watchFunc(ctx, fw); err != nil && ctx.Err() == nil {
		w.send(ctx, &State{Err: err})
	}
}

func (w *watcher) watchFunc(ctx context.Context, fw *fsnotify.Watcher) error {
	log := logrus.WithField("file", w.path)
	if !w.send(ctx, Load(w.path)) {
		return ctx.Err()
	}
	for {
		select {
		case ev, ok := <-fw.Events:
			if !ok {
				return errors.New("watcher channel closed")
			}
			if filepath.Clean(ev.Name) == w.path {
				log.Debugln("changed:", ev.Op)
				w.delay.trigger(reloadDelay)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return errors.New("watcher channel closed")
			}
			return err
		case <-w.delay.channel:
			w.delay.channel = nil
			if rem := w.delay.remaining(); rem > 0 {
				w.delay.trigger(rem)
				continue
			}
			s := Load(w.path)
			if s.Err != nil {
				log.Warnln("reload:", s.Err)
			} else {
				log.Infof("reloaded: %d tracks, %d events", s.Summary.Tracks,
					s.Summary.Channel+s.Summary.Meta+s.Summary.Sysex)
			}
			if !w.send(ctx, s) {
				return ctx.Err()
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (w *watcher) send(ctx context.Context, s *State) bool {
	select {
	case w.output <- s:
		return true
	case <-ctx.Done():
		return false
	}
}
