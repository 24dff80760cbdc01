// Package watcher reloads the dataset when its file changes on disk.
//
// Run is the only entry point. It watches the file's directory with
// fsnotify, so replace-by-rename saves are seen, and polls the file's size
// and modification time instead when fsnotify cannot be set up, the file
// lives on a network or FUSE mount, or DV_FORCE_POLL is set. A burst of
// events settles into a single reload.
package watcher

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vanderheijden86/dexviz/pkg/debug"
)

// ForcePollEnvVar forces polling for every dataset.
const ForcePollEnvVar = "DV_FORCE_POLL"

const (
	// DefaultSettle coalesces the writes an editor or a CSV export makes
	// when saving.
	DefaultSettle       = 200 * time.Millisecond
	DefaultPollInterval = 2 * time.Second
)

// ErrFileRemoved is reported when the dataset disappears. Watching goes on,
// so a file written back later is reloaded.
var ErrFileRemoved = errors.New("dataset file was removed")

// Mode is how Run learns about changes.
type Mode int

const (
	ModeNotify Mode = iota
	ModePoll
)

func (m Mode) String() string {
	if m == ModePoll {
		return "polling"
	}
	return "fsnotify"
}

// settings are Run's timings; tests shorten them.
type settings struct {
	settle time.Duration
	poll   time.Duration
	// ready, when set, is called once watching has begun.
	ready func(Mode)
}

// Run calls reload once path has settled after each change, until ctx is
// canceled, and then returns ctx.Err(). Reload failures and a removed file
// are passed to onError without stopping the watch.
func Run(ctx context.Context, path string, reload func() error, onError func(error)) error {
	return run(ctx, path, reload, onError, settings{settle: DefaultSettle, poll: DefaultPollInterval})
}

func run(ctx context.Context, path string, reload func() error, onError func(error), s settings) error {
	if onError == nil {
		onError = func(error) {}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	name := filepath.Base(abs)

	mode := chooseMode(abs)
	var (
		events <-chan fsnotify.Event
		errs   <-chan error
		tick   <-chan time.Time
	)
	if mode == ModeNotify {
		fsw, err := fsnotify.NewWatcher()
		if err == nil {
			if err = fsw.Add(filepath.Dir(abs)); err != nil {
				fsw.Close()
			}
		}
		if err != nil {
			debug.Log("watcher: fsnotify unavailable for %s: %v", abs, err)
			mode = ModePoll
		} else {
			defer fsw.Close()
			events, errs = fsw.Events, fsw.Errors
		}
	}
	last, statErr := statFile(abs)
	exists := statErr == nil
	if mode == ModePoll {
		t := time.NewTicker(s.poll)
		defer t.Stop()
		tick = t.C
	}

	settle := time.NewTimer(s.settle)
	settle.Stop()
	defer settle.Stop()

	debug.Log("watcher: %s on %s", mode, abs)
	if s.ready != nil {
		s.ready(mode)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if filepath.Base(ev.Name) != name {
				continue
			}
			switch {
			case ev.Has(fsnotify.Remove):
				onError(ErrFileRemoved)
			case ev.Has(fsnotify.Write), ev.Has(fsnotify.Create), ev.Has(fsnotify.Rename):
				settle.Reset(s.settle)
			}

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			onError(err)

		case <-tick:
			cur, err := statFile(abs)
			switch {
			case errors.Is(err, fs.ErrNotExist):
				if exists {
					onError(ErrFileRemoved)
				}
				exists = false
			case err != nil:
				onError(err)
			case !exists || !cur.same(last):
				exists, last = true, cur
				settle.Reset(s.settle)
			}

		case <-settle.C:
			if err := reload(); err != nil {
				onError(err)
			}
		}
	}
}

// chooseMode polls when asked to or when inotify would miss remote writes.
func chooseMode(path string) Mode {
	if forcePollFromEnv() {
		return ModePoll
	}
	if t := DetectFilesystemType(path); isRemoteFilesystem(t) {
		debug.Log("watcher: %s is on %s, polling", path, t)
		return ModePoll
	}
	return ModeNotify
}

func forcePollFromEnv() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(ForcePollEnvVar))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

type fileStamp struct {
	mtime time.Time
	size  int64
}

func (a fileStamp) same(b fileStamp) bool {
	return a.size == b.size && a.mtime.Equal(b.mtime)
}

func statFile(path string) (fileStamp, error) {
	info, err := os.Stat(path)
	if err != nil {
		return fileStamp{}, err
	}
	return fileStamp{mtime: info.ModTime(), size: info.Size()}, nil
}
