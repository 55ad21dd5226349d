// reload.go: fsnotify-based config hot-reload (§6 "reload_config(text)",
// §B domain stack wiring).
//
// The JSONC grammar itself is an explicit core non-goal (§1); ConfigSource
// stays a defined-contract stub callers implement (read + parse however
// they like). What's real here is the watch/debounce/callback plumbing,
// grounded on mdzesseis-log_capturer_go's pkg/hotreload/config_reloader.go
// fsnotify.Watcher + debounce-timer pattern.
//
// Copyright (c) 2025 Ignite Authors
// SPDX-License-Identifier: MPL-2.0

package ignite

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ConfigSource parses raw config text into a set of (logger name,
// threshold) pairs. ignite ships no concrete JSONC implementation (§1
// non-goal); applications provide one.
type ConfigSource interface {
	Parse(text []byte) (map[string]Severity, error)
}

// ReloadWatcher watches a config file and invokes reload_config-style
// threshold updates on the registry when it changes, debouncing rapid
// successive writes (editors often emit several events per save).
type ReloadWatcher struct {
	path      string
	source    ConfigSource
	registry  *Registry
	debounce  time.Duration
	readFile  func(string) ([]byte, error)
	watcher   *fsnotify.Watcher
	done      chan struct{}
	closeOnce sync.Once
}

// NewReloadWatcher starts watching path for changes, applying parsed
// thresholds onto reg as they occur. debounce bounds how long to wait
// after the last observed event before reloading; pass 0 for a sane
// default (1s).
func NewReloadWatcher(path string, source ConfigSource, reg *Registry, debounce time.Duration, readFile func(string) ([]byte, error)) (*ReloadWatcher, error) {
	if debounce <= 0 {
		debounce = time.Second
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, WrapIgniteError(err, ErrCodeConfigReloadParse, "ignite: failed to create config watcher")
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return nil, WrapIgniteError(err, ErrCodeConfigReloadParse, "ignite: failed to watch config file")
	}
	rw := &ReloadWatcher{
		path:     path,
		source:   source,
		registry: reg,
		debounce: debounce,
		readFile: readFile,
		watcher:  w,
		done:     make(chan struct{}),
	}
	go rw.run()
	return rw, nil
}

func (rw *ReloadWatcher) run() {
	defer close(rw.done)
	var timer *time.Timer
	var timerC <-chan time.Time
	for {
		select {
		case ev, ok := <-rw.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(rw.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(rw.debounce)
			}
			timerC = timer.C
		case <-timerC:
			rw.reload()
			timerC = nil
		case _, ok := <-rw.watcher.Errors:
			if !ok {
				return
			}
		case <-rw.done:
			return
		}
	}
}

func (rw *ReloadWatcher) reload() {
	text, err := rw.readFile(rw.path)
	if err != nil {
		report(ErrCodeConfigReloadParse, "ignite: failed to read config on reload", "path", rw.path, "error", err.Error())
		return
	}
	thresholds, err := rw.source.Parse(text)
	if err != nil {
		report(ErrCodeConfigReloadParse, "ignite: failed to parse config on reload", "path", rw.path, "error", err.Error())
		return
	}
	for name, sev := range thresholds {
		rw.registry.SetThreshold(name, sev)
	}
}

// Close stops the watcher.
func (rw *ReloadWatcher) Close() error {
	var err error
	rw.closeOnce.Do(func() {
		err = rw.watcher.Close()
	})
	return err
}
