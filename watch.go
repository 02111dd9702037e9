package spritegroup

import (
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// configSettle is how long a watched file must stay quiet after its last
// change before the change is reported. A save burst yields one report,
// after the final write.
const configSettle = 100 * time.Millisecond

// ConfigWatcher reports changes to configuration files. It only records
// settled paths; the render thread polls it and applies the reloaded config
// itself, so groups are never touched from the watcher goroutine.
type ConfigWatcher struct {
	fs    *fsnotify.Watcher
	files map[string]bool

	mu    sync.Mutex
	ready []string
	err   error

	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// NewConfigWatcher watches the given configuration files.
func NewConfigWatcher(paths ...string) (*ConfigWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	files := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("watch %s: %w", p, err)
		}
		files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	// Directories rather than files, so saves that rename over the file are
	// still seen.
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	w := &ConfigWatcher{
		fs:      fw,
		files:   files,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Poll returns the next settled path without blocking. Each path is
// reported at most once per settle, oldest first.
func (w *ConfigWatcher) Poll() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.ready) == 0 {
		return "", false
	}
	p := w.ready[0]
	w.ready = w.ready[1:]
	return p, true
}

// Err returns and clears the last error reported by the file system
// watcher.
func (w *ConfigWatcher) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	err := w.err
	w.err = nil
	return err
}

// Close stops the watcher and waits for its goroutine to exit. It is safe
// to call more than once.
func (w *ConfigWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
		<-w.stopped
	})
	return err
}

// tracked resolves the event to a watched file, if it is one and the
// operation can change its contents.
func (w *ConfigWatcher) tracked(ev fsnotify.Event) (string, bool) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return "", false
	}
	name, err := filepath.Abs(ev.Name)
	if err != nil || !w.files[name] {
		return "", false
	}
	return name, true
}

func (w *ConfigWatcher) run() {
	defer close(w.stopped)

	pending := make(map[string]bool)
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			name, ok := w.tracked(ev)
			if !ok {
				continue
			}
			pending[name] = true
			if timer == nil {
				timer = time.NewTimer(configSettle)
				fire = timer.C
			} else {
				timer.Reset(configSettle)
			}
		case <-fire:
			w.settle(pending)
			clear(pending)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			Logger().Warn("spritegroup: config watcher", "error", err)
			w.mu.Lock()
			w.err = err
			w.mu.Unlock()
		case <-w.done:
			return
		}
	}
}

// settle moves pending paths to the ready queue, skipping ones already
// queued and not yet polled.
func (w *ConfigWatcher) settle(pending map[string]bool) {
	names := make([]string, 0, len(pending))
	for name := range pending {
		names = append(names, name)
	}
	slices.Sort(names)

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, name := range names {
		if !slices.Contains(w.ready, name) {
			w.ready = append(w.ready, name)
		}
	}
}

// ReloadConfig polls w and, if a configuration file changed, loads it and
// applies it to g. It returns whether a new configuration was applied, and
// any error the watcher hit since the last call. Call it from the render
// thread, for example once per Update.
func (g *Group) ReloadConfig(w *ConfigWatcher) (bool, error) {
	if err := w.Err(); err != nil {
		return false, fmt.Errorf("config watcher: %w", err)
	}
	path, ok := w.Poll()
	if !ok {
		return false, nil
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return false, err
	}
	if err := g.ApplyConfig(cfg); err != nil {
		return false, err
	}
	return true, nil
}
