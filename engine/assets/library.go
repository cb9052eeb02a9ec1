package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/spectral-engine/spectral/engine/core"
)

// Library serves shader source text by name, relative to its root
// directory. Sources are cached after the first read; a filesystem
// watcher invalidates edited entries so shaders rebuilt afterwards pick
// up the changes. Shaders hold the library read-only through the
// SourceProvider interface.
type Library struct {
	root string

	mu      sync.RWMutex
	sources map[string]string

	watcher  *fsnotify.Watcher
	done     chan struct{}
	isClosed bool
}

func NewLibrary(root string) (*Library, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	l := &Library{
		root:    root,
		sources: make(map[string]string),
		watcher: watcher,
		done:    make(chan struct{}),
	}

	if err := l.watchRecursive(root); err != nil {
		watcher.Close()
		return nil, err
	}
	go l.start()

	return l, nil
}

// Root returns the directory the library serves from.
func (l *Library) Root() string {
	return l.root
}

// Get returns the source text stored under the given name. Names are
// slash-separated paths relative to the library root.
func (l *Library) Get(name string) (string, error) {
	l.mu.RLock()
	source, ok := l.sources[name]
	l.mu.RUnlock()
	if ok {
		return source, nil
	}

	raw, err := os.ReadFile(filepath.Join(l.root, filepath.FromSlash(name)))
	if err != nil {
		return "", fmt.Errorf("shader source %q: %w", name, err)
	}
	source = string(raw)

	l.mu.Lock()
	l.sources[name] = source
	l.mu.Unlock()

	return source, nil
}

// Close stops the watcher. The cache stays readable.
func (l *Library) Close() error {
	if l.isClosed {
		return errors.New("library already closed")
	}
	l.isClosed = true
	close(l.done)
	return nil
}

func (l *Library) start() {
	for {
		select {
		case e := <-l.watcher.Events:
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					l.watchRecursive(e.Name)
				}
				continue
			}
			if e.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				l.invalidate(e.Name)
			}

		case e := <-l.watcher.Errors:
			core.LogError(e.Error())

		case <-l.done:
			l.watcher.Close()
			return
		}
	}
}

// invalidate drops the cache entry for an edited or removed file so the
// next Get rereads it.
func (l *Library) invalidate(path string) {
	rel, err := filepath.Rel(l.root, path)
	if err != nil {
		return
	}
	name := filepath.ToSlash(rel)
	if strings.HasPrefix(name, "..") {
		return
	}

	l.mu.Lock()
	if _, ok := l.sources[name]; ok {
		delete(l.sources, name)
		core.LogDebug("shader source %q changed, cache invalidated", name)
	}
	l.mu.Unlock()
}

func (l *Library) watchRecursive(path string) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return l.watcher.Add(walkPath)
		}
		return nil
	})
}
