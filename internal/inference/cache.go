package inference

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"mlserve/internal/common/fsutil"
)

type cachedModel struct {
	handle ModelHandle
	id     LoaderIdentity
}

// ModelCache is a single-slot cache for the one model handle a process
// serves. The first GetOrLoad loads the model; every later call returns the
// same handle without invoking a loader. Construct one per process and pass
// it by reference.
type ModelCache struct {
	path  string
	mu    sync.Mutex
	slot  atomic.Pointer[cachedModel]
	loads atomic.Uint64
}

// NewModelCache returns an empty cache that loads from modelPath.
func NewModelCache(modelPath string) *ModelCache {
	return &ModelCache{path: modelPath}
}

// Path returns the model path the cache loads from.
func (c *ModelCache) Path() string { return c.path }

// GetOrLoad returns the cached handle, loading it with loader on first use.
// Concurrent cold callers block until the single load finishes. A failed
// load leaves the cache empty.
func (c *ModelCache) GetOrLoad(loader Loader) (ModelHandle, error) {
	if cm := c.slot.Load(); cm != nil {
		return c.hit(cm, loader)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if cm := c.slot.Load(); cm != nil {
		return c.hit(cm, loader)
	}
	if loader == nil {
		return nil, &ModelLoadError{Path: c.path, Err: errors.New("no loader configured")}
	}
	path, err := fsutil.ExpandHome(c.path)
	if err != nil {
		return nil, &ModelLoadError{Path: c.path, Err: err}
	}
	if path == "" || !fsutil.PathExists(path) {
		return nil, &ModelLoadError{Path: c.path, Err: fmt.Errorf("model file does not exist")}
	}
	h, err := loader.Load(path)
	if err != nil {
		return nil, &ModelLoadError{Path: path, Err: err}
	}
	if isNilHandle(h) {
		return nil, &ModelLoadError{Path: path, Err: fmt.Errorf("loader %s returned no model", loader.Identity())}
	}
	c.slot.Store(&cachedModel{handle: h, id: loader.Identity()})
	c.loads.Add(1)
	return h, nil
}

func (c *ModelCache) hit(cm *cachedModel, loader Loader) (ModelHandle, error) {
	if loader != nil && loader.Identity() != cm.id {
		return nil, &ModelLoadError{
			Path: c.path,
			Err:  fmt.Errorf("%w: cached=%s requested=%s", ErrLoaderMismatch, cm.id, loader.Identity()),
		}
	}
	return cm.handle, nil
}

// isNilHandle also catches typed nils such as (*Session)(nil) inside the
// interface.
func isNilHandle(h ModelHandle) bool {
	if h == nil {
		return true
	}
	switch v := reflect.ValueOf(h); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return v.IsNil()
	}
	return false
}

// Loaded reports whether a handle is cached.
func (c *ModelCache) Loaded() bool { return c.slot.Load() != nil }

// Identity returns the loader identity of the cached handle, or "" when cold.
func (c *ModelCache) Identity() LoaderIdentity {
	if cm := c.slot.Load(); cm != nil {
		return cm.id
	}
	return ""
}

// LoadCount returns the number of successful loads performed.
func (c *ModelCache) LoadCount() uint64 { return c.loads.Load() }
