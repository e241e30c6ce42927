package material

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Reload reports a watched material whose document changed and was re-applied by Poll.
type Reload struct {
	// Path is the cleaned absolute path of the material document.
	Path string
	// Previous is the handle before the reload.
	Previous Material
	// Current is the handle after the reload. It differs from Previous when the instance was shared
	// and had to be copied before writing.
	Current Material
}

// Watcher reloads material documents when they change on disk. File events are collected on a
// background goroutine, but nothing touches the Manager until Poll is called, so Poll must run on the
// goroutine that owns the Manager.
type Watcher interface {
	// Watch loads a material document and starts watching it. The watcher owns the returned handle
	// and releases it on Close; callers that keep the material past Close must Clone it.
	//
	// Parameters:
	//   - path: the material document
	//
	// Returns:
	//   - Material: the loaded material
	//   - error: error if the document cannot be loaded or watched
	Watch(path string) (Material, error)

	// Material returns the current handle of a watched document.
	//
	// Parameters:
	//   - path: the material document
	//
	// Returns:
	//   - Material: the current handle
	//   - bool: false if the document is not watched
	Material(path string) (Material, bool)

	// Poll re-applies every document that changed since the previous Poll. Each reload resets the
	// instance to the template defaults and writes the document's overrides on top.
	//
	// Returns:
	//   - []Reload: the reloaded materials, sorted by path
	//   - error: the joined errors of documents that could not be re-applied
	Poll() ([]Reload, error)

	// Close stops watching and releases every watched handle.
	//
	// Returns:
	//   - error: error if the file watcher fails to close
	Close() error
}

// watcher is the implementation of the Watcher interface.
type watcher struct {
	manager Manager
	fs      *fsnotify.Watcher
	done    chan struct{}

	handles map[string]Material
	dirs    map[string]int

	mu      sync.Mutex
	watched map[string]struct{}
	pending map[string]struct{}
}

var _ Watcher = &watcher{}

// NewWatcher creates a Watcher applying reloads through manager.
//
// Parameters:
//   - manager: the manager owning the watched materials
//
// Returns:
//   - Watcher: the new watcher
//   - error: error if the file system watcher cannot be created
func NewWatcher(manager Manager) (Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("material: failed to create file watcher: %w", err)
	}
	w := &watcher{
		manager: manager,
		fs:      fs,
		done:    make(chan struct{}),
		handles: make(map[string]Material),
		dirs:    make(map[string]int),
		watched: make(map[string]struct{}),
		pending: make(map[string]struct{}),
	}
	go w.listen()
	return w, nil
}

func (w *watcher) listen() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			// Editors often replace files instead of writing them, so creates count as changes.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			path := filepath.Clean(event.Name)
			w.mu.Lock()
			if _, ok := w.watched[path]; ok {
				w.pending[path] = struct{}{}
			}
			w.mu.Unlock()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logger.Warningf("material watcher error: %v", err)
		}
	}
}

func (w *watcher) Watch(path string) (Material, error) {
	abs, err := canonicalPath(path)
	if err != nil {
		return 0, fmt.Errorf("material: watch %q: %w", path, err)
	}
	if h, ok := w.handles[abs]; ok {
		return h, nil
	}
	mat, err := w.manager.LoadMaterial(abs)
	if err != nil {
		return 0, err
	}

	// Directories are watched rather than files so replaced files keep being tracked.
	dir := filepath.Dir(abs)
	if w.dirs[dir] == 0 {
		if err := w.fs.Add(dir); err != nil {
			_ = w.manager.Release(mat)
			return 0, fmt.Errorf("material: watch %q: %w", path, err)
		}
	}
	w.dirs[dir]++
	w.handles[abs] = mat

	w.mu.Lock()
	w.watched[abs] = struct{}{}
	w.mu.Unlock()

	logger.Debugf("watching %s", abs)
	return mat, nil
}

func (w *watcher) Material(path string) (Material, bool) {
	abs, err := canonicalPath(path)
	if err != nil {
		return 0, false
	}
	h, ok := w.handles[abs]
	return h, ok
}

func (w *watcher) Poll() ([]Reload, error) {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return nil, nil
	}
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	clear(w.pending)
	w.mu.Unlock()
	sort.Strings(paths)

	var reloads []Reload
	var errs []error
	for _, path := range paths {
		prev := w.handles[path]
		cur := prev
		err := w.reapply(path, &cur)
		if err != nil {
			errs = append(errs, fmt.Errorf("material: reload %q: %w", path, err))
		}
		// A failed reload may still have copied the instance, so the handle is always kept.
		w.handles[path] = cur
		if err == nil {
			reloads = append(reloads, Reload{Path: path, Previous: prev, Current: cur})
		}
	}
	if len(reloads) > 0 {
		logger.Infof("reloaded %d material documents", len(reloads))
	}
	return reloads, errors.Join(errs...)
}

// reapply writes template defaults plus the document's overrides into mat. Every override is
// converted before the first write, so an invalid document leaves the instance untouched.
func (w *watcher) reapply(path string, mat *Material) error {
	doc, err := readMaterialDocument(path)
	if err != nil {
		return err
	}
	t, err := w.manager.Template(mat.TemplateID())
	if err != nil {
		return err
	}
	if tp, err := canonicalPath(doc.Template); err != nil || tp != t.Path() {
		return fmt.Errorf("template changed from %q to %q, reload the material instead", t.Path(), doc.Template)
	}

	def, err := w.manager.CreateMaterial(t.ID())
	if err != nil {
		return err
	}
	values := make(map[string]Value, len(t.Slots()))
	for _, s := range t.Slots() {
		v, err := w.manager.Value(def, s.Name)
		if err != nil {
			return err
		}
		values[s.Name] = v
	}
	for name, literal := range doc.Slots {
		i, ok := t.SlotIndex(name)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownSlot, name)
		}
		v, err := ValueFromLiteral(t.Slots()[i].Kind, literal)
		if err != nil {
			return fmt.Errorf("slot %q: %w", name, err)
		}
		values[name] = v
	}

	for _, s := range t.Slots() {
		if err := w.manager.SetValue(mat, s.Name, values[s.Name]); err != nil {
			return err
		}
	}
	return nil
}

func (w *watcher) Close() error {
	err := w.fs.Close()
	<-w.done
	var errs []error
	if err != nil {
		errs = append(errs, err)
	}
	for path, h := range w.handles {
		if rerr := w.manager.Release(h); rerr != nil {
			errs = append(errs, fmt.Errorf("material: release %q: %w", path, rerr))
		}
		delete(w.handles, path)
	}
	return errors.Join(errs...)
}
