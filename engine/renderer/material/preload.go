package material

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

type preloadResult struct {
	path   string
	layout layout
	err    error
}

func (m *manager) PreloadTemplates(paths ...string) error {
	if len(paths) == 0 {
		return nil
	}

	results := make([]preloadResult, len(paths))
	pool := worker.NewDynamicWorkerPool(min(m.workers, len(paths)), len(paths), 1*time.Second)
	defer pool.Stop()

	// Workers only read and validate documents; results are committed below on this goroutine.
	var wg sync.WaitGroup
	for i, p := range paths {
		abs, err := canonicalPath(p)
		if err != nil {
			results[i] = preloadResult{path: p, err: err}
			continue
		}
		results[i].path = abs
		if _, ok := m.byPath[abs]; ok {
			continue
		}
		wg.Add(1)
		idx := i
		pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				results[idx].layout, results[idx].err = readLayout(results[idx].path)
				return nil, nil
			},
		})
	}
	wg.Wait()

	var errs []error
	loaded := 0
	for i, r := range results {
		if r.err != nil {
			errs = append(errs, fmt.Errorf("material: preload %q: %w", paths[i], r.err))
			continue
		}
		if _, ok := m.byPath[r.path]; ok {
			continue
		}
		if _, err := m.commit(r.layout); err != nil {
			errs = append(errs, fmt.Errorf("material: preload %q: %w", paths[i], err))
			continue
		}
		loaded++
	}
	logger.Infof("preloaded %d of %d templates", loaded, len(paths))
	return errors.Join(errs...)
}
