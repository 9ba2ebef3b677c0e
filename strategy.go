package loess

import (
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
)

func (l *Loess) predictSerial(queries [][]float64, res *Results) error {
	for i := range queries {
		val, err := l.fitPoint(queries[i])
		if err != nil {
			pe := PointError{Index: i, Err: err}
			if l.opt.FailFast {
				return pe
			}
			res.Failures = append(res.Failures, pe)
			continue
		}
		res.Smoothed[i] = val
	}
	return nil
}

// predictParallel fans query points out across a bounded worker pool. The
// training data and selector are shared read-only; each worker owns its
// neighborhood and weight scratch memory and writes only its own result slot
// so the output order matches the input order.
func (l *Loess) predictParallel(queries [][]float64, res *Results) error {
	sem := make(chan struct{}, l.opt.Parallelization)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var failed atomic.Bool

	for i := range queries {
		sem <- struct{}{}
		wg.Add(1)

		go func(i int) {
			defer func() {
				wg.Done()
				<-sem
			}()

			if l.opt.FailFast && failed.Load() {
				return
			}

			val, err := l.fitPoint(queries[i])
			if err != nil {
				slog.Error("unable to fit query point", "index", i, "error", err.Error())
				failed.Store(true)
				mu.Lock()
				res.Failures = append(res.Failures, PointError{Index: i, Err: err})
				mu.Unlock()
				return
			}
			res.Smoothed[i] = val
		}(i)
	}
	wg.Wait()

	sort.Slice(res.Failures, func(a, b int) bool {
		return res.Failures[a].Index < res.Failures[b].Index
	})

	if l.opt.FailFast && len(res.Failures) > 0 {
		return res.Failures[0]
	}
	return nil
}
