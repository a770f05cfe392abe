package engine

import (
	"runtime"
	"sync"

	"github.com/lesves/galaxy/internal/spatial"
)

// Forces evaluates acceleration and potential for every body against the
// given tree. The per-body work fans out across a fixed set of workers;
// each body writes only its own slot and the potential is reduced serially
// afterwards, so the result is identical for any worker count.
func (e *Engine) Forces(tree *Tree) ([]spatial.Vector, float64) {
	n := len(e.Bodies)
	accs := make([]spatial.Vector, n)
	pots := make([]float64, n)

	workers := e.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := range e.Bodies {
			accs[i], pots[i] = e.evalBody(i, tree)
		}
	} else {
		var wg sync.WaitGroup
		chunk := (n + workers - 1) / workers
		for w := 0; w < workers; w++ {
			lo := w * chunk
			hi := min(lo+chunk, n)
			if lo >= hi {
				break
			}
			wg.Add(1)
			go func(lo, hi int) {
				defer wg.Done()
				for i := lo; i < hi; i++ {
					accs[i], pots[i] = e.evalBody(i, tree)
				}
			}(lo, hi)
		}
		wg.Wait()
	}

	pot := 0.0
	for _, p := range pots {
		pot += p
	}
	return accs, pot
}

// evalBody is the per-body unit of work. A body that escaped the root box
// is absent from the tree and feels no gravity this step; it coasts on its
// velocity until it drifts back in.
func (e *Engine) evalBody(i int, tree *Tree) (spatial.Vector, float64) {
	if !e.BBox.Contains(e.Bodies[i].Pos) {
		return spatial.Zero(e.Dim), 0
	}
	return e.Eval(&e.Bodies[i], tree.Root())
}
