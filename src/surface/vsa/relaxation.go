package vsa

import (
	"context"
	"log/slog"
)

// RunOneStep runs one Lloyd iteration: every proxy is refitted to its
// region, then faces on region borders move to the adjacent proxy that
// represents them strictly better. Proxies left without faces are retired.
// It returns the number of face moves.
func (a *Approximation[P]) RunOneStep() int {
	if !a.seeded() {
		return 0
	}
	a.refit(nil)
	moved := a.reassign(nil)
	a.retireEmpty()
	if a.log.Enabled(context.Background(), slog.LevelDebug) {
		a.log.Debug("vsa: relaxation step", "moved", moved, "proxies", a.NumProxies(), "error", a.TotalError())
	}
	return moved
}

// Run repeats RunOneStep until a step moves no face or maxIterations steps
// ran, and returns the number of steps. A non-positive maxIterations, like
// any larger one, is capped by Options.MaxIterations.
func (a *Approximation[P]) Run(maxIterations int) int {
	if maxIterations <= 0 || maxIterations > a.opts.MaxIterations {
		maxIterations = a.opts.MaxIterations
	}
	steps := 0
	for steps < maxIterations {
		steps++
		if a.RunOneStep() == 0 {
			break
		}
	}
	return steps
}

// relax runs at most n steps and stops early once the partition is stable.
// With n = 0 it only refits.
func (a *Approximation[P]) relax(n int) {
	if n <= 0 {
		a.refit(nil)
		return
	}
	for i := 0; i < n; i++ {
		if a.RunOneStep() == 0 {
			break
		}
	}
}

// relaxLocal runs up to Options.LocalRelaxations steps that only refit and
// exchange faces between the proxies in scope, then refits the scope.
func (a *Approximation[P]) relaxLocal(scope map[int]bool) {
	for i := 0; i < a.opts.LocalRelaxations; i++ {
		a.refit(scope)
		moved := a.reassign(scope)
		a.retireEmpty()
		if moved == 0 {
			break
		}
	}
	a.refit(scope)
}

// reassign floods the partition from its borders. A face is only compared
// with the proxies of its neighbors; it moves when one of them has a
// strictly lower error, the lowest id winning ties. The neighbors of a moved
// face are queued again. When scope is not nil, only faces and proxies in
// scope take part.
func (a *Approximation[P]) reassign(scope map[int]bool) int {
	m := a.mesh
	n := m.NumFaces()
	inScope := func(id int) bool { return scope == nil || scope[id] }

	q := newFaceQueue(n)
	for f := 0; f < n; f++ {
		id := a.assign[f]
		if !inScope(id) {
			continue
		}
		for _, g := range m.FaceNeighbors(f) {
			if g >= 0 && a.assign[g] != id && inScope(a.assign[g]) {
				q.push(f)
				break
			}
		}
	}

	moved := 0
	budget := a.opts.MaxReassignPasses * n
	for visits := 0; visits < budget; visits++ {
		f, ok := q.pop()
		if !ok {
			break
		}
		cur := a.assign[f]
		best, bestErr := cur, a.faceError(f, cur)
		for _, g := range m.FaceNeighbors(f) {
			if g < 0 {
				continue
			}
			id := a.assign[g]
			if id == cur || !inScope(id) {
				continue
			}
			e := a.faceError(f, id)
			if e < bestErr || (e == bestErr && best != cur && id < best) {
				best, bestErr = id, e
			}
		}
		if best == cur {
			continue
		}
		a.assign[f] = best
		moved++
		for _, g := range m.FaceNeighbors(f) {
			if g >= 0 && inScope(a.assign[g]) {
				q.push(g)
			}
		}
	}
	if q.Len() > 0 {
		a.log.Debug("vsa: reassignment budget exhausted", "pending", q.Len())
	}
	return moved
}
