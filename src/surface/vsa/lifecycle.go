package vsa

import (
	"math"
	"sort"

	"meshapprox/src/surface/geometry"
)

// AddProxiesFurthest turns the n worst represented faces outside the
// excluded proxies into new single-face proxies, then relaxes the regions
// involved. A proxy is never emptied to make room. It returns the number of
// proxies added.
func (a *Approximation[P]) AddProxiesFurthest(n int, excluded []int) int {
	if !a.seeded() || n <= 0 {
		return 0
	}
	skip := idSet(excluded)
	counts := a.faceCounts()
	scope := make(map[int]bool)
	var promoted []int
	for _, f := range a.facesByError(skip) {
		if len(promoted) == n {
			break
		}
		id := a.assign[f]
		if counts[id] < 2 {
			continue
		}
		counts[id]--
		scope[id] = true
		scope[a.newProxy(f)] = true
		promoted = append(promoted, f)
	}
	if len(promoted) == 0 {
		return 0
	}
	a.widen(scope, promoted)
	a.relaxLocal(scope)
	a.log.Info("vsa: added proxies", "requested", n, "added", len(promoted), "proxies", a.NumProxies())
	return len(promoted)
}

// AddOneProxy adds a proxy at the worst represented face.
func (a *Approximation[P]) AddOneProxy() bool {
	return a.AddProxiesFurthest(1, nil) == 1
}

// TeleportProxies moves up to n proxies: the smallest proxy outside the
// excluded set is merged into its neighbors and seeded again at the worst
// represented face. With considerError a teleport that raises the total
// error is undone and ends the loop. It returns the number of teleports
// kept. At least one proxy always remains.
func (a *Approximation[P]) TeleportProxies(n int, excluded []int, considerError bool) int {
	if !a.seeded() || n <= 0 {
		return 0
	}
	skip := idSet(excluded)
	done := 0
	for done < n && a.NumProxies() >= 2 {
		victim := a.smallestProxy(skip)
		if victim < 0 {
			break
		}
		before := a.TotalError()
		saved := a.snapshot()

		if !a.dissolve(victim) {
			a.log.Debug("vsa: proxy has no neighbor to merge into", "proxy", victim)
			a.restore(saved)
			break
		}
		f := a.worstFace(skip)
		if f < 0 {
			a.restore(saved)
			break
		}
		scope := map[int]bool{a.assign[f]: true}
		scope[a.newProxy(f)] = true
		a.widen(scope, []int{f})
		a.relaxLocal(scope)

		if after := a.TotalError(); considerError && after > before+geometry.Epsilon {
			a.log.Debug("vsa: teleport undone", "proxy", victim, "before", before, "after", after)
			a.restore(saved)
			break
		}
		a.log.Debug("vsa: teleported proxy", "from", victim, "face", f)
		done++
	}
	return done
}

// TeleportOneProxy teleports the smallest proxy, keeping the move only
// when it does not raise the total error.
func (a *Approximation[P]) TeleportOneProxy() bool {
	return a.TeleportProxies(1, nil, true) == 1
}

// facesByError lists the faces of proxies outside skip by decreasing
// error, lowest face first on ties.
func (a *Approximation[P]) facesByError(skip map[int]bool) []int {
	errs := make([]float64, len(a.assign))
	faces := make([]int, 0, len(a.assign))
	for f, id := range a.assign {
		if skip[id] {
			continue
		}
		errs[f] = a.fitError(f)
		faces = append(faces, f)
	}
	sort.Slice(faces, func(i, j int) bool {
		fi, fj := faces[i], faces[j]
		if errs[fi] != errs[fj] {
			return errs[fi] > errs[fj]
		}
		return fi < fj
	})
	return faces
}

// smallestProxy returns the live proxy of least area outside skip, lowest
// id first on ties, or -1.
func (a *Approximation[P]) smallestProxy(skip map[int]bool) int {
	areas := make([]float64, len(a.proxies))
	for f, id := range a.assign {
		areas[id] += a.mesh.Area(f)
	}
	best, bestArea := -1, math.Inf(1)
	for id, px := range a.proxies {
		if px == nil || skip[id] {
			continue
		}
		if areas[id] < bestArea {
			best, bestArea = id, areas[id]
		}
	}
	return best
}

// dissolve hands every face of victim to the adjacent proxy that
// represents it best and retires victim. It fails when part of the region
// touches no other proxy.
func (a *Approximation[P]) dissolve(victim int) bool {
	pending := a.regions()[victim]
	for len(pending) > 0 {
		var rest []int
		for _, f := range pending {
			best, bestErr := -1, math.Inf(1)
			for _, g := range a.mesh.FaceNeighbors(f) {
				if g < 0 || a.assign[g] == victim {
					continue
				}
				id := a.assign[g]
				e := a.faceError(f, id)
				if best < 0 || e < bestErr || (e == bestErr && id < best) {
					best, bestErr = id, e
				}
			}
			if best < 0 {
				rest = append(rest, f)
				continue
			}
			a.assign[f] = best
		}
		if len(rest) == len(pending) {
			return false
		}
		pending = rest
	}
	a.proxies[victim] = nil
	return true
}

// widen adds the proxies adjacent to faces to scope.
func (a *Approximation[P]) widen(scope map[int]bool, faces []int) {
	for _, f := range faces {
		for _, g := range a.mesh.FaceNeighbors(f) {
			if g >= 0 {
				scope[a.assign[g]] = true
			}
		}
	}
}

func idSet(ids []int) map[int]bool {
	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
