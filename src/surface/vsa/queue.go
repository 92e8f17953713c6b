package vsa

import "container/heap"

// candidate offers face to proxy at the given error.
type candidate struct {
	err   float64
	face  int
	proxy int
	order int
}

// growQueue pops candidates by increasing error, then by insertion order.
type growQueue struct {
	items []candidate
	next  int
}

func (q *growQueue) Len() int { return len(q.items) }

func (q *growQueue) Less(i, j int) bool {
	if q.items[i].err != q.items[j].err {
		return q.items[i].err < q.items[j].err
	}
	return q.items[i].order < q.items[j].order
}

func (q *growQueue) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *growQueue) Push(x any) { q.items = append(q.items, x.(candidate)) }

func (q *growQueue) Pop() any {
	old := q.items
	x := old[len(old)-1]
	q.items = old[:len(old)-1]
	return x
}

func (q *growQueue) push(err float64, face, proxy int) {
	heap.Push(q, candidate{err: err, face: face, proxy: proxy, order: q.next})
	q.next++
}

func (q *growQueue) pop() candidate {
	return heap.Pop(q).(candidate)
}

// faceQueue is a FIFO of faces that holds each face at most once.
type faceQueue struct {
	faces  []int
	queued []bool
}

func newFaceQueue(n int) *faceQueue {
	return &faceQueue{queued: make([]bool, n)}
}

func (q *faceQueue) Len() int { return len(q.faces) }

func (q *faceQueue) push(f int) {
	if f < 0 || q.queued[f] {
		return
	}
	q.queued[f] = true
	q.faces = append(q.faces, f)
}

func (q *faceQueue) pop() (int, bool) {
	if len(q.faces) == 0 {
		return -1, false
	}
	f := q.faces[0]
	q.faces = q.faces[1:]
	q.queued[f] = false
	return f, true
}
