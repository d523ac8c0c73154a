package scheduler

import (
	"container/heap"
	"encoding/binary"
	"hash"
	"hash/fnv"
	"sort"

	"github.com/arnavshah/task-planner-api/pkg/models"
)

// stateKey identifies a set of placements independently of the order they were
// made in: it is the sum of one hash pair per placement.
type stateKey struct {
	lo, hi uint64
}

func (k stateKey) with(p models.Placement) stateKey {
	var slot [17]byte
	slot[0] = byte(p.Slot.Day)
	binary.LittleEndian.PutUint64(slot[1:9], uint64(p.Slot.Start))
	binary.LittleEndian.PutUint64(slot[9:], uint64(p.Slot.End))

	a, b := fnv.New64a(), fnv.New64()
	for _, h := range []hash.Hash64{a, b} {
		_, _ = h.Write([]byte(p.TaskID))
		_, _ = h.Write(slot[:])
	}
	return stateKey{lo: k.lo + a.Sum64(), hi: k.hi + b.Sum64()}
}

// candidate is a queued successor. It holds the parent and the placement that
// leads out of it rather than a built state, so a queued candidate costs a few
// words however many tasks are placed. The state is built when it is popped.
type candidate struct {
	parent    *models.ScheduleState // nil for the start state
	task      *models.Task
	placement models.Placement
	estimate  int
	pending   int
	key       stateKey
	seq       int
}

// frontier is a min-heap on estimated total cost. Among equal estimates the state
// with fewer pending tasks pops first, then insertion order, so runs are repeatable.
// It never holds more than limit candidates.
type frontier struct {
	items   []candidate
	next    int
	limit   int
	dropped int
}

func newFrontier(limit int) *frontier {
	return &frontier{limit: limit}
}

func (f *frontier) Len() int { return len(f.items) }

func (f *frontier) Less(i, j int) bool {
	a, b := f.items[i], f.items[j]
	if a.estimate != b.estimate {
		return a.estimate < b.estimate
	}
	if a.pending != b.pending {
		return a.pending < b.pending
	}
	return a.seq < b.seq
}

func (f *frontier) Swap(i, j int) { f.items[i], f.items[j] = f.items[j], f.items[i] }

func (f *frontier) Push(x any) { f.items = append(f.items, x.(candidate)) }

func (f *frontier) Pop() any {
	old := f.items
	n := len(old)
	item := old[n-1]
	old[n-1] = candidate{}
	f.items = old[:n-1]
	return item
}

func (f *frontier) push(c candidate) {
	c.seq = f.next
	f.next++
	heap.Push(f, c)
	if len(f.items) > f.limit {
		f.trim()
	}
}

func (f *frontier) pop() candidate {
	return heap.Pop(f).(candidate)
}

// trim keeps the better half. A sorted slice is already a valid heap.
func (f *frontier) trim() {
	keep := f.limit / 2
	if keep < 1 {
		keep = 1
	}
	sort.Slice(f.items, f.Less)
	for i := keep; i < len(f.items); i++ {
		f.items[i] = candidate{}
	}
	f.dropped += len(f.items) - keep
	f.items = f.items[:keep]
}
