// Package hazard implements hazard-pointer memory reclamation.
//
// A goroutine about to dereference a shared pointer first publishes it in
// a hazard slot of a Record it owns. A retired object is handed to the
// release function only after a scan finds it in no hazard slot of any
// record, so no goroutine that read the pointer before it was unlinked
// can still be using it.
//
// Records are owned for the duration of one operation: Acquire, work,
// Release. A released record keeps its retired list; whoever acquires it
// next inherits the pending objects.
package hazard

import (
	"sync/atomic"

	"github.com/N3ro47/lockfree/std/types/sync_pool"
)

// Slots is the number of hazard pointers per record.
const Slots = 2

// minScan is the smallest retired list that triggers a scan.
const minScan = 64

// Record is a set of hazard slots plus a private retired list.
type Record[T any] struct {
	hazards [Slots]atomic.Pointer[T]
	active  atomic.Bool
	next    *Record[T] // immutable once published

	retired []*T
	scratch map[*T]struct{}
}

// Protect loads src into slot i and returns it once the published hazard
// is known to cover the loaded value.
func (r *Record[T]) Protect(i int, src *atomic.Pointer[T]) *T {
	p := src.Load()
	for {
		r.hazards[i].Store(p)
		q := src.Load()
		if q == p {
			return p
		}
		p = q
	}
}

// Set publishes p in slot i without validation.
// The caller must re-check that p is still reachable before using it.
func (r *Record[T]) Set(i int, p *T) {
	r.hazards[i].Store(p)
}

// Clear empties every slot.
func (r *Record[T]) Clear() {
	for i := range r.hazards {
		r.hazards[i].Store(nil)
	}
}

// Stats is a snapshot of domain counters.
type Stats struct {
	// Records ever created.
	Records int32
	// Objects retired and not yet released.
	Pending int64
	// Objects handed to the release function.
	Reclaimed int64
}

// Domain owns a set of records and the release function for one
// family of objects.
type Domain[T any] struct {
	head    atomic.Pointer[Record[T]]
	cache   sync_pool.SyncPool[*Record[T]]
	release func(*T)

	records   atomic.Int32
	pending   atomic.Int64
	reclaimed atomic.Int64
}

// NewDomain creates a domain that hands safe objects to release.
func NewDomain[T any](release func(*T)) *Domain[T] {
	return &Domain[T]{
		cache:   sync_pool.New(func() *Record[T] { return nil }, nil),
		release: release,
	}
}

// Acquire returns a record owned by the caller until Release.
func (d *Domain[T]) Acquire() *Record[T] {
	if r := d.cache.Get(); r != nil && r.active.CompareAndSwap(false, true) {
		return r
	}

	for r := d.head.Load(); r != nil; r = r.next {
		if !r.active.Load() && r.active.CompareAndSwap(false, true) {
			return r
		}
	}

	r := &Record[T]{scratch: make(map[*T]struct{})}
	r.active.Store(true)
	for {
		head := d.head.Load()
		r.next = head
		if d.head.CompareAndSwap(head, r) {
			break
		}
	}
	d.records.Add(1)
	return r
}

// Release clears the hazards of r and gives up ownership.
func (d *Domain[T]) Release(r *Record[T]) {
	r.Clear()
	r.active.Store(false)
	d.cache.Put(r)
}

// Retire schedules p for release. p must already be unreachable from the
// shared structure; goroutines that loaded it earlier may still hold it.
func (d *Domain[T]) Retire(r *Record[T], p *T) {
	r.retired = append(r.retired, p)
	d.pending.Add(1)
	if len(r.retired) >= d.threshold() {
		d.scan(r)
	}
}

// Scan releases every object retired through r that no hazard covers.
func (d *Domain[T]) Scan(r *Record[T]) {
	d.scan(r)
}

func (d *Domain[T]) threshold() int {
	return max(minScan, 2*Slots*int(d.records.Load()))
}

func (d *Domain[T]) scan(r *Record[T]) {
	protected := r.scratch
	for rec := d.head.Load(); rec != nil; rec = rec.next {
		for i := range rec.hazards {
			if p := rec.hazards[i].Load(); p != nil {
				protected[p] = struct{}{}
			}
		}
	}

	kept := r.retired[:0]
	freed := 0
	for _, p := range r.retired {
		if _, ok := protected[p]; ok {
			kept = append(kept, p)
			continue
		}
		d.release(p)
		freed++
	}
	clear(r.retired[len(kept):])
	r.retired = kept
	clear(protected)

	d.pending.Add(int64(-freed))
	d.reclaimed.Add(int64(freed))
}

// Drain releases every retired object of every record regardless of
// hazards. It must only be called once no goroutine uses the domain.
func (d *Domain[T]) Drain() {
	for rec := d.head.Load(); rec != nil; rec = rec.next {
		for _, p := range rec.retired {
			d.release(p)
		}
		n := len(rec.retired)
		rec.retired = nil
		rec.Clear()
		d.pending.Add(int64(-n))
		d.reclaimed.Add(int64(n))
	}
}

// Stats returns the current counters.
func (d *Domain[T]) Stats() Stats {
	return Stats{
		Records:   d.records.Load(),
		Pending:   d.pending.Load(),
		Reclaimed: d.reclaimed.Load(),
	}
}
