package harness

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/N3ro47/lockfree/harness/history"
	"github.com/N3ro47/lockfree/std/log"
	"github.com/N3ro47/lockfree/std/types/fifo"
	"github.com/N3ro47/lockfree/std/types/lockfree"
	"github.com/N3ro47/lockfree/std/types/node"
	"github.com/N3ro47/lockfree/std/types/twolock"
)

// queue is what a stress run needs from an implementation.
type queue interface {
	fifo.Queue[Item]
	Close()
}

// NewQueue creates an empty queue of the named implementation.
func NewQueue(impl string) (queue, error) {
	switch impl {
	case ImplLockFree:
		return lockfree.NewQueue[Item](), nil
	case ImplTwoLock:
		return twolock.New[Item](), nil
	default:
		return nil, fmt.Errorf("unknown queue implementation %q", impl)
	}
}

func nodeStats(q queue) node.Stats {
	switch q := q.(type) {
	case *lockfree.Queue[Item]:
		return q.Stats().Nodes
	case *twolock.Queue[Item]:
		return q.Stats()
	}
	return node.Stats{}
}

// Stress runs producers and consumers against one implementation.
type Stress struct {
	impl      string
	producers int
	consumers int
	perProd   int
	pin       bool

	seq  atomic.Uint64
	done atomic.Bool
}

func NewStress(c *Config, impl string) *Stress {
	return &Stress{
		impl:      impl,
		producers: c.Stress.Producers,
		consumers: c.Stress.Consumers,
		perProd:   c.Stress.ItemsPerProducer,
		pin:       c.Stress.LockThreadsToCores,
	}
}

func (s *Stress) String() string {
	return fmt.Sprintf("stress (%s)", s.impl)
}

// Run enqueues producers*perProd items, drains them through the
// consumers and verifies the delivery. A verification failure is
// returned and also noted in the record.
func (s *Stress) Run() (history.Record, error) {
	rec := history.Record{
		Time:      time.Now(),
		Impl:      s.impl,
		Producers: s.producers,
		Consumers: s.consumers,
		Items:     s.producers * s.perProd,
	}

	q, err := NewQueue(s.impl)
	if err != nil {
		return rec, err
	}
	defer q.Close()

	s.seq.Store(0)
	s.done.Store(false)

	sent := make([]Fingerprint, s.producers)
	received := make([][]Item, s.consumers)

	log.Info(s, "Starting run", "producers", s.producers, "consumers", s.consumers, "items", rec.Items)
	start := time.Now()

	var consWG sync.WaitGroup
	for c := 0; c < s.consumers; c++ {
		consWG.Add(1)
		go func(c int) {
			defer consWG.Done()
			s.pinWorker(s.producers + c)
			received[c] = s.consume(q)
		}(c)
	}

	var prodWG sync.WaitGroup
	for p := 0; p < s.producers; p++ {
		prodWG.Add(1)
		go func(p int) {
			defer prodWG.Done()
			s.pinWorker(p)
			sent[p] = s.produce(q, p)
		}(p)
	}

	prodWG.Wait()
	s.done.Store(true)
	consWG.Wait()
	rec.Elapsed = time.Since(start)

	var total Fingerprint
	for _, f := range sent {
		total.Merge(f)
	}
	got, err := Verify(total, received)
	rec.Fingerprint = got.Sum

	counts := make([]int, s.consumers)
	for c, items := range received {
		counts[c] = len(items)
	}
	rec.ConsumerMin, rec.ConsumerMax = minMax(counts)
	rec.ConsumerMean = mean(counts)
	rec.NodesAllocated = nodeStats(q).Allocated

	if err != nil {
		rec.Error = err.Error()
		log.Error(s, "Verification failed", "err", err)
		return rec, err
	}

	log.Info(s, "Run complete", "elapsed", rec.Elapsed,
		"rate", fmt.Sprintf("%.0f/s", perSecond(rec.Items, int64(rec.Elapsed))))
	return rec, nil
}

func (s *Stress) pinWorker(i int) {
	if !s.pin {
		return
	}
	if err := lockToCore(i); err != nil {
		log.Warn(s, "Unable to pin worker", "worker", i, "err", err)
	}
}

func (s *Stress) produce(q queue, p int) (f Fingerprint) {
	for i := 0; i < s.perProd; i++ {
		it := Item{Producer: p, Seq: s.seq.Add(1)}
		q.Enqueue(it)
		f.Add(it)
	}
	return f
}

// consume dequeues until the producers are done, then takes what is
// left. Once every Enqueue has returned, an empty Dequeue is final.
func (s *Stress) consume(q queue) []Item {
	items := make([]Item, 0, s.producers*s.perProd/s.consumers)
	for {
		if it, ok := q.Dequeue(); ok {
			items = append(items, it)
			continue
		}
		if s.done.Load() {
			for it := range fifo.Drain[Item](q) {
				items = append(items, it)
			}
			return items
		}
		runtime.Gosched()
	}
}
