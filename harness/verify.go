package harness

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cespare/xxhash"
)

var (
	// ErrLoss means fewer items came out of the queue than went in.
	ErrLoss = errors.New("harness: item lost")
	// ErrDuplicate means an item came out of the queue more than once.
	ErrDuplicate = errors.New("harness: item duplicated")
	// ErrOrder means a consumer saw items of one producer out of order.
	ErrOrder = errors.New("harness: producer order violated")
)

// Item is what producers enqueue. Seq is unique across all producers and
// increases within each producer.
type Item struct {
	Producer int
	Seq      uint64
}

func (it Item) hash() uint64 {
	var b [16]byte
	binary.LittleEndian.PutUint64(b[:8], uint64(it.Producer))
	binary.LittleEndian.PutUint64(b[8:], it.Seq)
	return xxhash.Sum64(b[:])
}

// Fingerprint is an order independent hash of a multiset of items.
// Two multisets with equal fingerprints and counts are equal with high
// probability.
type Fingerprint struct {
	Count uint64
	Sum   uint64
}

// Add includes it in the fingerprint.
func (f *Fingerprint) Add(it Item) {
	f.Count++
	f.Sum += it.hash()
}

// Merge includes every item of o.
func (f *Fingerprint) Merge(o Fingerprint) {
	f.Count += o.Count
	f.Sum += o.Sum
}

// Verify checks the items received by each consumer against the
// fingerprint of everything produced. It checks, in order, that no item
// was delivered twice, that no consumer saw a producer's items out of
// order, and that nothing was lost.
func Verify(sent Fingerprint, received [][]Item) (Fingerprint, error) {
	var got Fingerprint
	seen := make(map[Item]struct{}, sent.Count)

	for c, items := range received {
		last := make(map[int]uint64)
		for _, it := range items {
			if _, ok := seen[it]; ok {
				return got, fmt.Errorf("%w: producer %d seq %d", ErrDuplicate, it.Producer, it.Seq)
			}
			seen[it] = struct{}{}

			if prev, ok := last[it.Producer]; ok && it.Seq <= prev {
				return got, fmt.Errorf("%w: consumer %d got seq %d after %d from producer %d",
					ErrOrder, c, it.Seq, prev, it.Producer)
			}
			last[it.Producer] = it.Seq
			got.Add(it)
		}
	}

	if got.Count != sent.Count {
		return got, fmt.Errorf("%w: sent %d, received %d", ErrLoss, sent.Count, got.Count)
	}
	if got.Sum != sent.Sum {
		// same count but a different multiset: something was replaced
		return got, fmt.Errorf("%w: fingerprint %016x, expected %016x", ErrLoss, got.Sum, sent.Sum)
	}
	return got, nil
}
