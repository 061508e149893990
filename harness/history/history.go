// Package history persists stress run reports.
package history

import (
	"fmt"
	"time"
)

// Record is the report of one stress run against one implementation.
type Record struct {
	// Start of the run
	Time time.Time `json:"time"`
	// Queue implementation
	Impl      string `json:"impl"`
	Producers int    `json:"producers"`
	Consumers int    `json:"consumers"`
	// Items enqueued in total
	Items int `json:"items"`
	// Wall time from first enqueue to last dequeue
	Elapsed time.Duration `json:"elapsed"`
	// Order independent hash of the delivered items
	Fingerprint uint64 `json:"fingerprint"`
	// Items taken by the least and most busy consumer
	ConsumerMin  int     `json:"consumer_min"`
	ConsumerMax  int     `json:"consumer_max"`
	ConsumerMean float64 `json:"consumer_mean"`
	// Nodes built from scratch rather than recycled
	NodesAllocated int64 `json:"nodes_allocated"`
	// Verification failure, empty on success
	Error string `json:"error,omitempty"`
}

// Store keeps run records, newest last.
type Store interface {
	String() string
	// Put appends a record.
	Put(r Record) error
	// List returns up to limit records, newest first. limit <= 0 means all.
	List(limit int) ([]Record, error)
	Close() error
}

// Open opens the store selected by backend at path.
func Open(backend string, path string) (Store, error) {
	switch backend {
	case "badger":
		return NewBadgerStore(path)
	case "sqlite":
		return NewSqliteStore(path)
	default:
		return nil, fmt.Errorf("unknown history backend %q", backend)
	}
}
