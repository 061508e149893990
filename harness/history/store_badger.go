package history

import (
	"encoding/binary"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-yaml"
)

// Store implementation using badger.
// Keys are the run start time in big endian nanoseconds followed by the
// implementation name, so key order is run order.
type BadgerStore struct {
	db *badger.DB
}

func NewBadgerStore(path string) (*BadgerStore, error) {
	db, err := badger.Open(badger.DefaultOptions(path).WithLogger(nil))
	if err != nil {
		return nil, err
	}

	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) String() string {
	return "badger-history"
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func (s *BadgerStore) Put(r Record) error {
	val, err := yaml.Marshal(r)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.recordKey(r), val)
	})
}

func (s *BadgerStore) List(limit int) (list []Record, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true // newest first
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if limit > 0 && len(list) >= limit {
				break
			}

			var r Record
			err := it.Item().Value(func(val []byte) error {
				return yaml.Unmarshal(val, &r)
			})
			if err != nil {
				return err
			}
			list = append(list, r)
		}
		return nil
	})

	return
}

func (s *BadgerStore) recordKey(r Record) []byte {
	key := make([]byte, 8, 8+len(r.Impl))
	binary.BigEndian.PutUint64(key, uint64(r.Time.UnixNano()))
	return append(key, r.Impl...)
}
