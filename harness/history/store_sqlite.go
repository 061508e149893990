package history

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	time INTEGER NOT NULL,
	impl TEXT NOT NULL,
	producers INTEGER NOT NULL,
	consumers INTEGER NOT NULL,
	items INTEGER NOT NULL,
	elapsed INTEGER NOT NULL,
	fingerprint INTEGER NOT NULL,
	consumer_min INTEGER NOT NULL,
	consumer_max INTEGER NOT NULL,
	consumer_mean REAL NOT NULL,
	nodes_allocated INTEGER NOT NULL,
	error TEXT NOT NULL
);`

// Store implementation using sqlite.
type SqliteStore struct {
	db *sql.DB
}

func NewSqliteStore(path string) (*SqliteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err = db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, err
	}

	return &SqliteStore{db: db}, nil
}

func (s *SqliteStore) String() string {
	return "sqlite-history"
}

func (s *SqliteStore) Close() error {
	return s.db.Close()
}

func (s *SqliteStore) Put(r Record) error {
	// the driver rejects uint64 with the high bit set
	_, err := s.db.Exec(`INSERT INTO runs (time, impl, producers, consumers, items, elapsed,
		fingerprint, consumer_min, consumer_max, consumer_mean, nodes_allocated, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Time.UnixNano(), r.Impl, r.Producers, r.Consumers, r.Items, int64(r.Elapsed),
		int64(r.Fingerprint), r.ConsumerMin, r.ConsumerMax, r.ConsumerMean, r.NodesAllocated, r.Error)
	return err
}

func (s *SqliteStore) List(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = -1 // no limit in sqlite
	}
	rows, err := s.db.Query(`SELECT time, impl, producers, consumers, items, elapsed,
		fingerprint, consumer_min, consumer_max, consumer_mean, nodes_allocated, error
		FROM runs ORDER BY time DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []Record{}
	for rows.Next() {
		var r Record
		var ts, elapsed, fp int64
		err := rows.Scan(&ts, &r.Impl, &r.Producers, &r.Consumers, &r.Items, &elapsed,
			&fp, &r.ConsumerMin, &r.ConsumerMax, &r.ConsumerMean, &r.NodesAllocated, &r.Error)
		if err != nil {
			return nil, err
		}
		r.Time = time.Unix(0, ts)
		r.Elapsed = time.Duration(elapsed)
		r.Fingerprint = uint64(fp)
		list = append(list, r)
	}
	return list, rows.Err()
}
