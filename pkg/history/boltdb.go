package history

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"path/filepath"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketTransitions = []byte("transitions")
	bucketMeta        = []byte("meta")
	keyNextSeq        = []byte("next_seq")
)

// BoltStore implements Store using a single bbolt file, adapted from the
// teacher's pkg/storage.BoltStore bucket-per-entity pattern.
type BoltStore struct {
	db     *bolt.DB
	retain int
}

// NewBoltStore opens (creating if absent) a bbolt-backed history file
// under dataDir, retaining at most retain records.
func NewBoltStore(dataDir string, retain int) (*BoltStore, error) {
	if retain <= 0 {
		retain = 50
	}
	dbPath := filepath.Join(dataDir, "history.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", dbPath, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketTransitions); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketMeta)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("history: init buckets: %w", err)
	}

	return &BoltStore{db: db, retain: retain}, nil
}

func (s *BoltStore) Close() error { return s.db.Close() }

// Append records rec under the next monotonic sequence key, then trims
// the bucket back down to the retention cap by deleting the
// lowest-numbered (oldest) keys.
func (s *BoltStore) Append(rec *Record) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		meta := tx.Bucket(bucketMeta)
		seq := nextSeq(meta)
		rec.Seq = seq

		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("history: marshal record: %w", err)
		}

		b := tx.Bucket(bucketTransitions)
		if err := b.Put(seqKey(seq), data); err != nil {
			return err
		}
		if err := meta.Put(keyNextSeq, seqKey(seq+1)); err != nil {
			return err
		}

		return trim(b, s.retain)
	})
}

func (s *BoltStore) List(limit int) ([]*Record, error) {
	var recs []*Record
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTransitions)
		c := b.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("history: unmarshal record: %w", err)
			}
			recs = append(recs, &rec)
			if limit > 0 && len(recs) >= limit {
				break
			}
		}
		return nil
	})
	return recs, err
}

func (s *BoltStore) Get(transitionID string) (*Record, error) {
	var found *Record
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTransitions)
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("history: unmarshal record: %w", err)
			}
			if rec.TransitionID == transitionID {
				found = &rec
				return nil
			}
		}
		return nil
	})
	if err == nil && found == nil {
		return nil, fmt.Errorf("history: transition not found: %s", transitionID)
	}
	return found, err
}

func nextSeq(meta *bolt.Bucket) uint64 {
	v := meta.Get(keyNextSeq)
	if v == nil {
		return 1
	}
	return binary.BigEndian.Uint64(v)
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

// trim deletes the oldest entries in b until at most retain remain.
func trim(b *bolt.Bucket, retain int) error {
	var keys [][]byte
	c := b.Cursor()
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		keys = append(keys, append([]byte(nil), k...))
	}
	if len(keys) <= retain {
		return nil
	}
	for _, k := range keys[:len(keys)-retain] {
		if err := b.Delete(k); err != nil {
			return err
		}
	}
	return nil
}
