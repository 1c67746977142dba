package report

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/safing/pqbase/formats/dsd"
	"github.com/safing/pqbase/selftest"
	"github.com/safing/pqbase/utils"
)

var bucketName = []byte("results")

// ErrNotFound is returned when a result does not exist.
var ErrNotFound = errors.New("result not found")

// Store keeps the history of self-test results in a bbolt database.
type Store struct {
	db *bbolt.DB
}

// OpenStore opens or creates the store at path.
func OpenStore(path string) (*Store, error) {
	if err := utils.EnsureParentDirectory(path, 0o700); err != nil {
		return nil, err
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}

	// Create bucket
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// keys sort chronologically
func resultKey(res *selftest.Result) []byte {
	return []byte(res.Started.UTC().Format("20060102T150405.000000000Z") + "/" + res.ID)
}

// Save stores the results.
func (s *Store) Save(results ...*selftest.Result) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		for _, res := range results {
			data, err := dsd.DumpAndCompress(res, dsd.CBOR, dsd.GZIP)
			if err != nil {
				return err
			}
			if err := bucket.Put(resultKey(res), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// Get returns the result with the given ID.
func (s *Store) Get(id string) (*selftest.Result, error) {
	if id == "" {
		return nil, ErrNotFound
	}

	suffix := []byte("/" + id)
	var found *selftest.Result
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).ForEach(func(k, v []byte) error {
			if found != nil || !bytes.HasSuffix(k, suffix) {
				return nil
			}
			res := &selftest.Result{}
			if _, err := dsd.DecompressAndLoad(v, res); err != nil {
				return err
			}
			found = res
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}

// List returns up to limit results, newest first. A limit of 0 returns all.
func (s *Store) List(limit int) ([]*selftest.Result, error) {
	var results []*selftest.Result
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketName).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(results) >= limit {
				break
			}
			res := &selftest.Result{}
			if _, err := dsd.DecompressAndLoad(v, res); err != nil {
				return fmt.Errorf("failed to load result %s: %w", k, err)
			}
			results = append(results, res)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Purge removes all results started before the given time and returns how many were removed.
func (s *Store) Purge(before time.Time) (n int, err error) {
	limit := before.UTC().Format("20060102T150405.000000000Z")
	err = s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketName)

		// collect first, deleting moves the cursor
		var keys [][]byte
		c := bucket.Cursor()
		for k, _ := c.First(); k != nil && string(k) < limit; k, _ = c.Next() {
			keys = append(keys, append([]byte(nil), k...))
		}
		for _, k := range keys {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		n = len(keys)
		return nil
	})
	return n, err
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}
