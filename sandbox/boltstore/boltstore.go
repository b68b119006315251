// Package boltstore persists sandbox contract state in a bbolt database,
// one bucket per namespace, so that a local sandbox survives process
// restarts.
package boltstore

import (
	"encoding/binary"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/hostchain/fungible-token-contract/host"
)

// usageBucket tracks the byte usage of every namespace, keyed by namespace
// name.
var usageBucket = []byte("_usage")

// Provider hands out bbolt-backed state stores. It satisfies
// sandbox.StoreProvider.
type Provider struct {
	db *bolt.DB
}

// Open opens (or creates) the database at path.
func Open(path string) (*Provider, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open state database: %w", err)
	}
	return &Provider{db: db}, nil
}

// Close releases the database.
func (p *Provider) Close() error {
	return p.db.Close()
}

// Namespace returns the state store backed by the bucket of that name.
func (p *Provider) Namespace(name string) host.StateStore {
	return &store{db: p.db, bucket: []byte(name)}
}

// store adapts one bucket to host.StateStore. The interface reports no
// errors, mirroring the host's storage primitives, so database failures
// panic and fail the executing call.
type store struct {
	db     *bolt.DB
	bucket []byte
}

func (s *store) Get(key []byte) []byte {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return nil
		}
		if v := b.Get(key); v != nil {
			out = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		panic(fmt.Errorf("state get: %w", err))
	}
	return out
}

func (s *store) Put(key, value []byte) {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(s.bucket)
		if err != nil {
			return err
		}

		delta := int64(len(value))
		if old := b.Get(key); old != nil {
			delta -= int64(len(old))
		} else {
			delta += int64(len(key))
		}
		if err := b.Put(append([]byte(nil), key...), append([]byte(nil), value...)); err != nil {
			return err
		}
		return s.adjustUsage(tx, delta)
	})
	if err != nil {
		panic(fmt.Errorf("state put: %w", err))
	}
}

func (s *store) Delete(key []byte) {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return nil
		}
		old := b.Get(key)
		if old == nil {
			return nil
		}
		if err := b.Delete(key); err != nil {
			return err
		}
		return s.adjustUsage(tx, -int64(len(key)+len(old)))
	})
	if err != nil {
		panic(fmt.Errorf("state delete: %w", err))
	}
}

func (s *store) Usage() uint64 {
	var usage uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(usageBucket)
		if b == nil {
			return nil
		}
		if v := b.Get(s.bucket); len(v) == 8 {
			usage = binary.BigEndian.Uint64(v)
		}
		return nil
	})
	if err != nil {
		panic(fmt.Errorf("state usage: %w", err))
	}
	return usage
}

func (s *store) adjustUsage(tx *bolt.Tx, delta int64) error {
	b, err := tx.CreateBucketIfNotExists(usageBucket)
	if err != nil {
		return err
	}

	var usage uint64
	if v := b.Get(s.bucket); len(v) == 8 {
		usage = binary.BigEndian.Uint64(v)
	}
	usage = uint64(int64(usage) + delta)

	return b.Put(s.bucket, binary.BigEndian.AppendUint64(nil, usage))
}
