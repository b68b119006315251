package sandbox

import "github.com/hostchain/fungible-token-contract/host"

// StoreProvider hands out the per-account state stores of a simulated
// chain. The default provider keeps everything in memory; see the boltstore
// package for a persistent one.
type StoreProvider interface {
	Namespace(name string) host.StateStore
}

type memProvider struct {
	spaces map[string]*memStore
}

// NewMemProvider returns a provider of in-memory state stores.
func NewMemProvider() StoreProvider {
	return &memProvider{spaces: make(map[string]*memStore)}
}

func (p *memProvider) Namespace(name string) host.StateStore {
	s, ok := p.spaces[name]
	if !ok {
		s = &memStore{m: make(map[string][]byte)}
		p.spaces[name] = s
	}
	return s
}

type memStore struct {
	m     map[string][]byte
	usage uint64
}

func (s *memStore) Get(key []byte) []byte {
	v, ok := s.m[string(key)]
	if !ok {
		return nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out
}

func (s *memStore) Put(key, value []byte) {
	k := string(key)
	if old, ok := s.m[k]; ok {
		s.usage -= uint64(len(old))
	} else {
		s.usage += uint64(len(k))
	}
	v := make([]byte, len(value))
	copy(v, value)
	s.m[k] = v
	s.usage += uint64(len(v))
}

func (s *memStore) Delete(key []byte) {
	k := string(key)
	if old, ok := s.m[k]; ok {
		s.usage -= uint64(len(k) + len(old))
		delete(s.m, k)
	}
}

func (s *memStore) Usage() uint64 {
	return s.usage
}

// txStore buffers nothing but remembers how to undo: writes go straight to
// the base store while an undo log captures the previous values, so a
// panicking receipt can be rolled back and storage usage stays accurate
// mid-call.
type txStore struct {
	base    host.StateStore
	undo    []undoRecord
	touched map[string]bool
}

type undoRecord struct {
	key []byte
	old []byte // nil: the key was absent
}

func newTxStore(base host.StateStore) *txStore {
	return &txStore{base: base, touched: make(map[string]bool)}
}

func (t *txStore) snapshot(key []byte) {
	k := string(key)
	if t.touched[k] {
		return
	}
	t.touched[k] = true
	t.undo = append(t.undo, undoRecord{key: append([]byte(nil), key...), old: t.base.Get(key)})
}

func (t *txStore) Get(key []byte) []byte { return t.base.Get(key) }

func (t *txStore) Put(key, value []byte) {
	t.snapshot(key)
	t.base.Put(key, value)
}

func (t *txStore) Delete(key []byte) {
	t.snapshot(key)
	t.base.Delete(key)
}

func (t *txStore) Usage() uint64 { return t.base.Usage() }

func (t *txStore) revert() {
	for i := len(t.undo) - 1; i >= 0; i-- {
		rec := t.undo[i]
		if rec.old == nil {
			t.base.Delete(rec.key)
		} else {
			t.base.Put(rec.key, rec.old)
		}
	}
	t.undo = nil
	t.touched = make(map[string]bool)
}
