// Package cache decorates a store.Store with an in-process principal cache.
//
// Only email lookups are cached. Any write through the decorated store drops
// the affected entry, and a lookup that raced with a write does not cache
// what it read, so a disabled or demoted principal is not served stale to
// the identity middleware after the write returns.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/aussiebroadwan/taskapi/internal/taskapi/domain"
	"github.com/aussiebroadwan/taskapi/internal/taskapi/store"
)

const (
	DefaultSize = 1024
	DefaultTTL  = 30 * time.Second
)

// Store wraps a store.Store and caches principals by email.
type Store struct {
	store.Store
	principals *entries
}

var (
	_ store.Store = (*Store)(nil)
	_ store.Tx    = (*trackedTx)(nil)
)

// entries guards the LRU with an eviction generation. A lookup only caches
// its result when no eviction happened while it was reading.
type entries struct {
	mu  sync.Mutex
	gen uint64
	lru *expirable.LRU[string, domain.Principal]
}

func (e *entries) get(email string) (domain.Principal, bool) {
	return e.lru.Get(email)
}

func (e *entries) generation() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gen
}

// addIfCurrent caches p unless an eviction ran after gen was read.
func (e *entries) addIfCurrent(gen uint64, email string, p domain.Principal) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gen == gen {
		e.lru.Add(email, p)
	}
}

func (e *entries) purge() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gen++
	e.lru.Purge()
}

func (e *entries) evict(emails ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gen++
	for _, email := range emails {
		if email != "" {
			e.lru.Remove(email)
		}
	}
}

// New wraps next. A non-positive size disables caching and returns next
// unchanged.
func New(next store.Store, size int, ttl time.Duration) store.Store {
	if size <= 0 {
		return next
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		Store:      next,
		principals: &entries{lru: expirable.NewLRU[string, domain.Principal](size, nil, ttl)},
	}
}

func (s *Store) Principals() store.Principals {
	return &principals{Principals: s.Store.Principals(), cache: s.principals}
}

// WithTx invalidates every principal written inside fn once the transaction
// commits.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	var touched []string
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		return fn(&trackedTx{storeTx: tx, touched: &touched})
	})
	s.principals.evict(touched...)
	return err
}

// Tx returns a transaction whose principal writes are dropped from the cache
// on Commit.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.Store.Tx(ctx)
	if err != nil {
		return nil, err
	}
	t := &trackedTx{storeTx: tx}
	t.touched = new([]string)
	t.onCommit = func() { s.principals.evict(*t.touched...) }
	return t, nil
}

// Purge empties the cache.
func (s *Store) Purge() { s.principals.purge() }

// Len reports the number of cached principals.
func (s *Store) Len() int { return s.principals.lru.Len() }

type principals struct {
	store.Principals
	cache *entries
}

func (p *principals) FindPrincipalByEmail(ctx context.Context, email string) (domain.Principal, error) {
	if cached, ok := p.cache.get(email); ok {
		return cached, nil
	}

	gen := p.cache.generation()
	found, err := p.Principals.FindPrincipalByEmail(ctx, email)
	if err != nil {
		return domain.Principal{}, err
	}
	p.cache.addIfCurrent(gen, email, found)
	return found, nil
}

func (p *principals) SavePrincipal(ctx context.Context, in domain.Principal) (domain.Principal, error) {
	// The email may have changed; drop the old key too.
	var prevEmail string
	if prev, err := p.Principals.GetPrincipalByID(ctx, in.ID); err == nil {
		prevEmail = prev.Email
	}

	saved, err := p.Principals.SavePrincipal(ctx, in)

	// Evict after the write so a concurrent lookup cannot re-cache the old row.
	p.cache.evict(prevEmail, in.Email)
	return saved, err
}

// storeTx names the embedded transaction without shadowing store.Tx's own
// Tx method.
type storeTx = store.Tx

type trackedTx struct {
	storeTx
	touched  *[]string
	onCommit func()
}

func (t *trackedTx) Principals() store.Principals {
	return &txPrincipals{Principals: t.storeTx.Principals(), touched: t.touched}
}

func (t *trackedTx) Commit() error {
	if err := t.storeTx.Commit(); err != nil {
		return err
	}
	if t.onCommit != nil {
		t.onCommit()
	}
	return nil
}

type txPrincipals struct {
	store.Principals
	touched *[]string
}

func (p *txPrincipals) SavePrincipal(ctx context.Context, in domain.Principal) (domain.Principal, error) {
	if prev, err := p.Principals.GetPrincipalByID(ctx, in.ID); err == nil && prev.Email != in.Email {
		*p.touched = append(*p.touched, prev.Email)
	}
	*p.touched = append(*p.touched, in.Email)
	return p.Principals.SavePrincipal(ctx, in)
}
