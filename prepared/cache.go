package prepared

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/bawdo/selekt/backend"
	"github.com/bawdo/selekt/nodes"
	"github.com/bawdo/selekt/visitors"
)

// DefaultMaxEntries bounds a cache built without WithMaxEntries.
const DefaultMaxEntries = 256

// ErrClosed is returned by a cache after Close.
var ErrClosed = errors.New("prepared: cache is closed")

// Statement is a renderable statement with a shape identity.
// *nodes.SelectStatement satisfies it.
type Statement interface {
	nodes.QueryFragment
	Fingerprint() nodes.Fingerprint
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger prepare and evict events are written to at
// debug level. The default discards them.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxEntries bounds the number of prepared statements kept open. The
// least recently used statement is closed when the bound is exceeded.
func WithMaxEntries(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// Stats reports cache activity.
type Stats struct {
	Hits    uint64
	Misses  uint64
	Entries int
}

type entry struct {
	sql     string
	stmt    *sql.Stmt
	refs    int  // outstanding leases
	evicted bool // removed from the cache; closed when refs drops to zero
}

// Lease is a prepared statement checked out of a Cache together with the
// bind values of one statement. Stmt stays open until Release, even when
// the cache evicts its shape in the meantime. Rows obtained from Stmt before
// Release remain readable after it.
type Lease struct {
	Stmt   *sql.Stmt
	Params []any

	cache    *Cache
	entry    *entry
	released atomic.Bool
}

// Release returns the lease to its cache. Calls after the first are no-ops.
func (l *Lease) Release() {
	if l.released.Swap(true) {
		return
	}
	l.cache.release(l.entry)
}

// Cache prepares each statement shape once and reuses the prepared
// statement for every later statement with the same fingerprint. Only the
// bind values are collected for a cached shape; the SQL text is not
// rendered again.
//
// A Cache is safe for concurrent use. Statements are rendered and prepared
// without holding the cache lock, so a slow prepare does not stall hits.
type Cache struct {
	db         *sql.DB
	backend    backend.Backend
	logger     *slog.Logger
	maxEntries int

	mu      sync.Mutex
	entries map[nodes.Fingerprint]*entry
	recency []nodes.Fingerprint // least recently used first
	stats   Stats
	closed  bool
}

// New creates a cache preparing statements rendered for b on db. The
// backend must match the database db is connected to.
func New(db *sql.DB, b backend.Backend, opts ...Option) *Cache {
	c := &Cache{
		db:         db,
		backend:    b,
		logger:     slog.New(slog.DiscardHandler),
		maxEntries: DefaultMaxEntries,
		entries:    make(map[nodes.Fingerprint]*entry),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Backend returns the backend statements are rendered for.
func (c *Cache) Backend() backend.Backend { return c.backend }

// Prepare checks out the prepared statement for stmt's shape together with
// stmt's bind values in placeholder order. The caller must Release the lease.
func (c *Cache) Prepare(ctx context.Context, stmt Statement) (*Lease, error) {
	fp := stmt.Fingerprint()

	e, err := c.acquire(fp)
	if err != nil {
		return nil, err
	}
	if e != nil {
		v := visitors.New(c.backend, visitors.BindsOnly())
		if err := visitors.Walk(stmt, v); err != nil {
			c.release(e)
			return nil, err
		}
		return &Lease{Stmt: e.stmt, Params: v.Params(), cache: c, entry: e}, nil
	}

	query, params, err := visitors.Build(stmt, c.backend)
	if err != nil {
		return nil, err
	}
	ps, err := c.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("prepare: %w", err)
	}
	e, err = c.insert(fp, query, ps)
	if err != nil {
		return nil, err
	}
	return &Lease{Stmt: e.stmt, Params: params, cache: c, entry: e}, nil
}

// Query runs stmt through its prepared statement.
func (c *Cache) Query(ctx context.Context, stmt Statement) (*sql.Rows, error) {
	lease, err := c.Prepare(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer lease.Release()
	rows, err := lease.Stmt.QueryContext(ctx, lease.Params...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return rows, nil
}

// SQL returns the prepared text cached for fp, if any.
func (c *Cache) SQL(fp nodes.Fingerprint) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[fp]
	if !ok {
		return "", false
	}
	return e.sql, true
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Entries = len(c.entries)
	return s
}

// Close closes every prepared statement that is not leased; leased ones
// close on their last Release. The database handle is left open.
func (c *Cache) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	var doomed []*sql.Stmt
	for fp, e := range c.entries {
		if s := e.retire(); s != nil {
			doomed = append(doomed, s)
		}
		delete(c.entries, fp)
	}
	c.recency = nil
	c.mu.Unlock()

	errs := make([]error, 0, len(doomed))
	for _, s := range doomed {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}

// acquire leases the cached entry for fp, or returns nil on a miss.
func (c *Cache) acquire(fp nodes.Fingerprint) (*entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}
	e, ok := c.entries[fp]
	if !ok {
		return nil, nil
	}
	e.refs++
	c.stats.Hits++
	c.touch(fp)
	return e, nil
}

// insert stores a freshly prepared statement and leases it. When another
// caller prepared the same shape first, ps is discarded in favour of theirs.
func (c *Cache) insert(fp nodes.Fingerprint, query string, ps *sql.Stmt) (*entry, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		_ = ps.Close()
		return nil, ErrClosed
	}
	c.stats.Misses++
	if e, ok := c.entries[fp]; ok {
		e.refs++
		c.touch(fp)
		c.mu.Unlock()
		c.logger.Debug("duplicate prepare discarded", "fingerprint", fp.String())
		c.closeStmt(fp, ps)
		return e, nil
	}
	e := &entry{sql: query, stmt: ps, refs: 1}
	c.entries[fp] = e
	c.recency = append(c.recency, fp)
	c.logger.Debug("statement prepared", "fingerprint", fp.String(), "sql", query)
	doomed := c.evict()
	c.mu.Unlock()

	for efp, s := range doomed {
		c.closeStmt(efp, s)
	}
	return e, nil
}

func (c *Cache) release(e *entry) {
	c.mu.Lock()
	e.refs--
	var doomed *sql.Stmt
	if e.refs == 0 && e.evicted {
		doomed = e.stmt
	}
	c.mu.Unlock()
	if doomed != nil {
		if err := doomed.Close(); err != nil {
			c.logger.Warn("closing evicted statement", "error", err)
		}
	}
}

// retire marks e evicted and returns its statement if nobody holds a lease.
// c.mu must be held.
func (e *entry) retire() *sql.Stmt {
	e.evicted = true
	if e.refs > 0 {
		return nil
	}
	return e.stmt
}

func (c *Cache) closeStmt(fp nodes.Fingerprint, s *sql.Stmt) {
	if err := s.Close(); err != nil {
		c.logger.Warn("closing evicted statement", "fingerprint", fp.String(), "error", err)
	}
}

// touch marks fp as most recently used. c.mu must be held.
func (c *Cache) touch(fp nodes.Fingerprint) {
	if i := slices.Index(c.recency, fp); i >= 0 {
		c.recency = append(slices.Delete(c.recency, i, i+1), fp)
	}
}

// evict drops least recently used entries beyond the bound and returns the
// statements that can be closed now. c.mu must be held.
func (c *Cache) evict() map[nodes.Fingerprint]*sql.Stmt {
	var doomed map[nodes.Fingerprint]*sql.Stmt
	for len(c.recency) > c.maxEntries {
		fp := c.recency[0]
		c.recency = c.recency[1:]
		e := c.entries[fp]
		delete(c.entries, fp)
		c.logger.Debug("statement evicted", "fingerprint", fp.String(), "leased", e.refs)
		if s := e.retire(); s != nil {
			if doomed == nil {
				doomed = make(map[nodes.Fingerprint]*sql.Stmt)
			}
			doomed[fp] = s
		}
	}
	return doomed
}
