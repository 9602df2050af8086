package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
)

// State describes the lifecycle of the supervised connection pool.
type State int

const (
	StateUnconfigured State = iota // no DSN supplied; every acquire fails
	StateHealthy                   // pool open and serving
	StateReconnecting              // lost connectivity; redial loop running
	StateFailed                    // configuration unusable (e.g. bad DSN)
)

func (s State) String() string {
	switch s {
	case StateUnconfigured:
		return "unconfigured"
	case StateHealthy:
		return "healthy"
	case StateReconnecting:
		return "reconnecting"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// ErrUnconfigured is returned by Acquire when no database was configured.
var ErrUnconfigured = errors.New("database not configured")

// ErrUnavailable is returned by Acquire when the pool is not healthy within
// the caller's deadline.
var ErrUnavailable = errors.New("database unavailable")

// maxReconnectBackoff caps the redial backoff.
const maxReconnectBackoff = 30 * time.Second

// Pool owns the process-wide *sql.DB and supervises its lifecycle. All
// state transitions happen here: repositories only acquire a handle, and
// handlers report connectivity errors back via ReportError. A lost
// connection moves the pool to StateReconnecting and a background loop
// redials with capped exponential backoff instead of crashing the process.
type Pool struct {
	mu       sync.RWMutex
	db       *sql.DB
	state    State
	dsn      string
	maxOpen  int
	maxIdle  int
	lifetime time.Duration
}

// New builds a Pool for the given DSN. An empty DSN yields an unconfigured
// pool. When the first dial fails the pool starts in StateReconnecting and
// keeps retrying in the background.
func New(dsn string, maxOpen, maxIdle int, lifetime time.Duration) *Pool {
	p := &Pool{dsn: dsn, maxOpen: maxOpen, maxIdle: maxIdle, lifetime: lifetime}
	if dsn == "" {
		p.state = StateUnconfigured
		return p
	}
	if _, err := mysql.ParseDSN(dsn); err != nil {
		log.Printf("database: invalid DSN: %v", err)
		p.state = StateFailed
		return p
	}
	db, err := Open(dsn, maxOpen, maxIdle, lifetime)
	if err != nil {
		log.Printf("database: initial connect failed: %v; retrying in background", err)
		p.state = StateReconnecting
		go p.reconnect()
		return p
	}
	p.db = db
	p.state = StateHealthy
	log.Printf("database: pool created")
	return p
}

// NewFromDB wraps an existing handle in a healthy pool. Used by tests.
func NewFromDB(db *sql.DB) *Pool {
	return &Pool{db: db, state: StateHealthy}
}

// State returns the current pool state.
func (p *Pool) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Acquire returns the shared *sql.DB. While the pool is reconnecting the
// call waits, bounded by ctx, for it to become healthy again so short
// outages do not fail every in-flight request.
func (p *Pool) Acquire(ctx context.Context) (*sql.DB, error) {
	for {
		p.mu.RLock()
		st, db := p.state, p.db
		p.mu.RUnlock()
		switch st {
		case StateHealthy:
			return db, nil
		case StateUnconfigured:
			return nil, ErrUnconfigured
		case StateFailed:
			return nil, ErrUnavailable
		}
		select {
		case <-ctx.Done():
			return nil, ErrUnavailable
		case <-time.After(100 * time.Millisecond):
		}
	}
}

// Ping verifies the underlying connection. Unhealthy pools fail fast.
func (p *Pool) Ping(ctx context.Context) error {
	p.mu.RLock()
	st, db := p.state, p.db
	p.mu.RUnlock()
	switch st {
	case StateUnconfigured:
		return ErrUnconfigured
	case StateHealthy:
		return db.PingContext(ctx)
	}
	return ErrUnavailable
}

// ReportError notifies the pool of a query failure. Non-connectivity errors
// are ignored. A connectivity error on a healthy pool closes the handle and
// starts the redial loop; unrelated in-flight requests keep their handle
// and fail or succeed on their own.
func (p *Pool) ReportError(err error) {
	if !IsConnectivityError(err) {
		return
	}
	p.mu.Lock()
	if p.state != StateHealthy {
		p.mu.Unlock()
		return
	}
	old := p.db
	p.db = nil
	p.state = StateReconnecting
	p.mu.Unlock()

	log.Printf("database: connectivity error, reconnecting: %v", err)
	if old != nil {
		_ = old.Close()
	}
	go p.reconnect()
}

// reconnect redials until it succeeds, doubling the delay up to
// maxReconnectBackoff between attempts.
func (p *Pool) reconnect() {
	backoff := time.Second
	for {
		db, err := Open(p.dsn, p.maxOpen, p.maxIdle, p.lifetime)
		if err == nil {
			p.mu.Lock()
			p.db = db
			p.state = StateHealthy
			p.mu.Unlock()
			log.Printf("database: reconnected")
			return
		}
		log.Printf("database: reconnect failed: %v; next attempt in %s", err, backoff)
		time.Sleep(backoff)
		if backoff < maxReconnectBackoff {
			backoff *= 2
		}
	}
}

// connectivitySubstrings mark errors that indicate the store itself is
// unreachable rather than a bad statement or constraint violation.
var connectivitySubstrings = []string{
	"password authentication failed",
	"authentication failed",
	"self-signed",
	"certificate",
	"connection refused",
	"could not connect",
	"invalid connection",
	"broken pipe",
	"timeout",
	"deadline exceeded",
}

// IsConnectivityError reports whether err looks like a store connectivity
// failure. Such failures map to 503 responses, distinct from generic 500s.
func IsConnectivityError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, ErrUnavailable) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range connectivitySubstrings {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
