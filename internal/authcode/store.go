// Package authcode implements the single-use authorization code store.
//
// Consume is the correctness-critical operation: it must behave as a
// linearizable check-and-delete so that a code can never be redeemed
// twice, no matter how requests interleave.
package authcode

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dropDatabas3/proxima/internal/metrics"
	"github.com/dropDatabas3/proxima/internal/observability/logger"
	"github.com/dropDatabas3/proxima/internal/preset"
	tokens "github.com/dropDatabas3/proxima/internal/security/token"
)

var (
	ErrNotFound    = errors.New("authorization code not found")
	ErrExpired     = errors.New("authorization code expired")
	ErrAlreadyUsed = errors.New("authorization code already used")
)

const codeBytes = 16 // 32 hex chars, 128 bits

// issueSweepThreshold dispara una limpieza inline en Issue cuando el
// mapa crece demasiado entre ticks del sweeper.
const issueSweepThreshold = 10_000

// Record binds a code to its flow state. Preset is a snapshot taken at
// issuance time, immune to later activations.
type Record struct {
	Code        string
	ClientID    string
	RedirectURI string
	Scope       string
	State       string
	Nonce       string
	Subject     string
	Preset      preset.Preset
	IssuedAt    time.Time
	ExpiresAt   time.Time

	consumed bool
}

type Store struct {
	mu    sync.Mutex
	codes map[string]*Record

	ttl   time.Duration
	sweep time.Duration
	now   func() time.Time
}

// Option configura el store (solo tests usan WithClock).
type Option func(*Store)

// WithClock reemplaza el reloj del store.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a store. ttl is how long an unconsumed code stays
// redeemable; sweep is the cleanup interval for Run.
func NewStore(ttl, sweep time.Duration, opts ...Option) *Store {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	if sweep <= 0 {
		sweep = time.Minute
	}
	s := &Store{
		codes: make(map[string]*Record),
		ttl:   ttl,
		sweep: sweep,
		now:   time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// TTL returns the configured code lifetime.
func (s *Store) TTL() time.Duration { return s.ttl }

// Issue stores a new single-use code and returns it. The caller fills
// the flow fields; Code, IssuedAt and ExpiresAt are set here. A
// generated code colliding with a live entry is an internal fault and
// is never silently overwritten.
func (s *Store) Issue(ctx context.Context, rec Record) (string, error) {
	code, err := tokens.GenerateHexToken(codeBytes)
	if err != nil {
		return "", fmt.Errorf("authcode: generate: %w", err)
	}

	now := s.now().UTC()
	rec.Code = code
	rec.IssuedAt = now
	rec.ExpiresAt = now.Add(s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.codes[code]; exists {
		return "", fmt.Errorf("authcode: code collision for client %s", rec.ClientID)
	}
	if len(s.codes) >= issueSweepThreshold {
		s.sweepExpiredLocked(now)
	}
	s.codes[code] = &rec

	metrics.AuthCodeIssued()
	return code, nil
}

// Consume redeems a code exactly once. The lookup, expiry check and
// consumed-flag flip happen under one lock, so concurrent calls on the
// same code yield one success and the rest ErrAlreadyUsed. Consumed
// records stay as tombstones until the sweeper drops them, which keeps
// replay distinguishable from never-existed.
func (s *Store) Consume(ctx context.Context, code string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.codes[code]
	if !ok {
		metrics.AuthCodeConsume("not_found")
		return nil, ErrNotFound
	}
	if rec.consumed {
		metrics.AuthCodeConsume("already_used")
		return nil, ErrAlreadyUsed
	}
	if s.now().After(rec.ExpiresAt) {
		delete(s.codes, code)
		metrics.AuthCodeConsume("expired")
		return nil, ErrExpired
	}

	rec.consumed = true
	metrics.AuthCodeConsume("ok")

	out := *rec
	out.Preset = rec.Preset.Clone()
	return &out, nil
}

// Run sweeps expired entries and consumed tombstones until ctx is done.
func (s *Store) Run(ctx context.Context) error {
	log := logger.Named("authcode")
	t := time.NewTicker(s.sweep)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if n := s.sweepExpired(); n > 0 {
				log.Debug("swept authorization codes", logger.Count(n))
			}
		}
	}
}

// sweepExpired removes dead entries; returns how many were dropped.
// Consumed tombstones are kept until their natural expiry so replays
// keep failing with ErrAlreadyUsed in the meantime.
func (s *Store) sweepExpired() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepExpiredLocked(now)
}

// sweepExpiredLocked requiere s.mu tomado.
func (s *Store) sweepExpiredLocked(now time.Time) int {
	n := 0
	for code, rec := range s.codes {
		if now.After(rec.ExpiresAt) {
			delete(s.codes, code)
			n++
		}
	}
	return n
}

// Len reports live entries (incluye tombstones aún no barridos).
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.codes)
}
