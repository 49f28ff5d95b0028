package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/huntclub/hunt-api/internal/domain"
	"github.com/huntclub/hunt-api/internal/repository"
	"github.com/jackc/pgx/v5"
)

var errStore = errors.New("connection reset")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }

// fakeTx only implements the lifecycle calls; repositories are faked too.
type fakeTx struct {
	pgx.Tx
	opts       pgx.TxOptions
	commitErr  error
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(context.Context) error {
	if t.commitErr != nil {
		return t.commitErr
	}
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeDB struct {
	repository.DBTX
	beginErr  error
	commitErr error

	mu  sync.Mutex
	txs []*fakeTx
}

func (d *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	return d.BeginTx(ctx, pgx.TxOptions{})
}

func (d *fakeDB) BeginTx(_ context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	if d.beginErr != nil {
		return nil, d.beginErr
	}
	tx := &fakeTx{opts: opts, commitErr: d.commitErr}
	d.mu.Lock()
	d.txs = append(d.txs, tx)
	d.mu.Unlock()
	return tx, nil
}

func (d *fakeDB) committed() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, tx := range d.txs {
		if tx.committed {
			n++
		}
	}
	return n
}

type fakePlayers struct {
	byEmail map[string]*domain.Player
	err     error
	calls   atomic.Int32
}

func (f *fakePlayers) FindAssignedByEmail(_ context.Context, _ repository.DBTX, email string) (*domain.Player, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.byEmail[email]
	if !ok || p.Team == nil {
		return nil, nil
	}
	return p, nil
}

type fakeTeams struct {
	names map[string]bool
	err   error
}

func (f *fakeTeams) FindByName(_ context.Context, _ repository.DBTX, name string) (*domain.Team, error) {
	if f.err != nil {
		return nil, f.err
	}
	if !f.names[name] {
		return nil, nil
	}
	return &domain.Team{Name: name}, nil
}

// fakeCodes keeps code rows in memory; Claim is a compare-and-set under mu,
// the same contract the conditional UPDATE gives.
type fakeCodes struct {
	mu       sync.Mutex
	rows     map[string]*domain.Code
	findErr  error
	claimErr error
	claims   int
}

func codeKey(kind domain.CodeKind, code string) string {
	return kind.String() + "/" + code
}

func (f *fakeCodes) put(c domain.Code) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rows == nil {
		f.rows = make(map[string]*domain.Code)
	}
	f.rows[codeKey(c.Kind, c.Code)] = &c
}

func (f *fakeCodes) get(kind domain.CodeKind, code string) *domain.Code {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[codeKey(kind, code)]
	if !ok {
		return nil
	}
	cp := *c
	return &cp
}

func (f *fakeCodes) FindByCode(_ context.Context, _ repository.DBTX, kind domain.CodeKind, code string) (*domain.Code, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.get(kind, code), nil
}

func (f *fakeCodes) Claim(_ context.Context, _ repository.DBTX, kind domain.CodeKind, code, team, email string, at time.Time) (bool, error) {
	if f.claimErr != nil {
		return false, f.claimErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.claims++
	c, ok := f.rows[codeKey(kind, code)]
	if !ok || c.TeamName != nil {
		return false, nil
	}
	c.TeamName = &team
	c.PlayerEmail = &email
	c.RedeemDate = &at
	return true, nil
}

type fakeAttempts struct {
	mu   sync.Mutex
	rows []domain.Attempt
	err  error
}

func (f *fakeAttempts) Insert(_ context.Context, _ repository.DBTX, a domain.Attempt) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	f.rows = append(f.rows, a)
	f.mu.Unlock()
	return nil
}

func (f *fakeAttempts) all() []domain.Attempt {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Attempt(nil), f.rows...)
}

type fakeNotifier struct {
	mu  sync.Mutex
	got []domain.Redemption
}

func (f *fakeNotifier) Notify(_ context.Context, r domain.Redemption) {
	f.mu.Lock()
	f.got = append(f.got, r)
	f.mu.Unlock()
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.got)
}
