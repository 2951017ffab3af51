// Package memory provides an in-process implementation of every repository,
// the transaction manager and the code counter. It is used when no database
// is configured and by the test suites.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/HuyKhos/lamanh-shop-app/internal/core/id"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/tx"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/catalogs/partner"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/catalogs/product"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/debt"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/documents/export_receipt"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/documents/import_receipt"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/settings"
)

// state is everything a transaction may change.
type state struct {
	products map[id.ID]product.Product
	partners map[id.ID]partner.Partner
	debts    map[id.ID]debt.Record
	imports  map[id.ID]import_receipt.Receipt
	exports  map[id.ID]export_receipt.Receipt
	counters map[string]int64
	settings map[string]settings.Entry
	audit    []AuditEntry
}

func newState() *state {
	return &state{
		products: make(map[id.ID]product.Product),
		partners: make(map[id.ID]partner.Partner),
		debts:    make(map[id.ID]debt.Record),
		imports:  make(map[id.ID]import_receipt.Receipt),
		exports:  make(map[id.ID]export_receipt.Receipt),
		counters: make(map[string]int64),
		settings: make(map[string]settings.Entry),
	}
}

// clone copies the maps. Values are stored by value and receipt lines are
// never mutated in place, so a shallow copy per entry is enough.
func (s *state) clone() *state {
	return &state{
		products: maps.Clone(s.products),
		partners: maps.Clone(s.partners),
		debts:    maps.Clone(s.debts),
		imports:  maps.Clone(s.imports),
		exports:  maps.Clone(s.exports),
		counters: maps.Clone(s.counters),
		settings: maps.Clone(s.settings),
		audit:    append([]AuditEntry(nil), s.audit...),
	}
}

// Store holds all data behind one mutex. Transactions are fully serialized.
type Store struct {
	mu    sync.Mutex
	state *state
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{state: newState()}
}

// Compile-time check that Store implements tx.Manager interface.
var _ tx.Manager = (*Store)(nil)

// txKey marks a context that already holds the store lock.
type txKey struct{}

func (s *Store) inTx(ctx context.Context) bool {
	owner, ok := ctx.Value(txKey{}).(*Store)
	return ok && owner == s
}

// RunInTransaction executes fn under the store lock. On error every change
// made by fn is discarded. Nested calls reuse the outer transaction.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

// ReadOnly executes fn under the store lock.
func (s *Store) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.RunInTransaction(ctx, fn)
}

// view runs fn against the current state, taking the lock unless ctx is
// already inside a transaction of this store.
func (s *Store) view(ctx context.Context, fn func(st *state) error) error {
	if s.inTx(ctx) {
		return fn(s.state)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// Products returns the product repository.
func (s *Store) Products() *ProductRepo { return &ProductRepo{store: s} }

// Partners returns the partner repository.
func (s *Store) Partners() *PartnerRepo { return &PartnerRepo{store: s} }

// Debts returns the debt ledger repository.
func (s *Store) Debts() *DebtRepo { return &DebtRepo{store: s} }

// Imports returns the import receipt repository.
func (s *Store) Imports() *ImportRepo { return &ImportRepo{store: s} }

// Exports returns the export receipt repository.
func (s *Store) Exports() *ExportRepo { return &ExportRepo{store: s} }

// Settings returns the settings repository.
func (s *Store) Settings() *SettingsRepo { return &SettingsRepo{store: s} }
