package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/HuyKhos/lamanh-shop-app/internal/core/apperror"
	"github.com/HuyKhos/lamanh-shop-app/internal/core/id"
	corenumerator "github.com/HuyKhos/lamanh-shop-app/internal/core/numerator"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/documents"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/settings"
)

// --- Counters ---

// Numerator implements numerator.Generator on the store's counters, so an
// increment made inside a transaction is undone by its rollback.
type Numerator struct {
	store *Store
	cfg   corenumerator.Config
}

var _ corenumerator.Generator = (*Numerator)(nil)

// NewNumerator creates a counter-backed code generator.
func NewNumerator(store *Store, cfg corenumerator.Config) *Numerator {
	return &Numerator{store: store, cfg: cfg}
}

// Next implements numerator.Generator.
func (n *Numerator) Next(ctx context.Context, m corenumerator.Movement, now time.Time) (string, error) {
	if err := m.Validate(); err != nil {
		return "", err
	}
	key := n.cfg.CounterKey(m, now)
	var seq int64
	_ = n.store.view(ctx, func(st *state) error {
		st.counters[key]++
		seq = st.counters[key]
		return nil
	})
	return n.cfg.Format(m, now, seq), nil
}

// Preview implements numerator.Generator.
func (n *Numerator) Preview(ctx context.Context, m corenumerator.Movement, now time.Time) (string, error) {
	if err := m.Validate(); err != nil {
		return "", err
	}
	key := n.cfg.CounterKey(m, now)
	var seq int64
	_ = n.store.view(ctx, func(st *state) error {
		if _, ok := st.counters[key]; !ok {
			st.counters[key] = 0
		}
		seq = st.counters[key] + 1
		return nil
	})
	return n.cfg.Format(m, now, seq), nil
}

// Counter returns the raw counter value for key.
func (n *Numerator) Counter(key string) int64 {
	var v int64
	_ = n.store.view(context.Background(), func(st *state) error {
		v = st.counters[key]
		return nil
	})
	return v
}

// --- Settings ---

// SettingsRepo implements settings.Repository.
type SettingsRepo struct {
	store *Store
}

var _ settings.Repository = (*SettingsRepo)(nil)

func (r *SettingsRepo) Get(ctx context.Context, key string) (*settings.Entry, error) {
	var out *settings.Entry
	err := r.store.view(ctx, func(st *state) error {
		e, ok := st.settings[key]
		if !ok {
			return apperror.NewNotFound("setting", key)
		}
		out = &e
		return nil
	})
	return out, err
}

func (r *SettingsRepo) Upsert(ctx context.Context, e *settings.Entry) error {
	return r.store.view(ctx, func(st *state) error {
		st.settings[e.Key] = *e
		return nil
	})
}

// --- Audit ---

// AuditEntry is a recorded receipt deletion.
type AuditEntry struct {
	Kind      documents.Kind
	EntityID  id.ID
	Snapshot  json.RawMessage
	CreatedAt time.Time
}

// Auditor implements documents.Auditor in memory.
type Auditor struct {
	store *Store
}

var _ documents.Auditor = (*Auditor)(nil)

// NewAuditor creates an in-memory auditor.
func NewAuditor(store *Store) *Auditor {
	return &Auditor{store: store}
}

// RecordDeletion implements documents.Auditor.
func (a *Auditor) RecordDeletion(ctx context.Context, kind documents.Kind, entityID id.ID, snapshot any) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return a.store.view(ctx, func(st *state) error {
		st.audit = append(st.audit, AuditEntry{
			Kind:      kind,
			EntityID:  entityID,
			Snapshot:  raw,
			CreatedAt: time.Now().UTC(),
		})
		return nil
	})
}

// Entries returns recorded deletions.
func (a *Auditor) Entries() []AuditEntry {
	var out []AuditEntry
	_ = a.store.view(context.Background(), func(st *state) error {
		out = append(out, st.audit...)
		return nil
	})
	return out
}
