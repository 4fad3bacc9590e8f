// Package memstore provides in-memory repositories and a transaction
// manager for domain tests. A failed transaction restores the state it
// started from, so rollback behavior can be asserted without PostgreSQL.
package memstore

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"posledger/internal/core/id"
	"posledger/internal/domain/attendance"
	"posledger/internal/domain/audit"
	"posledger/internal/domain/auth"
	"posledger/internal/domain/catalogs/employee"
	"posledger/internal/domain/catalogs/stockitem"
	"posledger/internal/domain/catalogs/supplier"
	"posledger/internal/domain/documents/bill"
)

type billSet struct {
	headers map[id.ID]bill.Bill
	details map[id.ID]bill.Details
	lines   []bill.Line
}

func newBillSet() *billSet {
	return &billSet{
		headers: make(map[id.ID]bill.Bill),
		details: make(map[id.ID]bill.Details),
	}
}

func (b *billSet) clone() *billSet {
	return &billSet{
		headers: maps.Clone(b.headers),
		details: maps.Clone(b.details),
		lines:   append([]bill.Line(nil), b.lines...),
	}
}

type state struct {
	stock      map[id.ID]stockitem.StockItem
	suppliers  map[id.ID]supplier.Supplier
	employees  map[id.ID]employee.Employee
	bills      map[bill.Direction]*billSet
	attendance []attendance.Record
	users      map[id.ID]auth.User
	sequences  map[string]int
	audit      []audit.Entry
}

func newState() *state {
	return &state{
		stock:     make(map[id.ID]stockitem.StockItem),
		suppliers: make(map[id.ID]supplier.Supplier),
		employees: make(map[id.ID]employee.Employee),
		bills: map[bill.Direction]*billSet{
			bill.DirectionPurchase: newBillSet(),
			bill.DirectionSale:     newBillSet(),
		},
		users:     make(map[id.ID]auth.User),
		sequences: make(map[string]int),
	}
}

// clone copies every table. Entities are stored by value, so a shallow
// map copy is enough.
func (s *state) clone() *state {
	return &state{
		stock:     maps.Clone(s.stock),
		suppliers: maps.Clone(s.suppliers),
		employees: maps.Clone(s.employees),
		bills: map[bill.Direction]*billSet{
			bill.DirectionPurchase: s.bills[bill.DirectionPurchase].clone(),
			bill.DirectionSale:     s.bills[bill.DirectionSale].clone(),
		},
		attendance: append([]attendance.Record(nil), s.attendance...),
		users:      maps.Clone(s.users),
		sequences:  maps.Clone(s.sequences),
		audit:      append([]audit.Entry(nil), s.audit...),
	}
}

// Store is the shared in-memory database.
type Store struct {
	mu    sync.Mutex
	txMu  sync.Mutex
	state *state

	// FailAfter makes the n-th repository write fail when > 0.
	// Used to exercise rollback paths.
	failAfter int
	writes    int
}

// New creates an empty store.
func New() *Store {
	return &Store{state: newState()}
}

// ErrInjected is returned by a write selected with FailOnWrite.
var ErrInjected = fmt.Errorf("memstore: injected write failure")

// FailOnWrite makes the n-th write from now fail with ErrInjected.
func (s *Store) FailOnWrite(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAfter = n
	s.writes = 0
}

// write runs fn under the lock, honoring injected failures.
func (s *Store) write(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAfter > 0 {
		s.writes++
		if s.writes == s.failAfter {
			s.failAfter = 0
			return ErrInjected
		}
	}
	return fn(s.state)
}

func (s *Store) read(fn func(st *state)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
}

// AuditEntries returns the recorded audit entries.
func (s *Store) AuditEntries() []audit.Entry {
	var out []audit.Entry
	s.read(func(st *state) { out = append(out, st.audit...) })
	return out
}

// --- Transactions ---

type txKey struct{}

// TxManager serializes transactions and restores the pre-transaction
// state when fn fails.
type TxManager struct {
	store *Store
}

// TxManager returns the store's transaction manager.
func (s *Store) TxManager() *TxManager {
	return &TxManager{store: s}
}

// RunInTransaction implements tx.Manager.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.store.txMu.Lock()
	defer m.store.txMu.Unlock()

	var snapshot *state
	m.store.read(func(st *state) { snapshot = st.clone() })

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		m.store.mu.Lock()
		m.store.state = snapshot
		m.store.mu.Unlock()
		return err
	}
	return nil
}

// --- Numerator and audit ---

// Numerator issues PREFIX-YEAR-NNNNN numbers from the store.
type Numerator struct {
	store *Store
}

// Numerator returns a generator backed by the store.
func (s *Store) Numerator() *Numerator {
	return &Numerator{store: s}
}

// Next implements numerator.Generator.
func (n *Numerator) Next(_ context.Context, prefix string, at time.Time) (string, error) {
	var number string
	err := n.store.write(func(st *state) error {
		key := fmt.Sprintf("%s_%d", prefix, at.Year())
		st.sequences[key]++
		number = fmt.Sprintf("%s-%d-%05d", prefix, at.Year(), st.sequences[key])
		return nil
	})
	return number, err
}

// AuditRecorder appends entries to the store.
type AuditRecorder struct {
	store *Store
}

// AuditRecorder returns a recorder backed by the store.
func (s *Store) AuditRecorder() *AuditRecorder {
	return &AuditRecorder{store: s}
}

// Record implements audit.Recorder.
func (r *AuditRecorder) Record(_ context.Context, entry audit.Entry) error {
	return r.store.write(func(st *state) error {
		st.audit = append(st.audit, entry)
		return nil
	})
}
