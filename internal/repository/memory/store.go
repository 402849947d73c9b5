// Package memory keeps every casework table in process memory. Transactions
// run against a private copy of the state that replaces the committed copy
// only when the transaction function succeeds.
package memory

import (
	"context"
	"sync"

	models "casedesk/internal/domain/models/casework"
	"casedesk/internal/domain/repositories"
	repo "casedesk/internal/domain/repositories/casework"
)

type state struct {
	cases       map[string]models.Case
	members     map[string]map[string]bool
	staff       map[string]models.StaffIdentity
	tasks       map[string]models.Task
	annotations map[string]models.Annotation
	attachments map[string]models.Attachment
	folders     map[string]models.Folder
	cycleKeys   map[cycleKey]bool
}

type cycleKey struct {
	taskID string
	key    string
}

func newState() *state {
	return &state{
		cases:       make(map[string]models.Case),
		members:     make(map[string]map[string]bool),
		staff:       make(map[string]models.StaffIdentity),
		tasks:       make(map[string]models.Task),
		annotations: make(map[string]models.Annotation),
		attachments: make(map[string]models.Attachment),
		folders:     make(map[string]models.Folder),
		cycleKeys:   make(map[cycleKey]bool),
	}
}

func (st *state) clone() *state {
	c := newState()
	for k, v := range st.cases {
		c.cases[k] = v
	}
	for k, v := range st.members {
		m := make(map[string]bool, len(v))
		for u := range v {
			m[u] = true
		}
		c.members[k] = m
	}
	for k, v := range st.staff {
		c.staff[k] = v
	}
	for k, v := range st.tasks {
		c.tasks[k] = v
	}
	for k, v := range st.annotations {
		c.annotations[k] = v
	}
	for k, v := range st.attachments {
		c.attachments[k] = v
	}
	for k, v := range st.folders {
		c.folders[k] = v
	}
	for k, v := range st.cycleKeys {
		c.cycleKeys[k] = v
	}
	return c
}

type txKey struct{}

// Store is an in-memory task store. The zero value is not usable; call NewStore.
type Store struct {
	// txMu serializes transactions and standalone writes
	txMu sync.Mutex
	// mu guards committed
	mu        sync.RWMutex
	committed *state

	faultMu sync.Mutex
	faults  map[string]*fault
}

type fault struct {
	skip int
	err  error
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		committed: newState(),
		faults:    make(map[string]*fault),
	}
}

// FailAfter makes the operation op fail with err once it has succeeded skip
// more times. Operation names are "<table>.<method>", e.g. "attachments.create".
func (s *Store) FailAfter(op string, skip int, err error) {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	s.faults[op] = &fault{skip: skip, err: err}
}

// ClearFaults removes every injected failure
func (s *Store) ClearFaults() {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	s.faults = make(map[string]*fault)
}

func (s *Store) fault(op string) error {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	f, ok := s.faults[op]
	if !ok {
		return nil
	}
	if f.skip > 0 {
		f.skip--
		return nil
	}
	return f.err
}

// read runs fn against the transaction's state or the committed state
func (s *Store) read(ctx context.Context, fn func(st *state) error) error {
	if st, ok := ctx.Value(txKey{}).(*state); ok {
		return fn(st)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.committed)
}

// write runs fn against the transaction's state, or directly against the
// committed state when ctx carries no transaction.
func (s *Store) write(ctx context.Context, op string, fn func(st *state) error) error {
	if err := s.fault(op); err != nil {
		return err
	}
	if st, ok := ctx.Value(txKey{}).(*state); ok {
		return fn(st)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.committed)
}

// ExecTx implements repositories.TransactionManager
func (s *Store) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if _, ok := ctx.Value(txKey{}).(*state); ok {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	work := s.committed.clone()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, work)); err != nil {
		return err
	}

	s.mu.Lock()
	s.committed = work
	s.mu.Unlock()
	return nil
}

// Ping always succeeds; it lets the store back the health check
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Repositories bundles the store's repository views
type Repositories struct {
	Tasks       repo.TaskRepository
	Annotations repo.AnnotationRepository
	Attachments repo.AttachmentRepository
	Folders     repo.FolderRepository
	Staff       repo.StaffRepository
	Cases       repo.CaseRepository
}

// Repositories returns repository views over the store
func (s *Store) Repositories() Repositories {
	return Repositories{
		Tasks:       &TaskRepository{store: s},
		Annotations: &AnnotationRepository{store: s},
		Attachments: &AttachmentRepository{store: s},
		Folders:     &FolderRepository{store: s},
		Staff:       &StaffRepository{store: s},
		Cases:       &CaseRepository{store: s},
	}
}
