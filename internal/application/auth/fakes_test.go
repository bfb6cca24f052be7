package auth_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/carwash-api/internal/domain"
	"github.com/jhoicas/carwash-api/internal/domain/account"
	"github.com/jhoicas/carwash-api/internal/domain/entity"
	"github.com/jhoicas/carwash-api/internal/domain/repository"
)

// memStore store en memoria con semántica de transacción: los inserts
// solo se ven después del commit y se descartan si fn falla.
type memStore struct {
	mu         sync.Mutex
	accounts   map[string]*entity.Account
	activeSubs map[int64]int
	nextID     int64

	acquired int
	released int

	createErr error
	findErr   error
	subsErr   error
	subsCalls int
}

func newMemStore() *memStore {
	return &memStore{accounts: map[string]*entity.Account{}, activeSubs: map[int64]int{}}
}

func (s *memStore) WithinTx(ctx context.Context, fn func(accounts repository.AccountRepository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acquired++
	defer func() { s.released++ }()

	tx := &memTx{store: s, pending: map[string]*entity.Account{}}
	if err := fn(tx); err != nil {
		return err
	}
	for k, v := range tx.pending {
		s.accounts[k] = v
	}
	return nil
}

func (s *memStore) WithConn(ctx context.Context, fn func(accounts repository.AccountRepository, subs repository.SubscriptionRepository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acquired++
	defer func() { s.released++ }()

	return fn(&memTx{store: s}, memSubs{store: s})
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.accounts)
}

func (s *memStore) get(username string) *entity.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[username]
}

func (s *memStore) setStatus(username string, st entity.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[username].Status = st
}

func (s *memStore) put(acc entity.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	acc.ID = s.nextID
	s.accounts[acc.Username] = &acc
}

type memTx struct {
	store   *memStore
	pending map[string]*entity.Account
}

func (t *memTx) Create(_ context.Context, reg account.Registration) (int64, error) {
	if t.store.createErr != nil {
		return 0, t.store.createErr
	}
	username := reg.Credentials().Username
	if _, ok := t.store.accounts[username]; ok {
		return 0, domain.ErrUsernameAlreadyExists
	}
	if _, ok := t.pending[username]; ok {
		return 0, domain.ErrUsernameAlreadyExists
	}
	t.store.nextID++
	acc := account.PendingAccount(reg, t.store.nextID)
	t.pending[username] = &acc
	return acc.ID, nil
}

func (t *memTx) FindByUsername(_ context.Context, username string) (*entity.Account, error) {
	if t.store.findErr != nil {
		return nil, t.store.findErr
	}
	acc, ok := t.store.accounts[username]
	if !ok {
		return nil, nil
	}
	cp := *acc
	return &cp, nil
}

type memSubs struct {
	store *memStore
}

func (s memSubs) HasActiveSubscription(_ context.Context, businessID int64) (bool, error) {
	s.store.subsCalls++
	if s.store.subsErr != nil {
		return false, s.store.subsErr
	}
	return s.store.activeSubs[businessID] > 0, nil
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyRegistered(ctx context.Context, acc entity.Account) error {
	args := m.Called(ctx, acc)
	return args.Error(0)
}

// blockingNotifier no responde hasta que se cierre release, ignorando el contexto.
type blockingNotifier struct {
	release chan struct{}
	calls   chan entity.Account
}

func newBlockingNotifier() *blockingNotifier {
	return &blockingNotifier{release: make(chan struct{}), calls: make(chan entity.Account, 1)}
}

func (n *blockingNotifier) NotifyRegistered(_ context.Context, acc entity.Account) error {
	n.calls <- acc
	<-n.release
	return nil
}
