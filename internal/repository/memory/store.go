// Package memory is an in-process implementation of repository.Store.
//
// Transactions are serializable: WithinTx holds a store-wide lock for the
// whole unit of work, applies it to a private copy of the data and swaps the
// copy in on success. Statements outside a transaction see committed data.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"suit-rental-backend/internal/domain"
	"suit-rental-backend/internal/repository"
)

type state struct {
	users   map[int32]domain.User
	suits   map[int32]domain.Suit
	rentals map[int32]domain.Rental
	days    map[int32][]domain.Day

	nextUserID   int32
	nextSuitID   int32
	nextRentalID int32
}

func newState() *state {
	return &state{
		users:   make(map[int32]domain.User),
		suits:   make(map[int32]domain.Suit),
		rentals: make(map[int32]domain.Rental),
		days:    make(map[int32][]domain.Day),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.suits {
		c.suits[k] = v
	}
	for k, v := range s.rentals {
		c.rentals[k] = v
	}
	for k, v := range s.days {
		c.days[k] = append([]domain.Day(nil), v...)
	}
	c.nextUserID = s.nextUserID
	c.nextSuitID = s.nextSuitID
	c.nextRentalID = s.nextRentalID
	return c
}

// backend runs reads and writes against either committed or in-transaction data.
type backend interface {
	read(fn func(st *state) error) error
	write(fn func(st *state) error) error
	insertDaysFault() error
}

type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	cur  *state

	faultMu   sync.Mutex
	daysFault error
}

func NewStore() *Store {
	return &Store{cur: newState()}
}

// FailInsertDays makes every subsequent InsertDays call return err. Passing
// nil clears the fault.
func (s *Store) FailInsertDays(err error) {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	s.daysFault = err
}

func (s *Store) insertDaysFault() error {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	return s.daysFault
}

func (s *Store) read(fn func(st *state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.cur)
}

// write is an auto-committed statement. It waits for running transactions so
// that their commit cannot overwrite it.
func (s *Store) write(fn func(st *state) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.cur.clone()
	if err := fn(work); err != nil {
		return err
	}
	s.cur = work
	return nil
}

func (s *Store) Repositories() repository.Repositories {
	return repositoriesFor(s)
}

func (s *Store) WithinTx(ctx context.Context, fn func(repos repository.Repositories) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return &domain.StorageError{Op: "begin transaction", Err: err}
	}

	s.mu.RLock()
	tx := &txBackend{store: s, st: s.cur.clone()}
	s.mu.RUnlock()

	if err := fn(repositoriesFor(tx)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return &domain.StorageError{Op: "commit transaction", Err: err}
	}

	s.mu.Lock()
	s.cur = tx.st
	s.mu.Unlock()
	return nil
}

type txBackend struct {
	store *Store
	st    *state
}

func (t *txBackend) read(fn func(st *state) error) error  { return fn(t.st) }
func (t *txBackend) write(fn func(st *state) error) error { return fn(t.st) }
func (t *txBackend) insertDaysFault() error               { return t.store.insertDaysFault() }

func repositoriesFor(b backend) repository.Repositories {
	return repository.Repositories{
		Users:      &userRepository{b: b},
		Suits:      &suitRepository{b: b},
		Rentals:    &rentalRepository{b: b},
		RentalDays: &rentalDayRepository{b: b},
	}
}

func paginate[T any](items []T, page, pageSize int32) []T {
	if pageSize <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := int((page - 1) * pageSize)
	if start >= len(items) {
		return nil
	}
	end := start + int(pageSize)
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

type userRepository struct{ b backend }

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	return r.b.write(func(st *state) error {
		for _, existing := range st.users {
			if strings.EqualFold(existing.Email, u.Email) || existing.Phone == u.Phone {
				return domain.ErrAlreadyExists
			}
		}
		st.nextUserID++
		u.ID = st.nextUserID
		u.CreatedAt = now()
		u.UpdatedAt = u.CreatedAt
		st.users[u.ID] = *u
		return nil
	})
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	var out domain.User
	err := r.b.read(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var out *domain.User
	err := r.b.read(func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				u := u
				out = &u
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r *userRepository) ListByRole(ctx context.Context, role domain.Role, page, pageSize int32) ([]domain.User, int32, error) {
	var all []domain.User
	_ = r.b.read(func(st *state) error {
		for _, u := range st.users {
			if u.Role == role {
				all = append(all, u)
			}
		}
		return nil
	})
	sort.Slice(all, func(i, j int) bool {
		if all[i].LastName != all[j].LastName {
			return all[i].LastName < all[j].LastName
		}
		if all[i].FirstName != all[j].FirstName {
			return all[i].FirstName < all[j].FirstName
		}
		return all[i].ID < all[j].ID
	})
	return paginate(all, page, pageSize), int32(len(all)), nil
}

type suitRepository struct{ b backend }

func (r *suitRepository) Create(ctx context.Context, s *domain.Suit) error {
	return r.b.write(func(st *state) error {
		if _, ok := st.users[s.OwnerID]; !ok {
			return &domain.StorageError{Op: "create suit", Err: errForeignKey("suits.owner_id")}
		}
		st.nextSuitID++
		s.ID = st.nextSuitID
		s.CreatedAt = now()
		s.UpdatedAt = s.CreatedAt
		st.suits[s.ID] = *s
		return nil
	})
}

func (r *suitRepository) GetByID(ctx context.Context, id int32) (*domain.Suit, error) {
	var out domain.Suit
	err := r.b.read(func(st *state) error {
		s, ok := st.suits[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByIDForUpdate needs no row lock: transactions already run one at a time.
func (r *suitRepository) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Suit, error) {
	return r.GetByID(ctx, id)
}

func (r *suitRepository) Update(ctx context.Context, s *domain.Suit) error {
	return r.b.write(func(st *state) error {
		existing, ok := st.suits[s.ID]
		if !ok {
			return domain.ErrNotFound
		}
		s.OwnerID = existing.OwnerID
		s.CreatedAt = existing.CreatedAt
		s.UpdatedAt = now()
		st.suits[s.ID] = *s
		return nil
	})
}

func (r *suitRepository) Delete(ctx context.Context, id int32) error {
	return r.b.write(func(st *state) error {
		if _, ok := st.suits[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.suits, id)
		for rid, rt := range st.rentals {
			if rt.SuitID == id {
				delete(st.rentals, rid)
				delete(st.days, rid)
			}
		}
		return nil
	})
}

func (r *suitRepository) SetStatus(ctx context.Context, id int32, status domain.SuitStatus) error {
	return r.b.write(func(st *state) error {
		s, ok := st.suits[id]
		if !ok {
			return domain.ErrNotFound
		}
		s.Status = status
		s.UpdatedAt = now()
		st.suits[id] = s
		return nil
	})
}

func (r *suitRepository) ListByOwner(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Suit, int32, error) {
	return r.list(func(s domain.Suit) bool { return s.OwnerID == ownerID }, page, pageSize)
}

func (r *suitRepository) ListByStatus(ctx context.Context, status domain.SuitStatus, page, pageSize int32) ([]domain.Suit, int32, error) {
	return r.list(func(s domain.Suit) bool { return s.Status == status }, page, pageSize)
}

func (r *suitRepository) list(match func(domain.Suit) bool, page, pageSize int32) ([]domain.Suit, int32, error) {
	var all []domain.Suit
	_ = r.b.read(func(st *state) error {
		for _, s := range st.suits {
			if match(s) {
				all = append(all, s)
			}
		}
		return nil
	})
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return paginate(all, page, pageSize), int32(len(all)), nil
}
