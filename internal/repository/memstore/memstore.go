// Package memstore keeps chalets, tenants and reservations in process memory.
// It backs the "memory" storage driver and the service tests; it offers the
// same contracts as the Postgres repositories.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/galihcitta/chalet-reservation-system/internal/models"
)

// Store owns the three tables and their id sequences. Reservation writes need
// an existing tenant and chalet, and a referenced chalet or tenant cannot be
// deleted, mirroring the foreign keys of the SQL schema.
type Store struct {
	mu           sync.RWMutex
	chalets      map[int64]models.Chalet
	tenants      map[int64]models.Tenant
	reservations map[int64]models.Reservation
	nextChalet   int64
	nextTenant   int64
	nextReserve  int64
}

func New() *Store {
	return &Store{
		chalets:      make(map[int64]models.Chalet),
		tenants:      make(map[int64]models.Tenant),
		reservations: make(map[int64]models.Reservation),
	}
}

func (s *Store) Chalets() *ChaletRepository { return &ChaletRepository{s: s} }

func (s *Store) Tenants() *TenantRepository { return &TenantRepository{s: s} }

func (s *Store) Reservations() *ReservationRepository { return &ReservationRepository{s: s} }

func sortedValues[T any](m map[int64]T) []T {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}

type ChaletRepository struct {
	s *Store
}

func (r *ChaletRepository) Create(ctx context.Context, chalet models.Chalet) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.chalets {
		if c.Name == chalet.Name {
			return 0, fmt.Errorf("chalet %q: %w", chalet.Name, models.ErrAlreadyExists)
		}
	}
	r.s.nextChalet++
	chalet.ID = r.s.nextChalet
	r.s.chalets[chalet.ID] = chalet
	return chalet.ID, nil
}

func (r *ChaletRepository) GetByID(ctx context.Context, id int64) (*models.Chalet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.chalets[id]
	if !ok {
		return nil, fmt.Errorf("chalet %d: %w", id, models.ErrNotFound)
	}
	return &c, nil
}

func (r *ChaletRepository) GetByName(ctx context.Context, name string) (*models.Chalet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.chalets {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("chalet %q: %w", name, models.ErrNotFound)
}

func (r *ChaletRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.chalets[id]
	return ok, nil
}

func (r *ChaletRepository) GetAll(ctx context.Context) ([]models.Chalet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return sortedValues(r.s.chalets), nil
}

func (r *ChaletRepository) Update(ctx context.Context, chalet models.Chalet) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.chalets[chalet.ID]; !ok {
		return false, nil
	}
	for id, c := range r.s.chalets {
		if id != chalet.ID && c.Name == chalet.Name {
			return false, fmt.Errorf("chalet %q: %w", chalet.Name, models.ErrAlreadyExists)
		}
	}
	r.s.chalets[chalet.ID] = chalet
	return true, nil
}

func (r *ChaletRepository) Delete(ctx context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.chalets[id]; !ok {
		return false, nil
	}
	for _, res := range r.s.reservations {
		if res.ChaletID == id {
			return false, fmt.Errorf("chalet %d: %w", id, models.ErrInUse)
		}
	}
	delete(r.s.chalets, id)
	return true, nil
}

type TenantRepository struct {
	s *Store
}

func (r *TenantRepository) Create(ctx context.Context, tenant models.Tenant) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextTenant++
	tenant.ID = r.s.nextTenant
	r.s.tenants[tenant.ID] = tenant
	return tenant.ID, nil
}

func (r *TenantRepository) GetByID(ctx context.Context, id int64) (*models.Tenant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tenants[id]
	if !ok {
		return nil, fmt.Errorf("tenant %d: %w", id, models.ErrNotFound)
	}
	return &t, nil
}

func (r *TenantRepository) GetByName(ctx context.Context, name string) (*models.Tenant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, t := range sortedValues(r.s.tenants) {
		if t.Name == name {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("tenant %q: %w", name, models.ErrNotFound)
}

func (r *TenantRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.tenants[id]
	return ok, nil
}

func (r *TenantRepository) GetAll(ctx context.Context) ([]models.Tenant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return sortedValues(r.s.tenants), nil
}

func (r *TenantRepository) Update(ctx context.Context, tenant models.Tenant) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tenants[tenant.ID]; !ok {
		return false, nil
	}
	r.s.tenants[tenant.ID] = tenant
	return true, nil
}

func (r *TenantRepository) Delete(ctx context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tenants[id]; !ok {
		return false, nil
	}
	for _, res := range r.s.reservations {
		if res.TenantID == id {
			return false, fmt.Errorf("tenant %d: %w", id, models.ErrInUse)
		}
	}
	delete(r.s.tenants, id)
	return true, nil
}

// ReservationRepository stores reservations without any overlap check of its
// own; admission is responsible for the no-overlap invariant.
type ReservationRepository struct {
	s *Store
}

// checkRefs must be called with the store lock held.
func (s *Store) checkRefs(reservation models.Reservation) error {
	if _, ok := s.tenants[reservation.TenantID]; !ok {
		return &models.ReferenceError{Entity: "tenant", ID: reservation.TenantID}
	}
	if _, ok := s.chalets[reservation.ChaletID]; !ok {
		return &models.ReferenceError{Entity: "chalet", ID: reservation.ChaletID}
	}
	return nil
}

func (r *ReservationRepository) Insert(ctx context.Context, reservation models.Reservation) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.checkRefs(reservation); err != nil {
		return 0, err
	}
	r.s.nextReserve++
	reservation.ID = r.s.nextReserve
	r.s.reservations[reservation.ID] = reservation
	return reservation.ID, nil
}

func (r *ReservationRepository) UpdateInPlace(ctx context.Context, id int64, reservation models.Reservation) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.reservations[id]; !ok {
		return false, nil
	}
	if err := r.s.checkRefs(reservation); err != nil {
		return false, err
	}
	reservation.ID = id
	r.s.reservations[id] = reservation
	return true, nil
}

func (r *ReservationRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.reservations[id]; !ok {
		return false, nil
	}
	delete(r.s.reservations, id)
	return true, nil
}

func (r *ReservationRepository) ListByChaletID(ctx context.Context, chaletID int64) ([]models.Reservation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []models.Reservation{}
	for _, res := range sortedValues(r.s.reservations) {
		if res.ChaletID == chaletID {
			out = append(out, res)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (r *ReservationRepository) FindAll(ctx context.Context) ([]models.Reservation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return sortedValues(r.s.reservations), nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id int64) (*models.Reservation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	res, ok := r.s.reservations[id]
	if !ok {
		return nil, fmt.Errorf("reservation %d: %w", id, models.ErrNotFound)
	}
	return &res, nil
}
