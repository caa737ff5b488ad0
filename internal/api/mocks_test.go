package api

import (
	"context"
	"fmt"
	"sync"

	"github.com/galihcitta/chalet-reservation-system/internal/models"
	"github.com/galihcitta/chalet-reservation-system/internal/validation"
)

type MockChaletService struct {
	chalets map[int64]*models.Chalet
	nextID  int64
	calls   map[string]int
	errors  map[string]error
	mutex   sync.RWMutex
}

func NewMockChaletService() *MockChaletService {
	return &MockChaletService{
		chalets: make(map[int64]*models.Chalet),
		calls:   make(map[string]int),
		errors:  make(map[string]error),
	}
}

func (m *MockChaletService) SetError(method string, err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.errors[method] = err
}

func (m *MockChaletService) GetCallCount(method string) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.calls[method]
}

func (m *MockChaletService) AddChalet(chalet models.Chalet) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.chalets[chalet.ID] = &chalet
	if chalet.ID > m.nextID {
		m.nextID = chalet.ID
	}
}

func (m *MockChaletService) record(method string) error {
	m.calls[method]++
	return m.errors[method]
}

func (m *MockChaletService) CreateChalet(ctx context.Context, in models.ChaletInput) (*models.Chalet, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.record("CreateChalet"); err != nil {
		return nil, err
	}

	chalet, err := validation.BuildChalet(0, in)
	if err != nil {
		return nil, err
	}
	m.nextID++
	chalet.ID = m.nextID
	m.chalets[chalet.ID] = &chalet
	return &chalet, nil
}

func (m *MockChaletService) GetChalet(ctx context.Context, rawID any) (*models.Chalet, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.record("GetChalet"); err != nil {
		return nil, err
	}

	id, err := validation.PositiveID("id", rawID)
	if err != nil {
		return nil, err
	}
	chalet, ok := m.chalets[id]
	if !ok {
		return nil, fmt.Errorf("chalet %d: %w", id, models.ErrNotFound)
	}
	return chalet, nil
}

func (m *MockChaletService) GetAllChalets(ctx context.Context) ([]models.Chalet, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.record("GetAllChalets"); err != nil {
		return nil, err
	}

	out := make([]models.Chalet, 0, len(m.chalets))
	for id := int64(1); id <= m.nextID; id++ {
		if c, ok := m.chalets[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *MockChaletService) UpdateChalet(ctx context.Context, rawID any, in models.ChaletInput) (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.record("UpdateChalet"); err != nil {
		return false, err
	}

	id, err := validation.PositiveID("id", rawID)
	if err != nil {
		return false, err
	}
	chalet, err := validation.BuildChalet(id, in)
	if err != nil {
		return false, err
	}
	if _, ok := m.chalets[id]; !ok {
		return false, nil
	}
	m.chalets[id] = &chalet
	return true, nil
}

func (m *MockChaletService) DeleteChalet(ctx context.Context, rawID any) (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.record("DeleteChalet"); err != nil {
		return false, err
	}

	id, err := validation.PositiveID("id", rawID)
	if err != nil {
		return false, err
	}
	if _, ok := m.chalets[id]; !ok {
		return false, nil
	}
	delete(m.chalets, id)
	return true, nil
}

// MockReservationService answers with canned results; it does not run the
// admission rules.
type MockReservationService struct {
	reservations map[int64]models.Reservation
	inputs       []models.ReservationInput
	nextID       int64
	calls        map[string]int
	errors       map[string]error
	mutex        sync.RWMutex
}

func NewMockReservationService() *MockReservationService {
	return &MockReservationService{
		reservations: make(map[int64]models.Reservation),
		calls:        make(map[string]int),
		errors:       make(map[string]error),
	}
}

func (m *MockReservationService) SetError(method string, err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.errors[method] = err
}

func (m *MockReservationService) GetCallCount(method string) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.calls[method]
}

func (m *MockReservationService) AddReservation(r models.Reservation) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.reservations[r.ID] = r
	if r.ID > m.nextID {
		m.nextID = r.ID
	}
}

func (m *MockReservationService) record(method string) error {
	m.calls[method]++
	return m.errors[method]
}

func (m *MockReservationService) CreateReservation(ctx context.Context, in models.ReservationInput) (int64, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.record("CreateReservation"); err != nil {
		return 0, err
	}
	m.inputs = append(m.inputs, in)
	m.nextID++
	return m.nextID, nil
}

func (m *MockReservationService) UpdateReservation(ctx context.Context, rawID any, in models.ReservationInput) (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.record("UpdateReservation"); err != nil {
		return false, err
	}
	id, err := validation.PositiveID("id", rawID)
	if err != nil {
		return false, err
	}
	m.inputs = append(m.inputs, in)
	_, ok := m.reservations[id]
	return ok, nil
}

func (m *MockReservationService) DeleteReservation(ctx context.Context, rawID any) (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.record("DeleteReservation"); err != nil {
		return false, err
	}
	id, err := validation.PositiveID("id", rawID)
	if err != nil {
		return false, err
	}
	if _, ok := m.reservations[id]; !ok {
		return false, nil
	}
	delete(m.reservations, id)
	return true, nil
}

func (m *MockReservationService) FindAll(ctx context.Context) ([]models.Reservation, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.record("FindAll"); err != nil {
		return nil, err
	}
	out := make([]models.Reservation, 0, len(m.reservations))
	for id := int64(1); id <= m.nextID; id++ {
		if r, ok := m.reservations[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockReservationService) FindByID(ctx context.Context, rawID any) (*models.Reservation, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.record("FindByID"); err != nil {
		return nil, err
	}
	id, err := validation.PositiveID("id", rawID)
	if err != nil {
		return nil, err
	}
	r, ok := m.reservations[id]
	if !ok {
		return nil, fmt.Errorf("reservation %d: %w", id, models.ErrNotFound)
	}
	return &r, nil
}

func (m *MockReservationService) ListByChalet(ctx context.Context, rawChaletID any) ([]models.Reservation, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.record("ListByChalet"); err != nil {
		return nil, err
	}
	chaletID, err := validation.PositiveID("chaletId", rawChaletID)
	if err != nil {
		return nil, err
	}
	var out []models.Reservation
	for id := int64(1); id <= m.nextID; id++ {
		if r, ok := m.reservations[id]; ok && r.ChaletID == chaletID {
			out = append(out, r)
		}
	}
	return out, nil
}

type MockIntakeService struct {
	forms       []models.PublicReservationRequest
	submitErr   error
	precheckErr error
	mutex       sync.Mutex
}

func (m *MockIntakeService) Submit(ctx context.Context, channel string, req models.PublicReservationRequest) (*models.PublicReservationResult, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.forms = append(m.forms, req)
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	return &models.PublicReservationResult{ReservationID: int64(len(m.forms)), Status: "pending"}, nil
}

func (m *MockIntakeService) Precheck(req models.PublicReservationRequest) error {
	return m.precheckErr
}

type MockPublisher struct {
	published map[string][][]byte
	err       error
	mutex     sync.Mutex
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{published: make(map[string][][]byte)}
}

func (m *MockPublisher) PublishMessage(ctx context.Context, queueName string, body []byte) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.published[queueName] = append(m.published[queueName], body)
	return fmt.Sprintf("msg-%d", len(m.published[queueName])), nil
}

type MockTenantService struct {
	tenants map[int64]*models.Tenant
	nextID  int64
	calls   map[string]int
	errors  map[string]error
	mutex   sync.RWMutex
}

func NewMockTenantService() *MockTenantService {
	return &MockTenantService{
		tenants: make(map[int64]*models.Tenant),
		calls:   make(map[string]int),
		errors:  make(map[string]error),
	}
}

func (m *MockTenantService) SetError(method string, err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.errors[method] = err
}

func (m *MockTenantService) record(method string) error {
	m.calls[method]++
	return m.errors[method]
}

func (m *MockTenantService) CreateTenant(ctx context.Context, in models.TenantInput) (*models.Tenant, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.record("CreateTenant"); err != nil {
		return nil, err
	}

	tenant, err := validation.BuildTenant(0, in)
	if err != nil {
		return nil, err
	}
	m.nextID++
	tenant.ID = m.nextID
	m.tenants[tenant.ID] = &tenant
	return &tenant, nil
}

func (m *MockTenantService) GetTenant(ctx context.Context, rawID any) (*models.Tenant, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.record("GetTenant"); err != nil {
		return nil, err
	}

	id, err := validation.PositiveID("id", rawID)
	if err != nil {
		return nil, err
	}
	tenant, ok := m.tenants[id]
	if !ok {
		return nil, fmt.Errorf("tenant %d: %w", id, models.ErrNotFound)
	}
	return tenant, nil
}

func (m *MockTenantService) GetAllTenants(ctx context.Context) ([]models.Tenant, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.record("GetAllTenants"); err != nil {
		return nil, err
	}

	out := make([]models.Tenant, 0, len(m.tenants))
	for id := int64(1); id <= m.nextID; id++ {
		if t, ok := m.tenants[id]; ok {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *MockTenantService) UpdateTenant(ctx context.Context, rawID any, in models.TenantInput) (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.record("UpdateTenant"); err != nil {
		return false, err
	}

	id, err := validation.PositiveID("id", rawID)
	if err != nil {
		return false, err
	}
	if _, ok := m.tenants[id]; !ok {
		return false, nil
	}
	tenant, err := validation.BuildTenant(id, in)
	if err != nil {
		return false, err
	}
	m.tenants[id] = &tenant
	return true, nil
}

func (m *MockTenantService) DeleteTenant(ctx context.Context, rawID any) (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.record("DeleteTenant"); err != nil {
		return false, err
	}

	id, err := validation.PositiveID("id", rawID)
	if err != nil {
		return false, err
	}
	if _, ok := m.tenants[id]; !ok {
		return false, nil
	}
	delete(m.tenants, id)
	return true, nil
}
