package chalet

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/galihcitta/chalet-reservation-system/internal/models"
)

// Mock implementations for testing
type MockChaletRepository struct {
	chalets map[int64]models.Chalet
	nextID  int64
	calls   map[string]int
	errors  map[string]error
	mutex   sync.RWMutex
}

func NewMockChaletRepository() *MockChaletRepository {
	return &MockChaletRepository{
		chalets: make(map[int64]models.Chalet),
		calls:   make(map[string]int),
		errors:  make(map[string]error),
	}
}

func (m *MockChaletRepository) SetError(method string, err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.errors[method] = err
}

func (m *MockChaletRepository) GetCallCount(method string) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.calls[method]
}

func (m *MockChaletRepository) Create(ctx context.Context, chalet models.Chalet) (int64, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.calls["Create"]++

	if err := m.errors["Create"]; err != nil {
		return 0, err
	}

	m.nextID++
	chalet.ID = m.nextID
	m.chalets[chalet.ID] = chalet
	return chalet.ID, nil
}

func (m *MockChaletRepository) GetByID(ctx context.Context, id int64) (*models.Chalet, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.calls["GetByID"]++

	if err := m.errors["GetByID"]; err != nil {
		return nil, err
	}

	chalet, exists := m.chalets[id]
	if !exists {
		return nil, fmt.Errorf("chalet %d: %w", id, models.ErrNotFound)
	}
	return &chalet, nil
}

func (m *MockChaletRepository) GetByName(ctx context.Context, name string) (*models.Chalet, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.calls["GetByName"]++

	if err := m.errors["GetByName"]; err != nil {
		return nil, err
	}

	for _, chalet := range m.chalets {
		if chalet.Name == name {
			return &chalet, nil
		}
	}
	return nil, fmt.Errorf("chalet %q: %w", name, models.ErrNotFound)
}

func (m *MockChaletRepository) GetAll(ctx context.Context) ([]models.Chalet, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.calls["GetAll"]++

	if err := m.errors["GetAll"]; err != nil {
		return nil, err
	}

	var chalets []models.Chalet
	for _, chalet := range m.chalets {
		chalets = append(chalets, chalet)
	}
	return chalets, nil
}

func (m *MockChaletRepository) Update(ctx context.Context, chalet models.Chalet) (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.calls["Update"]++

	if err := m.errors["Update"]; err != nil {
		return false, err
	}

	if _, exists := m.chalets[chalet.ID]; !exists {
		return false, nil
	}
	m.chalets[chalet.ID] = chalet
	return true, nil
}

func (m *MockChaletRepository) Delete(ctx context.Context, id int64) (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.calls["Delete"]++

	if err := m.errors["Delete"]; err != nil {
		return false, err
	}

	if _, exists := m.chalets[id]; !exists {
		return false, nil
	}
	delete(m.chalets, id)
	return true, nil
}

type ChaletManagerTestSuite struct {
	suite.Suite
	repo    *MockChaletRepository
	manager *Manager
	ctx     context.Context
}

func (s *ChaletManagerTestSuite) SetupTest() {
	s.repo = NewMockChaletRepository()
	s.manager = NewManager(s.repo, zap.NewNop())
	s.ctx = context.Background()
}

func (s *ChaletManagerTestSuite) TestCreateChalet() {
	chalet, err := s.manager.CreateChalet(s.ctx, models.ChaletInput{Name: "  Chalé Romântico ", Capacity: float64(2)})
	s.Require().NoError(err)
	s.Equal(int64(1), chalet.ID)
	s.Equal("Chalé Romântico", chalet.Name)
	s.Equal(2, chalet.Capacity)
}

func (s *ChaletManagerTestSuite) TestCreateChaletValidation() {
	_, err := s.manager.CreateChalet(s.ctx, models.ChaletInput{Name: "AB", Capacity: "zero"})

	var ve *models.ValidationError
	s.Require().ErrorAs(err, &ve)
	s.Len(ve.Problems, 2)
	s.Zero(s.repo.GetCallCount("Create"))
}

func (s *ChaletManagerTestSuite) TestCreateChaletDuplicateName() {
	_, err := s.manager.CreateChalet(s.ctx, models.ChaletInput{Name: "Chalé Família", Capacity: 6})
	s.Require().NoError(err)

	_, err = s.manager.CreateChalet(s.ctx, models.ChaletInput{Name: "Chalé Família", Capacity: 4})
	s.ErrorIs(err, models.ErrAlreadyExists)
}

func (s *ChaletManagerTestSuite) TestUpdateChalet() {
	_, err := s.manager.CreateChalet(s.ctx, models.ChaletInput{Name: "Chalé Família", Capacity: 6})
	s.Require().NoError(err)

	updated, err := s.manager.UpdateChalet(s.ctx, "1", models.ChaletInput{Name: "Chalé Família", Capacity: 8})
	s.Require().NoError(err)
	s.True(updated)

	got, err := s.manager.GetChalet(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(8, got.Capacity)

	updated, err = s.manager.UpdateChalet(s.ctx, 5, models.ChaletInput{Name: "Chalé Novo", Capacity: 2})
	s.NoError(err)
	s.False(updated)

	_, err = s.manager.UpdateChalet(s.ctx, 0, models.ChaletInput{Name: "Chalé Novo", Capacity: 2})
	s.ErrorIs(err, models.ErrInvalidArgument)
}

func (s *ChaletManagerTestSuite) TestDeleteChalet() {
	_, err := s.manager.CreateChalet(s.ctx, models.ChaletInput{Name: "Chalé Premium", Capacity: 4})
	s.Require().NoError(err)

	s.repo.SetError("Delete", fmt.Errorf("chalet 1: %w", models.ErrInUse))
	_, err = s.manager.DeleteChalet(s.ctx, 1)
	s.ErrorIs(err, models.ErrInUse)

	s.repo.SetError("Delete", nil)
	deleted, err := s.manager.DeleteChalet(s.ctx, 1)
	s.NoError(err)
	s.True(deleted)

	all, err := s.manager.GetAllChalets(s.ctx)
	s.NoError(err)
	s.Empty(all)
}

func (s *ChaletManagerTestSuite) TestRepositoryErrorsPropagate() {
	s.repo.SetError("GetAll", errors.New("connection refused"))
	_, err := s.manager.GetAllChalets(s.ctx)
	s.ErrorContains(err, "connection refused")
}

func TestChaletManagerTestSuite(t *testing.T) {
	suite.Run(t, new(ChaletManagerTestSuite))
}
