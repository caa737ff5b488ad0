package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/galihcitta/chalet-reservation-system/internal/models"
)

type MemstoreTestSuite struct {
	suite.Suite
	store *Store
	ctx   context.Context
}

func (s *MemstoreTestSuite) SetupTest() {
	s.store = New()
	s.ctx = context.Background()
}

func (s *MemstoreTestSuite) seed() (tenantID, chaletID int64) {
	chaletID, err := s.store.Chalets().Create(s.ctx, models.Chalet{Name: "Chalé Romântico", Capacity: 2})
	s.Require().NoError(err)
	tenantID, err = s.store.Tenants().Create(s.ctx, models.Tenant{Name: "Maria Silva"})
	s.Require().NoError(err)
	return tenantID, chaletID
}

func (s *MemstoreTestSuite) TestChaletLifecycle() {
	chalets := s.store.Chalets()

	id, err := chalets.Create(s.ctx, models.Chalet{Name: "Chalé Azul", Capacity: 4})
	s.Require().NoError(err)
	s.Equal(int64(1), id)

	_, err = chalets.Create(s.ctx, models.Chalet{Name: "Chalé Azul", Capacity: 2})
	s.ErrorIs(err, models.ErrAlreadyExists)

	got, err := chalets.GetByName(s.ctx, "Chalé Azul")
	s.Require().NoError(err)
	s.Equal(id, got.ID)

	exists, err := chalets.ExistsByID(s.ctx, id)
	s.NoError(err)
	s.True(exists)

	updated, err := chalets.Update(s.ctx, models.Chalet{ID: id, Name: "Chalé Verde", Capacity: 5})
	s.NoError(err)
	s.True(updated)

	updated, err = chalets.Update(s.ctx, models.Chalet{ID: 99, Name: "Chalé Nenhum", Capacity: 1})
	s.NoError(err)
	s.False(updated)

	deleted, err := chalets.Delete(s.ctx, id)
	s.NoError(err)
	s.True(deleted)

	_, err = chalets.GetByID(s.ctx, id)
	s.ErrorIs(err, models.ErrNotFound)

	deleted, err = chalets.Delete(s.ctx, id)
	s.NoError(err)
	s.False(deleted)
}

func (s *MemstoreTestSuite) TestUpdateRejectsNameOfAnotherChalet() {
	chalets := s.store.Chalets()
	first, _ := chalets.Create(s.ctx, models.Chalet{Name: "Chalé Azul", Capacity: 4})
	_, _ = chalets.Create(s.ctx, models.Chalet{Name: "Chalé Verde", Capacity: 4})

	_, err := chalets.Update(s.ctx, models.Chalet{ID: first, Name: "Chalé Verde", Capacity: 4})
	s.ErrorIs(err, models.ErrAlreadyExists)

	_, err = chalets.Update(s.ctx, models.Chalet{ID: first, Name: "Chalé Azul", Capacity: 6})
	s.NoError(err)
}

func (s *MemstoreTestSuite) TestReferencedRowsCannotBeDeleted() {
	tenantID, chaletID := s.seed()
	_, err := s.store.Reservations().Insert(s.ctx, models.Reservation{
		TenantID: tenantID,
		ChaletID: chaletID,
		Start:    models.NewDate(2024, time.December, 1),
		End:      models.NewDate(2024, time.December, 5),
	})
	s.Require().NoError(err)

	_, err = s.store.Chalets().Delete(s.ctx, chaletID)
	s.ErrorIs(err, models.ErrInUse)
	_, err = s.store.Tenants().Delete(s.ctx, tenantID)
	s.ErrorIs(err, models.ErrInUse)
}

func (s *MemstoreTestSuite) TestReservationsOrderedByStart() {
	tenantID, chaletID := s.seed()
	reservations := s.store.Reservations()

	for _, day := range []int{20, 1, 10} {
		_, err := reservations.Insert(s.ctx, models.Reservation{
			TenantID: tenantID,
			ChaletID: chaletID,
			Start:    models.NewDate(2024, time.December, day),
			End:      models.NewDate(2024, time.December, day+2),
		})
		s.Require().NoError(err)
	}
	otherChalet, err := s.store.Chalets().Create(s.ctx, models.Chalet{Name: "Chalé Vizinho", Capacity: 3})
	s.Require().NoError(err)
	_, err = reservations.Insert(s.ctx, models.Reservation{TenantID: tenantID, ChaletID: otherChalet})
	s.Require().NoError(err)

	list, err := reservations.ListByChaletID(s.ctx, chaletID)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Equal(1, list[0].Start.Time().Day())
	s.Equal(10, list[1].Start.Time().Day())
	s.Equal(20, list[2].Start.Time().Day())

	empty, err := reservations.ListByChaletID(s.ctx, 404)
	s.NoError(err)
	s.NotNil(empty)
	s.Empty(empty)

	all, err := reservations.FindAll(s.ctx)
	s.NoError(err)
	s.Len(all, 4)
}

func (s *MemstoreTestSuite) TestReservationUpdateAndDelete() {
	tenantID, chaletID := s.seed()
	reservations := s.store.Reservations()

	id, err := reservations.Insert(s.ctx, models.Reservation{
		TenantID: tenantID,
		ChaletID: chaletID,
		Start:    models.NewDate(2024, time.December, 1),
		End:      models.NewDate(2024, time.December, 5),
	})
	s.Require().NoError(err)

	updated, err := reservations.UpdateInPlace(s.ctx, id, models.Reservation{
		TenantID: tenantID,
		ChaletID: chaletID,
		Start:    models.NewDate(2024, time.December, 2),
		End:      models.NewDate(2024, time.December, 6),
	})
	s.NoError(err)
	s.True(updated)

	got, err := reservations.FindByID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(id, got.ID)
	s.Equal("2024-12-02", got.Start.String())

	updated, err = reservations.UpdateInPlace(s.ctx, id+1, *got)
	s.NoError(err)
	s.False(updated)

	deleted, err := reservations.DeleteByID(s.ctx, id)
	s.NoError(err)
	s.True(deleted)

	_, err = reservations.FindByID(s.ctx, id)
	s.ErrorIs(err, models.ErrNotFound)
}

func (s *MemstoreTestSuite) TestReservationWritesNeedExistingReferences() {
	tenantID, chaletID := s.seed()
	reservations := s.store.Reservations()
	period := func(tenant, chalet int64) models.Reservation {
		return models.Reservation{
			TenantID: tenant,
			ChaletID: chalet,
			Start:    models.NewDate(2024, time.December, 1),
			End:      models.NewDate(2024, time.December, 5),
		}
	}

	_, err := reservations.Insert(s.ctx, period(tenantID, chaletID+1))
	s.ErrorIs(err, models.ErrReferentialIntegrity)
	var ref *models.ReferenceError
	s.Require().ErrorAs(err, &ref)
	s.Equal("chalet", ref.Entity)

	_, err = reservations.Insert(s.ctx, period(tenantID+1, chaletID))
	s.Require().ErrorAs(err, &ref)
	s.Equal("tenant", ref.Entity)

	id, err := reservations.Insert(s.ctx, period(tenantID, chaletID))
	s.Require().NoError(err)
	updated, err := reservations.UpdateInPlace(s.ctx, id, period(tenantID, chaletID+1))
	s.ErrorIs(err, models.ErrReferentialIntegrity)
	s.False(updated)

	got, err := reservations.FindByID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(chaletID, got.ChaletID)

	all, err := reservations.FindAll(s.ctx)
	s.NoError(err)
	s.Len(all, 1)
}

func TestMemstoreTestSuite(t *testing.T) {
	suite.Run(t, new(MemstoreTestSuite))
}
