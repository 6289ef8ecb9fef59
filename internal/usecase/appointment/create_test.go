package appointment

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/petshopcentral/petshop-api/internal/audit"
	domain "github.com/petshopcentral/petshop-api/internal/domain/appointment"
	"github.com/petshopcentral/petshop-api/internal/httperr"
	"github.com/petshopcentral/petshop-api/internal/models"
)

// fakeRepo guarda tudo em memória e simula a checagem de conflito de horário
// que o repositório real faz dentro da transação.
type fakeRepo struct {
	pets         map[uint]*models.Pet
	services     map[uint]*models.Service
	appointments map[uint]*models.Appointment
	nextID       uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		pets:         map[uint]*models.Pet{},
		services:     map[uint]*models.Service{},
		appointments: map[uint]*models.Appointment{},
		nextID:       1,
	}
}

var _ domain.Repository = (*fakeRepo)(nil)

func (r *fakeRepo) GetPet(_ context.Context, id uint) (*models.Pet, error) {
	p, ok := r.pets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *fakeRepo) GetService(_ context.Context, id uint) (*models.Service, error) {
	s, ok := r.services[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *fakeRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	for _, existing := range r.appointments {
		if existing.ServiceID != ap.ServiceID || !existing.ScheduledAt.Equal(ap.ScheduledAt) {
			continue
		}
		for _, st := range domain.ActiveStatuses() {
			if existing.Status == st {
				return httperr.ErrBusiness("slot_taken", "Já existe um agendamento para este horário.")
			}
		}
	}

	ap.ID = r.nextID
	r.nextID++
	r.appointments[ap.ID] = ap
	return nil
}

func (r *fakeRepo) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	ap, ok := r.appointments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return ap, nil
}

func (r *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	r.appointments[ap.ID] = ap
	return nil
}

func (r *fakeRepo) ListAppointments(_ context.Context, filter domain.ListFilter) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if filter.AccountCPF != "" && ap.AccountCPF != filter.AccountCPF {
			continue
		}
		if filter.Status != "" && ap.Status != filter.Status {
			continue
		}
		out = append(out, *ap)
	}
	return out, nil
}

func (r *fakeRepo) LoadAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	return r.GetAppointment(context.Background(), id)
}

// cache compartilhado: o worker do dispatcher escreve por outra conexão do
// pool e precisa ver a tabela migrada.
func testDispatcher(t *testing.T) *audit.Dispatcher {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.AuditLog{}))

	return audit.NewDispatcher(audit.New(db))
}

func seededRepo() *fakeRepo {
	repo := newFakeRepo()
	repo.pets[1] = &models.Pet{ID: 1, Name: "Rex", Type: "Cachorro", AccountCPF: "12345678901"}
	repo.services[1] = &models.Service{ID: 1, Name: "Banho e tosa", Price: 80, Category: "Estetica", Active: true}
	repo.services[2] = &models.Service{ID: 2, Name: "Consulta antiga", Price: 120, Category: "Veterinario", Active: false}
	return repo
}

func TestCreateAppointment(t *testing.T) {
	repo := seededRepo()
	uc := NewCreateAppointment(repo, testDispatcher(t))

	when := time.Date(2026, 10, 1, 14, 0, 0, 0, time.UTC)

	ap, err := uc.Execute(context.Background(), CreateAppointmentInput{
		PetID:       1,
		ServiceID:   1,
		AccountCPF:  "12345678901",
		ScheduledAt: when,
		Notes:       "Primeira vez",
	})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusScheduled), ap.Status)
	assert.Equal(t, when, ap.ScheduledAt)
	assert.Equal(t, "12345678901", ap.AccountCPF)
}

func TestCreateAppointmentPetNotFound(t *testing.T) {
	uc := NewCreateAppointment(seededRepo(), testDispatcher(t))

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		PetID:       99,
		ServiceID:   1,
		AccountCPF:  "12345678901",
		ScheduledAt: time.Now().Add(time.Hour),
	})

	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "pet_not_found"))
}

func TestCreateAppointmentPetNotOwned(t *testing.T) {
	uc := NewCreateAppointment(seededRepo(), testDispatcher(t))

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		PetID:       1,
		ServiceID:   1,
		AccountCPF:  "99999999999",
		ScheduledAt: time.Now().Add(time.Hour),
	})

	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "pet_not_owned"))
}

func TestCreateAppointmentServiceInactive(t *testing.T) {
	uc := NewCreateAppointment(seededRepo(), testDispatcher(t))

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		PetID:       1,
		ServiceID:   2,
		AccountCPF:  "12345678901",
		ScheduledAt: time.Now().Add(time.Hour),
	})

	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "service_inactive"))
}

func TestCreateAppointmentSlotTaken(t *testing.T) {
	repo := seededRepo()
	uc := NewCreateAppointment(repo, testDispatcher(t))

	when := time.Date(2026, 10, 1, 14, 0, 0, 0, time.UTC)
	in := CreateAppointmentInput{
		PetID:       1,
		ServiceID:   1,
		AccountCPF:  "12345678901",
		ScheduledAt: when,
	}

	_, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), in)
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "slot_taken"))
}

func TestCreateAppointmentCancelledSlotIsFree(t *testing.T) {
	repo := seededRepo()
	createUC := NewCreateAppointment(repo, testDispatcher(t))
	statusUC := NewUpdateAppointmentStatus(repo, testDispatcher(t))

	when := time.Date(2026, 10, 1, 14, 0, 0, 0, time.UTC)
	in := CreateAppointmentInput{
		PetID:       1,
		ServiceID:   1,
		AccountCPF:  "12345678901",
		ScheduledAt: when,
	}

	first, err := createUC.Execute(context.Background(), in)
	require.NoError(t, err)

	_, err = statusUC.Execute(context.Background(), "usuario", "12345678901",
		first.ID, string(domain.StatusCancelled))
	require.NoError(t, err)

	_, err = createUC.Execute(context.Background(), in)
	assert.NoError(t, err)
}

func TestUpdateAppointmentStatusInvalidTransition(t *testing.T) {
	repo := seededRepo()
	createUC := NewCreateAppointment(repo, testDispatcher(t))
	statusUC := NewUpdateAppointmentStatus(repo, testDispatcher(t))

	ap, err := createUC.Execute(context.Background(), CreateAppointmentInput{
		PetID:       1,
		ServiceID:   1,
		AccountCPF:  "12345678901",
		ScheduledAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	_, err = statusUC.Execute(context.Background(), "funcionario", "func01",
		ap.ID, string(domain.StatusCompleted))

	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "invalid_status_transition"))
}
