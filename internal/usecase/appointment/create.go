package appointment

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/petshopcentral/petshop-api/internal/audit"
	domain "github.com/petshopcentral/petshop-api/internal/domain/appointment"
	"github.com/petshopcentral/petshop-api/internal/httperr"
	"github.com/petshopcentral/petshop-api/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	PetID      uint
	ServiceID  uint
	AccountCPF string

	ScheduledAt time.Time
	Notes       string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// 1. Pet existe e pertence à conta
	pet, err := uc.repo.GetPet(ctx, in.PetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("pet_not_found", "Pet não encontrado.")
		}
		return nil, err
	}

	if pet.AccountCPF != in.AccountCPF {
		return nil, httperr.ErrForbidden("pet_not_owned", "Pet não pertence ao usuário.")
	}

	// 2. Serviço existe e está ativo
	svc, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("service_not_found", "Serviço não encontrado.")
		}
		return nil, err
	}

	if !svc.Active {
		return nil, httperr.ErrBusiness("service_inactive", "Serviço não está disponível.")
	}

	// 3. Criação; o repositório garante a checagem de conflito e a inserção
	//    na mesma transação
	ap := &models.Appointment{
		ScheduledAt: in.ScheduledAt,
		Notes:       in.Notes,
		PetID:       pet.ID,
		ServiceID:   svc.ID,
		AccountCPF:  in.AccountCPF,
		Status:      string(domain.InitialStatus()),
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorKind: "usuario",
		ActorID:   in.AccountCPF,
		Action:    "appointment_created",
		Entity:    "appointment",
		EntityID:  &ap.ID,
	})

	// 4. Resposta com os resumos de pet/serviço/conta
	return uc.repo.LoadAppointment(ctx, ap.ID)
}
