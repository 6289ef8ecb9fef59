package appointment

import (
	"context"

	"github.com/petshopcentral/petshop-api/internal/models"
)

// ListFilter restringe a listagem de agendamentos.
type ListFilter struct {
	AccountCPF string
	Status     string
}

type Repository interface {
	// -------- Pet / Service --------
	GetPet(ctx context.Context, id uint) (*models.Pet, error)

	GetService(ctx context.Context, id uint) (*models.Service, error)

	// -------- Appointment --------

	// CreateAppointment confere o conflito de horário e insere numa única
	// transação; devolve BusinessError "slot_taken" quando o horário do
	// serviço já está ocupado por um agendamento não-terminal.
	CreateAppointment(ctx context.Context, ap *models.Appointment) error

	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)

	UpdateAppointment(ctx context.Context, ap *models.Appointment) error

	ListAppointments(ctx context.Context, filter ListFilter) ([]models.Appointment, error)

	// LoadAppointment recarrega com pet/serviço/conta para montar a resposta.
	LoadAppointment(ctx context.Context, id uint) (*models.Appointment, error)
}
