package appointment

import "github.com/petshopcentral/petshop-api/internal/models"

// Transition aplica a mudança de status respeitando a tabela de transições.
func Transition(ap *models.Appointment, to Status) error {
	if err := CanTransition(Status(ap.Status), to); err != nil {
		return err
	}

	ap.Status = string(to)
	return nil
}
