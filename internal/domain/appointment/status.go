package appointment

import "github.com/petshopcentral/petshop-api/internal/httperr"

type Status string

const (
	StatusScheduled  Status = "Agendado"
	StatusConfirmed  Status = "Confirmado"
	StatusInProgress Status = "EmAndamento"
	StatusCompleted  Status = "Concluido"
	StatusCancelled  Status = "Cancelado"
)

// ActiveStatuses são os status que ocupam o horário do serviço.
func ActiveStatuses() []string {
	return []string{
		string(StatusScheduled),
		string(StatusConfirmed),
		string(StatusInProgress),
	}
}

func IsValid(s Status) bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Transições permitidas. Concluido e Cancelado são terminais.
var transitions = map[Status][]Status{
	StatusScheduled:  {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

func CanTransition(from, to Status) error {
	if !IsValid(to) {
		return httperr.ErrBusiness("invalid_status", "Status inválido.")
	}
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.ErrBusiness("invalid_status_transition", "Transição de status não permitida.")
}

func InitialStatus() Status {
	return StatusScheduled
}
