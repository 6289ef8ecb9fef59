package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/petshopcentral/petshop-api/internal/domain/appointment"
	"github.com/petshopcentral/petshop-api/internal/httperr"
	"github.com/petshopcentral/petshop-api/internal/httpresp"
	"github.com/petshopcentral/petshop-api/internal/middleware"
	usecase "github.com/petshopcentral/petshop-api/internal/usecase/appointment"
	"github.com/petshopcentral/petshop-api/internal/validation"
)

type AppointmentHandler struct {
	db           *gorm.DB
	create       *usecase.CreateAppointment
	updateStatus *usecase.UpdateAppointmentStatus
	list         *usecase.ListAppointments
}

func NewAppointmentHandler(
	db *gorm.DB,
	create *usecase.CreateAppointment,
	updateStatus *usecase.UpdateAppointmentStatus,
	list *usecase.ListAppointments,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:           db,
		create:       create,
		updateStatus: updateStatus,
		list:         list,
	}
}

// --------- Requests ---------

type CreateAppointmentRequest struct {
	PetID       uint      `json:"idPet" binding:"required"`
	ServiceID   uint      `json:"idServico" binding:"required"`
	ScheduledAt time.Time `json:"dataHora" binding:"required"`
	Notes       string    `json:"observacoes"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// --------- Handlers ---------

func (h *AppointmentHandler) Create(c *gin.Context) {
	cpf, kind := subjectFrom(c)
	if kind != middleware.KindAccount {
		httperr.Forbidden(c, "access_denied", "Apenas usuários criam agendamentos.")
		return
	}

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.ValidationFailed(c, validation.FieldErrors(err))
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), usecase.CreateAppointmentInput{
		PetID:       req.PetID,
		ServiceID:   req.ServiceID,
		AccountCPF:  cpf,
		ScheduledAt: req.ScheduledAt,
		Notes:       req.Notes,
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// List devolve os agendamentos do próprio usuário; funcionários veem todos
// e podem filtrar por usuário e por status.
func (h *AppointmentHandler) List(c *gin.Context) {
	subjectID, kind := subjectFrom(c)

	filter := domain.ListFilter{}
	switch kind {
	case middleware.KindAccount:
		filter.AccountCPF = subjectID
	case middleware.KindStaff:
		if staff := requireStaff(c, h.db); staff == nil {
			return
		}
		filter.AccountCPF = c.Query("usuario")
	default:
		httperr.Forbidden(c, "access_denied", "Acesso negado.")
		return
	}

	if status := c.Query("status"); status != "" {
		if !domain.IsValid(domain.Status(status)) {
			httperr.BadRequest(c, "invalid_status", "Status de agendamento inválido.")
			return
		}
		filter.Status = status
	}

	aps, err := h.list.Execute(c.Request.Context(), filter)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.List(c, aps)
}

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	subjectID, kind := subjectFrom(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador de agendamento inválido.")
		return
	}

	var req UpdateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.ValidationFailed(c, validation.FieldErrors(err))
		return
	}

	// Usuário só pode cancelar o próprio agendamento; funcionário faz
	// qualquer transição válida.
	if kind == middleware.KindAccount {
		if domain.Status(req.Status) != domain.StatusCancelled {
			httperr.Forbidden(c, "access_denied", "Usuários só podem cancelar agendamentos.")
			return
		}

		ap, err := h.list.Execute(c.Request.Context(), domain.ListFilter{AccountCPF: subjectID})
		if err != nil {
			httperr.Handle(c, err)
			return
		}
		owned := false
		for i := range ap {
			if ap[i].ID == uint(id) {
				owned = true
				break
			}
		}
		if !owned {
			httperr.NotFound(c, "appointment_not_found", "Agendamento não encontrado.")
			return
		}
	} else {
		if staff := requireStaff(c, h.db); staff == nil {
			return
		}
	}

	ap, err := h.updateStatus.Execute(c.Request.Context(), kind, subjectID, uint(id), req.Status)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.OK(c, ap)
}
