package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/petshopcentral/petshop-api/internal/audit"
	"github.com/petshopcentral/petshop-api/internal/domain/appointment"
	"github.com/petshopcentral/petshop-api/internal/httperr"
	"github.com/petshopcentral/petshop-api/internal/httpresp"
	"github.com/petshopcentral/petshop-api/internal/middleware"
	"github.com/petshopcentral/petshop-api/internal/models"
	"github.com/petshopcentral/petshop-api/internal/validation"
)

type ServiceHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewServiceHandler(db *gorm.DB, auditDispatcher *audit.Dispatcher) *ServiceHandler {
	return &ServiceHandler{db: db, audit: auditDispatcher}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name        string  `json:"nome" binding:"required,min=2"`
	Description string  `json:"descricao"`
	Price       float64 `json:"preco" binding:"required,gt=0"`
	Duration    string  `json:"duracao"`
	Category    string  `json:"categoria" binding:"required"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"nome,omitempty" binding:"omitempty,min=2"`
	Description *string  `json:"descricao,omitempty"`
	Price       *float64 `json:"preco,omitempty" binding:"omitempty,gt=0"`
	Duration    *string  `json:"duracao,omitempty"`
	Category    *string  `json:"categoria,omitempty"`
	Active      *bool    `json:"ativo,omitempty"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	query := h.db.Order("id DESC")
	if c.Query("ativo") == "1" {
		query = query.Where("active = ?", true)
	}

	var services []models.Service
	if err := query.Find(&services).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) GetByID(c *gin.Context) {
	id := c.Param("id")

	var service models.Service
	if err := h.db.First(&service, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "service_not_found", "Serviço não encontrado.")
			return
		}
		httperr.Handle(c, err)
		return
	}

	httpresp.OK(c, service)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	staff := requireStaff(c, h.db)
	if staff == nil {
		return
	}

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.ValidationFailed(c, validation.FieldErrors(err))
		return
	}

	if !models.IsValidServiceCategory(req.Category) {
		httperr.BadRequest(c, "invalid_service_category", "Categoria de serviço inválida.")
		return
	}

	service := models.Service{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Duration:    req.Duration,
		Category:    req.Category,
		Active:      true,
		StaffID:     &staff.ID,
	}

	if err := h.db.Create(&service).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorKind: middleware.KindStaff,
		ActorID:   staff.ID,
		Action:    "service_created",
		Entity:    "service",
		EntityID:  &service.ID,
	})

	httpresp.Created(c, service)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	staff := requireStaff(c, h.db)
	if staff == nil {
		return
	}

	id := c.Param("id")

	var service models.Service
	if err := h.db.First(&service, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "service_not_found", "Serviço não encontrado.")
			return
		}
		httperr.Handle(c, err)
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.ValidationFailed(c, validation.FieldErrors(err))
		return
	}

	if req.Category != nil && !models.IsValidServiceCategory(*req.Category) {
		httperr.BadRequest(c, "invalid_service_category", "Categoria de serviço inválida.")
		return
	}

	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.Price != nil {
		service.Price = *req.Price
	}
	if req.Duration != nil {
		service.Duration = *req.Duration
	}
	if req.Category != nil {
		service.Category = *req.Category
	}
	if req.Active != nil {
		service.Active = *req.Active
	}

	if err := h.db.Save(&service).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorKind: middleware.KindStaff,
		ActorID:   staff.ID,
		Action:    "service_updated",
		Entity:    "service",
		EntityID:  &service.ID,
	})

	httpresp.OK(c, service)
}

// Deactivate desativa o serviço sem apagar o histórico. Recusa enquanto
// houver agendamentos ativos apontando para ele.
func (h *ServiceHandler) Deactivate(c *gin.Context) {
	staff := requireStaff(c, h.db)
	if staff == nil {
		return
	}

	id := c.Param("id")

	var service models.Service
	if err := h.db.First(&service, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "service_not_found", "Serviço não encontrado.")
			return
		}
		httperr.Handle(c, err)
		return
	}

	var activeCount int64
	if err := h.db.Model(&models.Appointment{}).
		Where("service_id = ? AND status IN ?", service.ID, appointment.ActiveStatuses()).
		Count(&activeCount).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	if activeCount > 0 {
		httperr.BadRequest(c, "service_has_active_appointments",
			"Não é possível desativar um serviço com agendamentos ativos.")
		return
	}

	service.Active = false
	if err := h.db.Save(&service).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorKind: middleware.KindStaff,
		ActorID:   staff.ID,
		Action:    "service_deactivated",
		Entity:    "service",
		EntityID:  &service.ID,
	})

	httpresp.OK(c, gin.H{"message": "Serviço desativado com sucesso."})
}
