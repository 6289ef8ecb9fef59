package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/petshopcentral/petshop-api/internal/audit"
	"github.com/petshopcentral/petshop-api/internal/httperr"
	"github.com/petshopcentral/petshop-api/internal/httpresp"
	"github.com/petshopcentral/petshop-api/internal/middleware"
	"github.com/petshopcentral/petshop-api/internal/models"
	"github.com/petshopcentral/petshop-api/internal/validation"
)

type PetHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewPetHandler(db *gorm.DB, auditDispatcher *audit.Dispatcher) *PetHandler {
	return &PetHandler{db: db, audit: auditDispatcher}
}

// --------- Requests ---------

type CreatePetRequest struct {
	Name         string     `json:"nome" binding:"required,min=2"`
	Type         string     `json:"tipo" binding:"required,min=2"`
	Breed        string     `json:"raca"`
	Age          string     `json:"idade"`
	Consultation *time.Time `json:"consulta"`
	Boarding     *time.Time `json:"hotel"`
}

type UpdatePetRequest struct {
	Name         *string    `json:"nome,omitempty" binding:"omitempty,min=2"`
	Type         *string    `json:"tipo,omitempty" binding:"omitempty,min=2"`
	Breed        *string    `json:"raca,omitempty"`
	Age          *string    `json:"idade,omitempty"`
	Consultation *time.Time `json:"consulta,omitempty"`
	Boarding     *time.Time `json:"hotel,omitempty"`
}

type SchedulePetServiceRequest struct {
	PetID       uint      `json:"petId" binding:"required"`
	ServiceKind string    `json:"tipoServico" binding:"required,oneof=consulta hotel"`
	Date        time.Time `json:"data" binding:"required"`
}

// --------- Handlers ---------

func (h *PetHandler) Create(c *gin.Context) {
	cpf, kind := subjectFrom(c)
	if kind != middleware.KindAccount {
		httperr.Forbidden(c, "access_denied", "Apenas usuários cadastram pets.")
		return
	}

	var req CreatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.ValidationFailed(c, validation.FieldErrors(err))
		return
	}

	var account models.Account
	if err := h.db.Where("cpf = ?", cpf).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "account_not_found", "Usuário não encontrado.")
			return
		}
		httperr.Handle(c, err)
		return
	}

	pet := models.Pet{
		Name:         req.Name,
		Type:         req.Type,
		Breed:        req.Breed,
		Age:          req.Age,
		Consultation: req.Consultation,
		Boarding:     req.Boarding,
		AccountCPF:   cpf,
	}

	if err := h.db.Create(&pet).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorKind: middleware.KindAccount,
		ActorID:   cpf,
		Action:    "pet_created",
		Entity:    "pet",
		EntityID:  &pet.ID,
	})

	httpresp.Created(c, pet)
}

func (h *PetHandler) ListMine(c *gin.Context) {
	cpf, _ := subjectFrom(c)

	var pets []models.Pet
	if err := h.db.
		Where("account_cpf = ?", cpf).
		Order("id DESC").
		Find(&pets).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.List(c, pets)
}

func (h *PetHandler) GetByID(c *gin.Context) {
	cpf, _ := subjectFrom(c)
	id := c.Param("id")

	var pet models.Pet
	if err := h.db.
		Preload("Account").
		Where("id = ? AND account_cpf = ?", id, cpf).
		First(&pet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "pet_not_found", "Pet não encontrado.")
			return
		}
		httperr.Handle(c, err)
		return
	}

	httpresp.OK(c, pet)
}

func (h *PetHandler) Update(c *gin.Context) {
	cpf, _ := subjectFrom(c)
	id := c.Param("id")

	var pet models.Pet
	if err := h.db.
		Where("id = ? AND account_cpf = ?", id, cpf).
		First(&pet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "pet_not_found", "Pet não encontrado.")
			return
		}
		httperr.Handle(c, err)
		return
	}

	var req UpdatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.ValidationFailed(c, validation.FieldErrors(err))
		return
	}

	if req.Name != nil {
		pet.Name = *req.Name
	}
	if req.Type != nil {
		pet.Type = *req.Type
	}
	if req.Breed != nil {
		pet.Breed = *req.Breed
	}
	if req.Age != nil {
		pet.Age = *req.Age
	}
	if req.Consultation != nil {
		pet.Consultation = req.Consultation
	}
	if req.Boarding != nil {
		pet.Boarding = req.Boarding
	}

	if err := h.db.Save(&pet).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.OK(c, pet)
}

func (h *PetHandler) Delete(c *gin.Context) {
	cpf, _ := subjectFrom(c)
	id := c.Param("id")

	var pet models.Pet
	if err := h.db.
		Where("id = ? AND account_cpf = ?", id, cpf).
		First(&pet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "pet_not_found", "Pet não encontrado.")
			return
		}
		httperr.Handle(c, err)
		return
	}

	if err := h.db.Delete(&pet).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorKind: middleware.KindAccount,
		ActorID:   cpf,
		Action:    "pet_deleted",
		Entity:    "pet",
		EntityID:  &pet.ID,
	})

	httpresp.OK(c, gin.H{"message": "Pet excluído com sucesso."})
}

// Schedule marca a data de consulta ou hospedagem direto no pet.
func (h *PetHandler) Schedule(c *gin.Context) {
	cpf, _ := subjectFrom(c)

	var req SchedulePetServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.ValidationFailed(c, validation.FieldErrors(err))
		return
	}

	var pet models.Pet
	if err := h.db.
		Where("id = ? AND account_cpf = ?", req.PetID, cpf).
		First(&pet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "pet_not_found", "Pet não encontrado.")
			return
		}
		httperr.Handle(c, err)
		return
	}

	if req.ServiceKind == "consulta" {
		pet.Consultation = &req.Date
	} else {
		pet.Boarding = &req.Date
	}

	if err := h.db.Save(&pet).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.OK(c, pet)
}

// ListAll é a visão de funcionário sobre todos os pets.
func (h *PetHandler) ListAll(c *gin.Context) {
	if staff := requireStaff(c, h.db); staff == nil {
		return
	}

	var pets []models.Pet
	if err := h.db.
		Preload("Account").
		Order("id DESC").
		Find(&pets).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.List(c, pets)
}
