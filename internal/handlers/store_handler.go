package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/petshopcentral/petshop-api/internal/audit"
	"github.com/petshopcentral/petshop-api/internal/httperr"
	"github.com/petshopcentral/petshop-api/internal/httpresp"
	"github.com/petshopcentral/petshop-api/internal/middleware"
	"github.com/petshopcentral/petshop-api/internal/models"
	"github.com/petshopcentral/petshop-api/internal/validation"
)

type StoreHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewStoreHandler(db *gorm.DB, auditDispatcher *audit.Dispatcher) *StoreHandler {
	return &StoreHandler{db: db, audit: auditDispatcher}
}

type CreateStoreRequest struct {
	Name       string `json:"nome" binding:"required,min=2"`
	Image      string `json:"img"`
	CEP        string `json:"cep"`
	Number     string `json:"numero"`
	Complement string `json:"complemento"`
}

func (h *StoreHandler) Create(c *gin.Context) {
	staff := requireStaff(c, h.db)
	if staff == nil {
		return
	}
	if !staff.HasElevatedRole() {
		httperr.Forbidden(c, "access_denied", "Apenas gerentes cadastram lojas.")
		return
	}

	var req CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.ValidationFailed(c, validation.FieldErrors(err))
		return
	}

	store := models.Store{
		Name:       req.Name,
		Image:      req.Image,
		CEP:        req.CEP,
		Number:     req.Number,
		Complement: req.Complement,
		StaffID:    staff.ID,
	}

	if err := h.db.Create(&store).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorKind: middleware.KindStaff,
		ActorID:   staff.ID,
		Action:    "store_created",
		Entity:    "store",
		EntityID:  &store.ID,
	})

	httpresp.Created(c, store)
}

func (h *StoreHandler) List(c *gin.Context) {
	var stores []models.Store
	if err := h.db.Order("id").Find(&stores).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.List(c, stores)
}

func (h *StoreHandler) GetByID(c *gin.Context) {
	id := c.Param("id")

	var store models.Store
	if err := h.db.Preload("Staff").First(&store, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "store_not_found", "Loja não encontrada.")
			return
		}
		httperr.Handle(c, err)
		return
	}

	httpresp.OK(c, store)
}
