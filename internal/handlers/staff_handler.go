package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/petshopcentral/petshop-api/internal/audit"
	"github.com/petshopcentral/petshop-api/internal/config"
	"github.com/petshopcentral/petshop-api/internal/httperr"
	"github.com/petshopcentral/petshop-api/internal/httpresp"
	"github.com/petshopcentral/petshop-api/internal/middleware"
	"github.com/petshopcentral/petshop-api/internal/models"
	"github.com/petshopcentral/petshop-api/internal/postal"
	"github.com/petshopcentral/petshop-api/internal/validation"
)

type StaffHandler struct {
	db     *gorm.DB
	config *config.Config
	postal *postal.Service
	audit  *audit.Dispatcher
}

func NewStaffHandler(
	db *gorm.DB,
	cfg *config.Config,
	postalSvc *postal.Service,
	auditDispatcher *audit.Dispatcher,
) *StaffHandler {
	return &StaffHandler{
		db:     db,
		config: cfg,
		postal: postalSvc,
		audit:  auditDispatcher,
	}
}

// --------- Requests ---------

type RegisterStaffRequest struct {
	ID         string `json:"idFuncionario" binding:"required,min=1"`
	Name       string `json:"nome" binding:"required,min=2"`
	Surname    string `json:"sobrenome" binding:"required,min=2"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"senha" binding:"required,min=6"`
	Role       string `json:"funcao" binding:"omitempty,oneof=Default Veterinario Gerente Master"`
	Phone      string `json:"telefone"`
	CEP        string `json:"cep"`
	Number     string `json:"numero"`
	Complement string `json:"complemento"`
}

type UpdateStaffRequest struct {
	Name       *string `json:"nome,omitempty" binding:"omitempty,min=2"`
	Surname    *string `json:"sobrenome,omitempty" binding:"omitempty,min=2"`
	Email      *string `json:"email,omitempty" binding:"omitempty,email"`
	Role       *string `json:"funcao,omitempty" binding:"omitempty,oneof=Default Veterinario Gerente Master"`
	Phone      *string `json:"telefone,omitempty"`
	CEP        *string `json:"cep,omitempty"`
	Number     *string `json:"numero,omitempty"`
	Complement *string `json:"complemento,omitempty"`
}

// --------- Handlers ---------

func (h *StaffHandler) Register(c *gin.Context) {
	var req RegisterStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.ValidationFailed(c, validation.FieldErrors(err))
		return
	}

	var count int64
	if err := h.db.Model(&models.Staff{}).
		Where("id = ? OR email = ?", req.ID, req.Email).
		Count(&count).Error; err != nil {
		httperr.Handle(c, err)
		return
	}
	if count > 0 {
		httperr.Conflict(c, "staff_already_exists", "Funcionário já existe com este ID ou email.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Erro interno do servidor.")
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleDefault
	}

	cep := req.CEP
	if cep == "" {
		cep = models.SentinelCEP
	}
	if err := h.postal.Ensure(c.Request.Context(), cep); err != nil {
		httperr.Handle(c, err)
		return
	}

	staff := models.Staff{
		ID:           req.ID,
		Name:         req.Name,
		Surname:      req.Surname,
		Email:        req.Email,
		PasswordHash: string(hashed),
		Role:         role,
		Phone:        req.Phone,
		CEP:          cep,
		Number:       req.Number,
		Complement:   req.Complement,
		LoggedIn:     "0",
		Avatar:       defaultAvatar,
	}

	if err := h.db.Create(&staff).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorKind: middleware.KindStaff,
		ActorID:   staff.ID,
		Action:    "staff_registered",
		Entity:    "staff",
	})

	httpresp.Created(c, staff)
}

func (h *StaffHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.ValidationFailed(c, validation.FieldErrors(err))
		return
	}

	var staff models.Staff
	if err := h.db.Where("email = ?", req.Email).First(&staff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "Credenciais inválidas.")
			return
		}
		httperr.Handle(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword(
		[]byte(staff.PasswordHash),
		[]byte(req.Password),
	); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Credenciais inválidas.")
		return
	}

	h.db.Model(&staff).Update("logged_in", "1")

	token, err := generateToken(h.config, staff.ID, middleware.KindStaff)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro interno do servidor.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"funcionario": staff,
		"token":       token,
	})
}

func (h *StaffHandler) Logout(c *gin.Context) {
	id, _ := subjectFrom(c)

	h.db.Model(&models.Staff{}).
		Where("id = ?", id).
		Update("logged_in", "0")

	httpresp.OK(c, gin.H{"message": "Logout realizado com sucesso."})
}

func (h *StaffHandler) GetProfile(c *gin.Context) {
	id, _ := subjectFrom(c)

	var staff models.Staff
	if err := h.db.
		Preload("Address").
		Where("id = ?", id).
		First(&staff).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.OK(c, staff)
}

func (h *StaffHandler) UpdateProfile(c *gin.Context) {
	id, _ := subjectFrom(c)

	var staff models.Staff
	if err := h.db.Where("id = ?", id).First(&staff).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	var req UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.ValidationFailed(c, validation.FieldErrors(err))
		return
	}

	if req.Name != nil {
		staff.Name = *req.Name
	}
	if req.Surname != nil {
		staff.Surname = *req.Surname
	}
	if req.Email != nil {
		staff.Email = *req.Email
	}
	if req.Role != nil {
		staff.Role = *req.Role
	}
	if req.Phone != nil {
		staff.Phone = *req.Phone
	}
	if req.CEP != nil {
		if err := h.postal.Ensure(c.Request.Context(), *req.CEP); err != nil {
			httperr.Handle(c, err)
			return
		}
		staff.CEP = *req.CEP
	}
	if req.Number != nil {
		staff.Number = *req.Number
	}
	if req.Complement != nil {
		staff.Complement = *req.Complement
	}

	if err := h.db.Save(&staff).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.OK(c, staff)
}

func (h *StaffHandler) List(c *gin.Context) {
	if staff := requireStaff(c, h.db); staff == nil {
		return
	}

	var all []models.Staff
	if err := h.db.
		Preload("Address").
		Order("id ASC").
		Find(&all).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.List(c, all)
}

// UpdateRole altera a função de outro funcionário; apenas Master.
func (h *StaffHandler) UpdateRole(c *gin.Context) {
	actor := requireStaff(c, h.db)
	if actor == nil {
		return
	}

	if actor.Role != models.RoleMaster {
		httperr.Forbidden(c, "access_denied", "Sem permissão para alterar funções.")
		return
	}

	var req struct {
		Role string `json:"funcao" binding:"required,oneof=Default Veterinario Gerente Master"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.ValidationFailed(c, validation.FieldErrors(err))
		return
	}

	id := c.Param("id")

	var staff models.Staff
	if err := h.db.Where("id = ?", id).First(&staff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "staff_not_found", "Funcionário não encontrado.")
			return
		}
		httperr.Handle(c, err)
		return
	}

	staff.Role = req.Role
	if err := h.db.Save(&staff).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorKind: middleware.KindStaff,
		ActorID:   actor.ID,
		Action:    "staff_role_changed",
		Entity:    "staff",
		Metadata:  map[string]string{"id": id, "funcao": req.Role},
	})

	httpresp.OK(c, staff)
}

// Delete remove um funcionário; apenas Master.
func (h *StaffHandler) Delete(c *gin.Context) {
	actor := requireStaff(c, h.db)
	if actor == nil {
		return
	}

	if actor.Role != models.RoleMaster {
		httperr.Forbidden(c, "access_denied", "Sem permissão para excluir funcionários.")
		return
	}

	id := c.Param("id")
	if id == actor.ID {
		httperr.BadRequest(c, "cannot_delete_self", "Não é possível excluir a própria conta.")
		return
	}

	var staff models.Staff
	if err := h.db.Where("id = ?", id).First(&staff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "staff_not_found", "Funcionário não encontrado.")
			return
		}
		httperr.Handle(c, err)
		return
	}

	if err := h.db.Delete(&staff).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorKind: middleware.KindStaff,
		ActorID:   actor.ID,
		Action:    "staff_deleted",
		Entity:    "staff",
		Metadata:  map[string]string{"id": id},
	})

	httpresp.OK(c, gin.H{"message": "Funcionário excluído com sucesso."})
}
