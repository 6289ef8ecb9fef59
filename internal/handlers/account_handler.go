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
	"github.com/petshopcentral/petshop-api/internal/uploads"
	"github.com/petshopcentral/petshop-api/internal/validation"
)

const defaultAvatar = "./img/UsuarioOFF.png"

type AccountHandler struct {
	db       *gorm.DB
	config   *config.Config
	postal   *postal.Service
	uploader *uploads.Uploader
	audit    *audit.Dispatcher
}

func NewAccountHandler(
	db *gorm.DB,
	cfg *config.Config,
	postalSvc *postal.Service,
	uploader *uploads.Uploader,
	auditDispatcher *audit.Dispatcher,
) *AccountHandler {
	return &AccountHandler{
		db:       db,
		config:   cfg,
		postal:   postalSvc,
		uploader: uploader,
		audit:    auditDispatcher,
	}
}

// --------- Requests ---------

type RegisterAccountRequest struct {
	CPF        string `json:"cpf" binding:"required,min=11"`
	Name       string `json:"nome" binding:"required,min=2"`
	Surname    string `json:"sobrenome" binding:"required,min=2"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"senha" binding:"required,min=6"`
	Phone      string `json:"celular"`
	CEP        string `json:"cep"`
	Number     string `json:"numero"`
	Complement string `json:"complemento"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"senha" binding:"required"`
}

type UpdateAccountRequest struct {
	Name       *string `json:"nome,omitempty" binding:"omitempty,min=2"`
	Surname    *string `json:"sobrenome,omitempty" binding:"omitempty,min=2"`
	Email      *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone      *string `json:"celular,omitempty"`
	CEP        *string `json:"cep,omitempty"`
	Number     *string `json:"numero,omitempty"`
	Complement *string `json:"complemento,omitempty"`
}

// --------- Handlers ---------

func (h *AccountHandler) Register(c *gin.Context) {
	var req RegisterAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.ValidationFailed(c, validation.FieldErrors(err))
		return
	}

	var count int64
	if err := h.db.Model(&models.Account{}).
		Where("cpf = ? OR email = ?", req.CPF, req.Email).
		Count(&count).Error; err != nil {
		httperr.Handle(c, err)
		return
	}
	if count > 0 {
		httperr.Conflict(c, "account_already_exists", "Usuário já existe com este CPF ou email.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Erro interno do servidor.")
		return
	}

	cep := req.CEP
	if cep == "" {
		cep = models.SentinelCEP
	}
	if err := h.postal.Ensure(c.Request.Context(), cep); err != nil {
		httperr.Handle(c, err)
		return
	}

	account := models.Account{
		CPF:          req.CPF,
		Name:         req.Name,
		Surname:      req.Surname,
		Email:        req.Email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		CEP:          cep,
		Number:       req.Number,
		Complement:   req.Complement,
		LoggedIn:     "0",
		Avatar:       defaultAvatar,
	}

	if err := h.db.Create(&account).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorKind: middleware.KindAccount,
		ActorID:   account.CPF,
		Action:    "account_registered",
		Entity:    "account",
	})

	httpresp.Created(c, account)
}

func (h *AccountHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.ValidationFailed(c, validation.FieldErrors(err))
		return
	}

	var account models.Account
	if err := h.db.Where("email = ?", req.Email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "Credenciais inválidas.")
			return
		}
		httperr.Handle(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword(
		[]byte(account.PasswordHash),
		[]byte(req.Password),
	); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Credenciais inválidas.")
		return
	}

	h.db.Model(&account).Update("logged_in", "1")

	token, err := generateToken(h.config, account.CPF, middleware.KindAccount)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro interno do servidor.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  account,
		"token": token,
	})
}

// Logout é idempotente: zera a flag mesmo se já estiver deslogado.
func (h *AccountHandler) Logout(c *gin.Context) {
	cpf, _ := subjectFrom(c)

	h.db.Model(&models.Account{}).
		Where("cpf = ?", cpf).
		Update("logged_in", "0")

	httpresp.OK(c, gin.H{"message": "Logout realizado com sucesso."})
}

func (h *AccountHandler) GetProfile(c *gin.Context) {
	cpf, _ := subjectFrom(c)

	var account models.Account
	if err := h.db.
		Preload("Address").
		Preload("Pets").
		Where("cpf = ?", cpf).
		First(&account).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.OK(c, account)
}

func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	cpf, _ := subjectFrom(c)

	var account models.Account
	if err := h.db.Where("cpf = ?", cpf).First(&account).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.ValidationFailed(c, validation.FieldErrors(err))
		return
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Surname != nil {
		account.Surname = *req.Surname
	}
	if req.Email != nil {
		account.Email = *req.Email
	}
	if req.Phone != nil {
		account.Phone = *req.Phone
	}
	if req.CEP != nil {
		if err := h.postal.Ensure(c.Request.Context(), *req.CEP); err != nil {
			httperr.Handle(c, err)
			return
		}
		account.CEP = *req.CEP
	}
	if req.Number != nil {
		account.Number = *req.Number
	}
	if req.Complement != nil {
		account.Complement = *req.Complement
	}

	if err := h.db.Save(&account).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.OK(c, account)
}

func (h *AccountHandler) UploadAvatar(c *gin.Context) {
	if h.uploader == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "uploads_disabled", "Upload de imagens não configurado.")
		return
	}

	cpf, _ := subjectFrom(c)

	var account models.Account
	if err := h.db.Where("cpf = ?", cpf).First(&account).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	file, _, err := c.Request.FormFile("imagem")
	if err != nil {
		httperr.BadRequest(c, "missing_file", "Arquivo de imagem não enviado.")
		return
	}
	defer file.Close()

	url, err := h.uploader.Upload(c.Request.Context(), "avatars", file)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	account.Avatar = url
	if err := h.db.Save(&account).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.OK(c, gin.H{"img": url})
}

// List é restrito a funcionários.
func (h *AccountHandler) List(c *gin.Context) {
	if staff := requireStaff(c, h.db); staff == nil {
		return
	}

	var accounts []models.Account
	if err := h.db.
		Preload("Address").
		Preload("Pets").
		Order("cpf DESC").
		Find(&accounts).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.List(c, accounts)
}

// Delete remove uma conta; apenas Master/Gerente.
func (h *AccountHandler) Delete(c *gin.Context) {
	staff := requireStaff(c, h.db)
	if staff == nil {
		return
	}

	if !staff.HasElevatedRole() {
		httperr.Forbidden(c, "access_denied", "Sem permissão para excluir usuários.")
		return
	}

	cpf := c.Param("cpf")

	var account models.Account
	if err := h.db.Where("cpf = ?", cpf).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "account_not_found", "Usuário não encontrado.")
			return
		}
		httperr.Handle(c, err)
		return
	}

	if err := h.db.Delete(&account).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorKind: middleware.KindStaff,
		ActorID:   staff.ID,
		Action:    "account_deleted",
		Entity:    "account",
		Metadata:  map[string]string{"cpf": cpf},
	})

	httpresp.OK(c, gin.H{"message": "Usuário excluído com sucesso."})
}
