package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/petshopcentral/petshop-api/internal/audit"
	"github.com/petshopcentral/petshop-api/internal/httperr"
	"github.com/petshopcentral/petshop-api/internal/httpresp"
	"github.com/petshopcentral/petshop-api/internal/middleware"
	"github.com/petshopcentral/petshop-api/internal/models"
	"github.com/petshopcentral/petshop-api/internal/payments"
	"github.com/petshopcentral/petshop-api/internal/uploads"
	"github.com/petshopcentral/petshop-api/internal/validation"
)

type ProductHandler struct {
	db       *gorm.DB
	uploader *uploads.Uploader
	checkout *payments.Checkout
	audit    *audit.Dispatcher
}

func NewProductHandler(db *gorm.DB, uploader *uploads.Uploader, checkout *payments.Checkout, auditDispatcher *audit.Dispatcher) *ProductHandler {
	return &ProductHandler{db: db, uploader: uploader, checkout: checkout, audit: auditDispatcher}
}

// --------- Requests ---------

type CreateProductRequest struct {
	Name        string  `json:"nome" binding:"required,min=2"`
	Description string  `json:"descricao"`
	Price       float64 `json:"preco" binding:"required,gt=0"`
	Type        string  `json:"tipo" binding:"required"`
	Stock       *int    `json:"estoque" binding:"omitempty,gte=0"`
	StoreID     *uint   `json:"idLoja"`
	Image       string  `json:"img"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"nome,omitempty" binding:"omitempty,min=2"`
	Description *string  `json:"descricao,omitempty"`
	Price       *float64 `json:"preco,omitempty" binding:"omitempty,gt=0"`
	Type        *string  `json:"tipo,omitempty"`
	Stock       *int     `json:"estoque,omitempty" binding:"omitempty,gte=0"`
	StoreID     *uint    `json:"idLoja,omitempty"`
	Image       *string  `json:"img,omitempty"`
}

type ProductCheckoutRequest struct {
	Quantity int `json:"quantidade" binding:"required,gte=1"`
}

// canManageProduct: quem criou o produto ou quem tem cargo elevado.
func canManageProduct(staff *models.Staff, product *models.Product) bool {
	return staff.ID == product.StaffID || staff.HasElevatedRole()
}

// --------- Handlers ---------

func (h *ProductHandler) List(c *gin.Context) {
	var products []models.Product
	if err := h.db.
		Preload("Staff").
		Order("id DESC").
		Find(&products).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.List(c, products)
}

func (h *ProductHandler) GetByID(c *gin.Context) {
	id := c.Param("id")

	var product models.Product
	if err := h.db.Preload("Staff").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "product_not_found", "Produto não encontrado.")
			return
		}
		httperr.Handle(c, err)
		return
	}

	httpresp.OK(c, product)
}

func (h *ProductHandler) ListByType(c *gin.Context) {
	productType := c.Param("tipo")
	if !models.IsValidProductType(productType) {
		httperr.BadRequest(c, "invalid_product_type", "Tipo de produto inválido.")
		return
	}

	var products []models.Product
	if err := h.db.
		Where("type = ?", productType).
		Order("id DESC").
		Find(&products).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.List(c, products)
}

func (h *ProductHandler) Create(c *gin.Context) {
	staff := requireStaff(c, h.db)
	if staff == nil {
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.ValidationFailed(c, validation.FieldErrors(err))
		return
	}

	if !models.IsValidProductType(req.Type) {
		httperr.BadRequest(c, "invalid_product_type", "Tipo de produto inválido.")
		return
	}

	if req.StoreID != nil {
		var store models.Store
		if err := h.db.First(&store, "id = ?", *req.StoreID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				httperr.NotFound(c, "store_not_found", "Loja não encontrada.")
				return
			}
			httperr.Handle(c, err)
			return
		}
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Type:        req.Type,
		Stock:       req.Stock,
		StoreID:     req.StoreID,
		Image:       req.Image,
		StaffID:     staff.ID,
	}

	if err := h.db.Create(&product).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorKind: middleware.KindStaff,
		ActorID:   staff.ID,
		Action:    "product_created",
		Entity:    "product",
		EntityID:  &product.ID,
	})

	httpresp.Created(c, product)
}

func (h *ProductHandler) Update(c *gin.Context) {
	staff := requireStaff(c, h.db)
	if staff == nil {
		return
	}

	id := c.Param("id")

	var product models.Product
	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "product_not_found", "Produto não encontrado.")
			return
		}
		httperr.Handle(c, err)
		return
	}

	if !canManageProduct(staff, &product) {
		httperr.Forbidden(c, "access_denied", "Sem permissão para alterar este produto.")
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.ValidationFailed(c, validation.FieldErrors(err))
		return
	}

	if req.Type != nil && !models.IsValidProductType(*req.Type) {
		httperr.BadRequest(c, "invalid_product_type", "Tipo de produto inválido.")
		return
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Type != nil {
		product.Type = *req.Type
	}
	if req.Stock != nil {
		product.Stock = req.Stock
	}
	if req.StoreID != nil {
		var store models.Store
		if err := h.db.First(&store, "id = ?", *req.StoreID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				httperr.NotFound(c, "store_not_found", "Loja não encontrada.")
				return
			}
			httperr.Handle(c, err)
			return
		}
		product.StoreID = req.StoreID
	}
	if req.Image != nil {
		product.Image = *req.Image
	}

	if err := h.db.Save(&product).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorKind: middleware.KindStaff,
		ActorID:   staff.ID,
		Action:    "product_updated",
		Entity:    "product",
		EntityID:  &product.ID,
	})

	httpresp.OK(c, product)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	staff := requireStaff(c, h.db)
	if staff == nil {
		return
	}

	id := c.Param("id")

	var product models.Product
	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "product_not_found", "Produto não encontrado.")
			return
		}
		httperr.Handle(c, err)
		return
	}

	if !canManageProduct(staff, &product) {
		httperr.Forbidden(c, "access_denied", "Sem permissão para excluir este produto.")
		return
	}

	if err := h.db.Delete(&product).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorKind: middleware.KindStaff,
		ActorID:   staff.ID,
		Action:    "product_deleted",
		Entity:    "product",
		EntityID:  &product.ID,
	})

	httpresp.OK(c, gin.H{"message": "Produto excluído com sucesso."})
}

func (h *ProductHandler) UploadImage(c *gin.Context) {
	staff := requireStaff(c, h.db)
	if staff == nil {
		return
	}

	if h.uploader == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "uploads_disabled", "Upload de imagens não está configurado.")
		return
	}

	id := c.Param("id")

	var product models.Product
	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "product_not_found", "Produto não encontrado.")
			return
		}
		httperr.Handle(c, err)
		return
	}

	if !canManageProduct(staff, &product) {
		httperr.Forbidden(c, "access_denied", "Sem permissão para alterar este produto.")
		return
	}

	fileHeader, err := c.FormFile("imagem")
	if err != nil {
		httperr.BadRequest(c, "missing_file", "Arquivo 'imagem' é obrigatório.")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	defer file.Close()

	url, err := h.uploader.Upload(c.Request.Context(), "produtos", file)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	product.Image = url
	if err := h.db.Save(&product).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.OK(c, product)
}

// Checkout cria uma preferência de pagamento no Mercado Pago para o produto.
func (h *ProductHandler) Checkout(c *gin.Context) {
	cpf, kind := subjectFrom(c)
	if kind != middleware.KindAccount {
		httperr.Forbidden(c, "access_denied", "Apenas usuários podem comprar produtos.")
		return
	}

	if h.checkout == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "payments_disabled", "Pagamentos não estão configurados.")
		return
	}

	id := c.Param("id")

	var product models.Product
	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "product_not_found", "Produto não encontrado.")
			return
		}
		httperr.Handle(c, err)
		return
	}

	var req ProductCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresp.ValidationFailed(c, validation.FieldErrors(err))
		return
	}

	if product.Stock != nil && *product.Stock < req.Quantity {
		httperr.BadRequest(c, "insufficient_stock", "Estoque insuficiente para este produto.")
		return
	}

	result, err := h.checkout.CreatePreference(c.Request.Context(), &product, req.Quantity)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorKind: middleware.KindAccount,
		ActorID:   cpf,
		Action:    "product_checkout",
		Entity:    "product",
		EntityID:  &product.ID,
	})

	httpresp.OK(c, gin.H{
		"preferenceId": result.PreferenceID,
		"initPoint":    result.InitPoint,
	})
}
