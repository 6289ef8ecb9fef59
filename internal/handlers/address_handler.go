package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/petshopcentral/petshop-api/internal/httperr"
	"github.com/petshopcentral/petshop-api/internal/httpresp"
	"github.com/petshopcentral/petshop-api/internal/models"
	"github.com/petshopcentral/petshop-api/internal/postal"
	"github.com/petshopcentral/petshop-api/internal/validators"
)

type AddressHandler struct {
	db     *gorm.DB
	postal *postal.Service
}

func NewAddressHandler(db *gorm.DB, postalService *postal.Service) *AddressHandler {
	return &AddressHandler{db: db, postal: postalService}
}

// Lookup consulta um CEP: banco, depois cache, depois ViaCEP.
func (h *AddressHandler) Lookup(c *gin.Context) {
	cep := validators.NormalizeCEP(c.Param("cep"))
	if !validators.IsValidCEP(cep) {
		httperr.BadRequest(c, "invalid_cep", "CEP inválido. Informe 8 dígitos.")
		return
	}

	result, cached, err := h.postal.Lookup(c.Request.Context(), cep)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"endereco": result,
		"cache":    cached,
	})
}

func (h *AddressHandler) List(c *gin.Context) {
	if staff := requireStaff(c, h.db); staff == nil {
		return
	}

	var addresses []models.Address
	if err := h.db.
		Where("cep <> ?", models.SentinelCEP).
		Order("cep").
		Find(&addresses).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.List(c, addresses)
}
