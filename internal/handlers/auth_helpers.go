package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/petshopcentral/petshop-api/internal/config"
	"github.com/petshopcentral/petshop-api/internal/httperr"
	"github.com/petshopcentral/petshop-api/internal/middleware"
	"github.com/petshopcentral/petshop-api/internal/models"
)

const tokenTTL = 7 * 24 * time.Hour

func generateToken(cfg *config.Config, subjectID, subjectKind string) (string, error) {
	claims := jwt.MapClaims{
		"userId":   subjectID,
		"userType": subjectKind,
		"exp":      time.Now().Add(tokenTTL).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

func subjectFrom(c *gin.Context) (id string, kind string) {
	id = c.MustGet(middleware.ContextSubjectID).(string)
	kind = c.MustGet(middleware.ContextSubjectKind).(string)
	return id, kind
}

// requireStaff carrega o funcionário autenticado; escreve 403 e devolve nil
// quando o chamador não é funcionário.
func requireStaff(c *gin.Context, db *gorm.DB) *models.Staff {
	id, kind := subjectFrom(c)

	if kind != middleware.KindStaff {
		httperr.Forbidden(c, "access_denied", "Acesso negado.")
		return nil
	}

	var staff models.Staff
	if err := db.Where("id = ?", id).First(&staff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Forbidden(c, "access_denied", "Acesso negado.")
			return nil
		}
		httperr.Internal(c, "internal_error", "Erro interno do servidor.")
		return nil
	}

	return &staff
}
