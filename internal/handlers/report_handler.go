package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/petshopcentral/petshop-api/internal/domain/appointment"
	"github.com/petshopcentral/petshop-api/internal/httperr"
	"github.com/petshopcentral/petshop-api/internal/httpresp"
	"github.com/petshopcentral/petshop-api/internal/models"
	"github.com/petshopcentral/petshop-api/internal/timezone"
)

// ReportHandler concentra as consultas agregadas usadas pelo painel
// administrativo. Todas exigem um funcionário autenticado.
type ReportHandler struct {
	db *gorm.DB
}

func NewReportHandler(db *gorm.DB) *ReportHandler {
	return &ReportHandler{db: db}
}

type typeCount struct {
	Type  string `gorm:"column:type" json:"tipo"`
	Total int64  `json:"total"`
}

func (h *ReportHandler) Dashboard(c *gin.Context) {
	if staff := requireStaff(c, h.db); staff == nil {
		return
	}

	var (
		accounts     int64
		staffTotal   int64
		pets         int64
		products     int64
		services     int64
		appointments int64
		loggedIn     int64
	)

	counts := []struct {
		model any
		dest  *int64
	}{
		{&models.Account{}, &accounts},
		{&models.Staff{}, &staffTotal},
		{&models.Pet{}, &pets},
		{&models.Product{}, &products},
		{&models.Service{}, &services},
		{&models.Appointment{}, &appointments},
	}

	for _, q := range counts {
		if err := h.db.Model(q.model).Count(q.dest).Error; err != nil {
			httperr.Handle(c, err)
			return
		}
	}

	if err := h.db.Model(&models.Account{}).
		Where("logged_in = ?", "1").
		Count(&loggedIn).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"usuarios":        accounts,
		"usuariosLogados": loggedIn,
		"funcionarios":    staffTotal,
		"pets":            pets,
		"produtos":        products,
		"servicos":        services,
		"agendamentos":    appointments,
	})
}

// UsersByAddress lista os endereços com os usuários vinculados a cada um.
func (h *ReportHandler) UsersByAddress(c *gin.Context) {
	if staff := requireStaff(c, h.db); staff == nil {
		return
	}

	var addresses []models.Address
	if err := h.db.
		Preload("Accounts").
		Where("cep <> ?", models.SentinelCEP).
		Order("cep").
		Find(&addresses).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.List(c, addresses)
}

func (h *ReportHandler) PetsByType(c *gin.Context) {
	if staff := requireStaff(c, h.db); staff == nil {
		return
	}

	var rows []typeCount
	if err := h.db.Model(&models.Pet{}).
		Select("type, COUNT(*) AS total").
		Group("type").
		Order("total DESC").
		Scan(&rows).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.List(c, rows)
}

func (h *ReportHandler) ProductsByType(c *gin.Context) {
	if staff := requireStaff(c, h.db); staff == nil {
		return
	}

	var rows []typeCount
	if err := h.db.Model(&models.Product{}).
		Select("type, COUNT(*) AS total").
		Group("type").
		Order("total DESC").
		Scan(&rows).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.List(c, rows)
}

// AuditLogs lista os últimos eventos de auditoria.
func (h *ReportHandler) AuditLogs(c *gin.Context) {
	if staff := requireStaff(c, h.db); staff == nil {
		return
	}

	var logs []models.AuditLog
	if err := h.db.
		Order("id DESC").
		Limit(200).
		Find(&logs).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.List(c, logs)
}

// UpcomingVisits devolve consultas e hospedagens marcadas nos pets para os
// próximos 30 dias, e agendamentos de serviço ativos para os próximos 7.
func (h *ReportHandler) UpcomingVisits(c *gin.Context) {
	if staff := requireStaff(c, h.db); staff == nil {
		return
	}

	now := timezone.Now()
	monthAhead := now.Add(30 * 24 * time.Hour)
	weekAhead := now.Add(7 * 24 * time.Hour)

	var consultations []models.Pet
	if err := h.db.
		Preload("Account").
		Where("consultation BETWEEN ? AND ?", now, monthAhead).
		Order("consultation").
		Find(&consultations).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	var boardings []models.Pet
	if err := h.db.
		Preload("Account").
		Where("boarding BETWEEN ? AND ?", now, monthAhead).
		Order("boarding").
		Find(&boardings).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	var appointments []models.Appointment
	if err := h.db.
		Preload("Pet").
		Preload("Service").
		Preload("Account").
		Where("scheduled_at BETWEEN ? AND ? AND status IN ?",
			now, weekAhead, appointment.ActiveStatuses()).
		Order("scheduled_at").
		Find(&appointments).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"consultas":    consultations,
		"hospedagens":  boardings,
		"agendamentos": appointments,
	})
}
