package db

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/petshopcentral/petshop-api/internal/config"
	"github.com/petshopcentral/petshop-api/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		zap.L().Fatal("failed to connect database", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		zap.L().Fatal("failed to get sql.DB", zap.Error(err))
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		zap.L().Fatal("failed to migrate", zap.Error(err))
	}

	return db
}

// Migrate cria o schema e os registros de base. Separado de NewDB para os
// testes poderem rodar contra outro dialeto.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Address{},
		&models.Account{},
		&models.Staff{},
		&models.Store{},
		&models.Product{},
		&models.Service{},
		&models.Pet{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		return err
	}

	// Endereço sentinela para contas cadastradas sem CEP.
	sentinel := models.Address{
		CEP:      models.SentinelCEP,
		Street:   "Vazio",
		District: "Vazio",
		City:     "Vazio",
		State:    "Vazio",
	}
	if err := db.Where("cep = ?", models.SentinelCEP).
		FirstOrCreate(&sentinel).Error; err != nil {
		return err
	}

	// Dois agendamentos não-terminais nunca podem ocupar o mesmo horário do
	// mesmo serviço; o índice parcial torna o conflito detectável no banco
	// mesmo sob requisições concorrentes.
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec(`
			CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_active_slot
			ON appointments (service_id, scheduled_at)
			WHERE status IN ('Agendado', 'Confirmado', 'EmAndamento')
		`).Error; err != nil {
			return err
		}
	}

	return nil
}
