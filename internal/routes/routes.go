package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/petshopcentral/petshop-api/internal/audit"
	"github.com/petshopcentral/petshop-api/internal/config"
	"github.com/petshopcentral/petshop-api/internal/handlers"
	infraRepo "github.com/petshopcentral/petshop-api/internal/infra/repository"
	"github.com/petshopcentral/petshop-api/internal/middleware"
	"github.com/petshopcentral/petshop-api/internal/payments"
	"github.com/petshopcentral/petshop-api/internal/postal"
	"github.com/petshopcentral/petshop-api/internal/uploads"
	ucAppointment "github.com/petshopcentral/petshop-api/internal/usecase/appointment"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RequestLogger(zap.L()))

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	postalService := postal.NewService(
		db,
		postal.NewClient(cfg.ViaCEPBaseURL),
		postal.NewCache(cfg.RedisURL),
	)

	uploader := uploads.New(cfg)

	checkout, err := payments.NewCheckout(cfg.MPAccessToken)
	if err != nil {
		zap.L().Warn("mercado pago desabilitado", zap.Error(err))
	}

	// ======================================================
	// 🧠 USE CASES — AGENDAMENTOS
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	updateAppointmentStatusUC := ucAppointment.NewUpdateAppointmentStatus(
		appointmentRepo,
		auditDispatcher,
	)

	listAppointmentsUC := ucAppointment.NewListAppointments(
		appointmentRepo,
	)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	accountHandler := handlers.NewAccountHandler(db, cfg, postalService, uploader, auditDispatcher)
	staffHandler := handlers.NewStaffHandler(db, cfg, postalService, auditDispatcher)
	petHandler := handlers.NewPetHandler(db, auditDispatcher)
	productHandler := handlers.NewProductHandler(db, uploader, checkout, auditDispatcher)
	serviceHandler := handlers.NewServiceHandler(db, auditDispatcher)
	storeHandler := handlers.NewStoreHandler(db, auditDispatcher)
	addressHandler := handlers.NewAddressHandler(db, postalService)
	reportHandler := handlers.NewReportHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(
		db,
		createAppointmentUC,
		updateAppointmentStatusUC,
		listAppointmentsUC,
	)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		// ------------------------------
		// 🔐 AUTH / CADASTRO
		// ------------------------------
		api.POST("/usuarios", accountHandler.Register)
		api.POST("/usuarios/login", accountHandler.Login)

		api.POST("/funcionarios", staffHandler.Register)
		api.POST("/funcionarios/login", staffHandler.Login)

		// ------------------------------
		// 🌐 CATÁLOGO PÚBLICO
		// ------------------------------
		api.GET("/produtos", productHandler.List)
		api.GET("/produtos/:id", productHandler.GetByID)
		api.GET("/produtos/tipo/:tipo", productHandler.ListByType)

		api.GET("/servicos", serviceHandler.List)
		api.GET("/servicos/:id", serviceHandler.GetByID)

		api.GET("/lojas", storeHandler.List)
		api.GET("/lojas/:id", storeHandler.GetByID)

		api.GET("/cep/:cep", addressHandler.Lookup)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			// Usuários
			secured.POST("/usuarios/logout", accountHandler.Logout)
			secured.GET("/usuarios/perfil", accountHandler.GetProfile)
			secured.PATCH("/usuarios/perfil", accountHandler.UpdateProfile)
			secured.POST("/usuarios/perfil/avatar", accountHandler.UploadAvatar)
			secured.GET("/usuarios", accountHandler.List)
			secured.DELETE("/usuarios/:cpf", accountHandler.Delete)

			// Funcionários
			secured.POST("/funcionarios/logout", staffHandler.Logout)
			secured.GET("/funcionarios/perfil", staffHandler.GetProfile)
			secured.PATCH("/funcionarios/perfil", staffHandler.UpdateProfile)
			secured.GET("/funcionarios", staffHandler.List)
			secured.PATCH("/funcionarios/:id/funcao", staffHandler.UpdateRole)
			secured.DELETE("/funcionarios/:id", staffHandler.Delete)

			// Pets
			secured.POST("/pets", petHandler.Create)
			secured.GET("/pets", petHandler.ListMine)
			secured.GET("/pets/todos", petHandler.ListAll)
			secured.GET("/pets/:id", petHandler.GetByID)
			secured.PATCH("/pets/:id", petHandler.Update)
			secured.DELETE("/pets/:id", petHandler.Delete)
			secured.POST("/pets/agendar", petHandler.Schedule)

			// Produtos (gestão)
			secured.POST("/produtos", productHandler.Create)
			secured.PATCH("/produtos/:id", productHandler.Update)
			secured.DELETE("/produtos/:id", productHandler.Delete)
			secured.POST("/produtos/:id/imagem", productHandler.UploadImage)
			secured.POST("/produtos/:id/checkout", productHandler.Checkout)

			// Serviços (gestão)
			secured.POST("/servicos", serviceHandler.Create)
			secured.PATCH("/servicos/:id", serviceHandler.Update)
			secured.DELETE("/servicos/:id", serviceHandler.Deactivate)

			// Lojas (gestão)
			secured.POST("/lojas", storeHandler.Create)

			// Agendamentos
			secured.POST("/agendamentos", appointmentHandler.Create)
			secured.GET("/agendamentos", appointmentHandler.List)
			secured.PATCH("/agendamentos/:id/status", appointmentHandler.UpdateStatus)

			// Endereços
			secured.GET("/enderecos", addressHandler.List)

			// Relatórios
			secured.GET("/relatorios/dashboard", reportHandler.Dashboard)
			secured.GET("/relatorios/usuarios-por-endereco", reportHandler.UsersByAddress)
			secured.GET("/relatorios/pets-por-tipo", reportHandler.PetsByType)
			secured.GET("/relatorios/produtos-por-tipo", reportHandler.ProductsByType)
			secured.GET("/relatorios/proximas-visitas", reportHandler.UpcomingVisits)
			secured.GET("/relatorios/auditoria", reportHandler.AuditLogs)
		}
	}
}
