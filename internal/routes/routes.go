package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/VetAgendaServices01/vet-scheduler/internal/audit"
	"github.com/VetAgendaServices01/vet-scheduler/internal/config"
	"github.com/VetAgendaServices01/vet-scheduler/internal/handlers"
	infraRepo "github.com/VetAgendaServices01/vet-scheduler/internal/infra/repository"
	"github.com/VetAgendaServices01/vet-scheduler/internal/middleware"
	"github.com/VetAgendaServices01/vet-scheduler/internal/notify"
	ucSchedule "github.com/VetAgendaServices01/vet-scheduler/internal/usecase/schedule"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client, cfg *config.Config) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	scheduleRepo := infraRepo.NewScheduleGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	notifyPublisher := notify.NewRedisPublisher(rdb, notify.DefaultChannel)
	notifyDispatcher := notify.NewDispatcher(notifyPublisher)

	// ======================================================
	// 🧠 USE CASES — ENGINE DE AGENDA
	// ======================================================
	materializeUC := ucSchedule.NewMaterializeSlots(
		scheduleRepo,
		auditDispatcher,
		cfg.SlotDuration,
	)

	listFreeUC := ucSchedule.NewListFreeSlots(scheduleRepo)

	bookUC := ucSchedule.NewBookSlot(
		scheduleRepo,
		auditDispatcher,
		notifyDispatcher,
	)

	cancelUC := ucSchedule.NewCancelAppointment(
		scheduleRepo,
		auditDispatcher,
		notifyDispatcher,
	)

	rescheduleUC := ucSchedule.NewRescheduleAppointment(
		scheduleRepo,
		auditDispatcher,
		notifyDispatcher,
	)

	completeUC := ucSchedule.NewCompleteAppointment(
		scheduleRepo,
		auditDispatcher,
	)

	sweepUC := ucSchedule.NewSweepExpiredSlots(scheduleRepo)

	listByDateUC := ucSchedule.NewListAppointmentsByDate(scheduleRepo)
	listByMonthUC := ucSchedule.NewListAppointmentsByMonth(scheduleRepo)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	clinicHandler := handlers.NewClinicHandler(db)
	clientHandler := handlers.NewClientHandler(db)

	scheduleHandler := handlers.NewScheduleHandler(db, materializeUC, listFreeUC)

	appointmentHandler := handlers.NewAppointmentHandler(
		db,
		bookUC,
		cancelUC,
		rescheduleUC,
		completeUC,
		listByDateUC,
		listByMonthUC,
	)

	publicHandler := handlers.NewPublicHandler(db, listFreeUC, bookUC)
	sweepHandler := handlers.NewSweepHandler(sweepUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug/slots", publicHandler.ListFreeSlots)
			publicAPI.POST("/:slug/appointments", publicHandler.Book)
		}

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/clinic", clinicHandler.GetMeClinic)
			secured.PATCH("/me/clinic", clinicHandler.UpdateMeClinic)

			secured.GET("/me/clients", clientHandler.List)
			secured.GET("/me/clients/:id/pets", clientHandler.ListPets)

			// ------------------------------
			// SLOTS
			// ------------------------------
			secured.POST("/me/slots/materialize", scheduleHandler.Materialize)
			secured.GET("/me/slots", scheduleHandler.ListFree)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/me/appointments", appointmentHandler.Book)
			secured.GET("/me/appointments", appointmentHandler.ListByDate)
			secured.GET("/me/appointments/month", appointmentHandler.ListByMonth)
			secured.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/me/appointments/:id/reschedule", appointmentHandler.Reschedule)
			secured.PATCH("/me/appointments/:id/complete", appointmentHandler.Complete)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}

	// ======================================================
	// ⏰ GATILHO EXTERNO (CRON)
	// ======================================================
	internalAPI := r.Group("/internal")
	{
		internalAPI.POST("/sweep", sweepHandler.Sweep)
	}
}
