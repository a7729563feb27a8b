package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/VetAgendaServices01/vet-scheduler/internal/httperr"
	"github.com/VetAgendaServices01/vet-scheduler/internal/middleware"
	"github.com/VetAgendaServices01/vet-scheduler/internal/models"
	ucSchedule "github.com/VetAgendaServices01/vet-scheduler/internal/usecase/schedule"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	db *gorm.DB

	bookUC        *ucSchedule.BookSlot
	cancelUC      *ucSchedule.CancelAppointment
	rescheduleUC  *ucSchedule.RescheduleAppointment
	completeUC    *ucSchedule.CompleteAppointment
	listByDateUC  *ucSchedule.ListAppointmentsByDate
	listByMonthUC *ucSchedule.ListAppointmentsByMonth
}

func NewAppointmentHandler(
	db *gorm.DB,
	bookUC *ucSchedule.BookSlot,
	cancelUC *ucSchedule.CancelAppointment,
	rescheduleUC *ucSchedule.RescheduleAppointment,
	completeUC *ucSchedule.CompleteAppointment,
	listByDateUC *ucSchedule.ListAppointmentsByDate,
	listByMonthUC *ucSchedule.ListAppointmentsByMonth,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:            db,
		bookUC:        bookUC,
		cancelUC:      cancelUC,
		rescheduleUC:  rescheduleUC,
		completeUC:    completeUC,
		listByDateUC:  listByDateUC,
		listByMonthUC: listByMonthUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type BookAppointmentRequest struct {
	SlotID      string `json:"slot_id" binding:"required"`
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ClientEmail string `json:"client_email"`
	PetName     string `json:"pet_name" binding:"required"`
	PetSpecies  string `json:"pet_species"`
	Reason      string `json:"reason"`
}

type RescheduleRequest struct {
	NewSlotID string `json:"new_slot_id" binding:"required"`
}

// ======================================================
// BOOK (STAFF)
// ======================================================

func (h *AppointmentHandler) Book(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	var req BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	slotID, err := uuid.Parse(req.SlotID)
	if err != nil {
		httperr.BadRequest(c, "invalid_slot_id", "Slot inválido.")
		return
	}

	ap, err := h.bookUC.Execute(
		c.Request.Context(),
		ucSchedule.BookSlotInput{
			ClinicID:    clinicID,
			SlotID:      slotID,
			ClientName:  req.ClientName,
			ClientPhone: req.ClientPhone,
			ClientEmail: req.ClientEmail,
			PetName:     req.PetName,
			PetSpecies:  req.PetSpecies,
			Reason:      req.Reason,
		},
	)
	if err != nil {
		mapEngineError(c, err)
		return
	}

	c.JSON(201, ap)
}

// ======================================================
// CANCEL
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextUserID).(uint)
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	ap, restored, err := h.cancelUC.Execute(
		c.Request.Context(),
		clinicID,
		professionalID,
		uint(id),
	)
	if err != nil {
		mapEngineError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"appointment":   ap,
		"restored_slot": restored,
	})
}

// ======================================================
// RESCHEDULE
// ======================================================

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextUserID).(uint)
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	newSlotID, err := uuid.Parse(req.NewSlotID)
	if err != nil {
		httperr.BadRequest(c, "invalid_slot_id", "Slot inválido.")
		return
	}

	ap, err := h.rescheduleUC.Execute(
		c.Request.Context(),
		clinicID,
		professionalID,
		uint(id),
		newSlotID,
	)
	if err != nil {
		mapEngineError(c, err)
		return
	}

	c.JSON(200, ap)
}

// ======================================================
// COMPLETE
// ======================================================

func (h *AppointmentHandler) Complete(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextUserID).(uint)
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	ap, err := h.completeUC.Execute(
		c.Request.Context(),
		clinicID,
		professionalID,
		uint(id),
	)
	if err != nil {
		mapEngineError(c, err)
		return
	}

	c.JSON(200, ap)
}

// ======================================================
// LIST BY DATE
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextUserID).(uint)
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}

	var clinic models.Clinic
	if err := h.db.First(&clinic, clinicID).Error; err != nil {
		httperr.Internal(c, "clinic_not_found", "Clínica não encontrada.")
		return
	}

	date, err := parseDateInClinic(&clinic, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	out, err := h.listByDateUC.Execute(
		c.Request.Context(),
		professionalID,
		clinicID,
		date,
	)
	if err != nil {
		mapEngineError(c, err)
		return
	}

	c.JSON(200, out)
}

// ======================================================
// LIST BY MONTH
// ======================================================

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextUserID).(uint)
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	yearStr := c.Query("year")
	monthStr := c.Query("month")

	if yearStr == "" || monthStr == "" {
		httperr.BadRequest(c, "missing_year_or_month", "Ano e mês são obrigatórios.")
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Ano inválido.")
		return
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Mês inválido.")
		return
	}

	out, err := h.listByMonthUC.Execute(
		c.Request.Context(),
		professionalID,
		clinicID,
		year,
		month,
	)
	if err != nil {
		mapEngineError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"year":         year,
		"month":        month,
		"appointments": out,
	})
}
