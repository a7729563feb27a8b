package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/VetAgendaServices01/vet-scheduler/internal/domain/scheduling"
	"github.com/VetAgendaServices01/vet-scheduler/internal/httperr"
	"github.com/VetAgendaServices01/vet-scheduler/internal/middleware"
	"github.com/VetAgendaServices01/vet-scheduler/internal/models"
	"github.com/VetAgendaServices01/vet-scheduler/internal/timezone"
	ucSchedule "github.com/VetAgendaServices01/vet-scheduler/internal/usecase/schedule"
)

// ======================================================
// HANDLER
// ======================================================

type ScheduleHandler struct {
	db            *gorm.DB
	materializeUC *ucSchedule.MaterializeSlots
	listFreeUC    *ucSchedule.ListFreeSlots
}

func NewScheduleHandler(
	db *gorm.DB,
	materializeUC *ucSchedule.MaterializeSlots,
	listFreeUC *ucSchedule.ListFreeSlots,
) *ScheduleHandler {
	return &ScheduleHandler{
		db:            db,
		materializeUC: materializeUC,
		listFreeUC:    listFreeUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type MaterializeRequest struct {
	Date      string `json:"date" binding:"required"`       // YYYY-MM-DD
	StartTime string `json:"start_time" binding:"required"` // HH:mm local da clínica
	EndTime   string `json:"end_time" binding:"required"`   // HH:mm local da clínica
}

// ======================================================
// MATERIALIZE
// ======================================================

func (h *ScheduleHandler) Materialize(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextUserID).(uint)
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	var clinic models.Clinic
	if err := h.db.First(&clinic, clinicID).Error; err != nil {
		httperr.Internal(c, "clinic_not_found", "Clínica não encontrada.")
		return
	}

	var req MaterializeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	start, err := resolveLocalDateTime(&clinic, req.Date, req.StartTime)
	if err != nil {
		if errors.Is(err, timezone.ErrAmbiguousOrInvalidLocalTime) {
			mapEngineError(c, httperr.ErrBusiness(domain.CodeInvalidLocalTime))
			return
		}
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
		return
	}

	end, err := resolveLocalDateTime(&clinic, req.Date, req.EndTime)
	if err != nil {
		if errors.Is(err, timezone.ErrAmbiguousOrInvalidLocalTime) {
			mapEngineError(c, httperr.ErrBusiness(domain.CodeInvalidLocalTime))
			return
		}
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
		return
	}

	slots, err := h.materializeUC.Execute(
		c.Request.Context(),
		ucSchedule.MaterializeSlotsInput{
			ClinicID:       clinicID,
			ProfessionalID: professionalID,
			Start:          start,
			End:            end,
		},
	)
	if err != nil {
		mapEngineError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"date":  req.Date,
		"slots": slots,
		"total": len(slots),
	})
}

// ======================================================
// LIST FREE (AGENDA DO PROFISSIONAL)
// ======================================================

func (h *ScheduleHandler) ListFree(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextUserID).(uint)
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	var clinic models.Clinic
	if err := h.db.First(&clinic, clinicID).Error; err != nil {
		httperr.Internal(c, "clinic_not_found", "Clínica não encontrada.")
		return
	}

	var from *time.Time
	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := parseDateInClinic(&clinic, fromStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inválida.")
			return
		}
		from = &parsed
	}

	slots, err := h.listFreeUC.Execute(c.Request.Context(), professionalID, from)
	if err != nil {
		mapEngineError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"slots": slots,
		"total": len(slots),
	})
}
