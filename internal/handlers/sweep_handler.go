package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/VetAgendaServices01/vet-scheduler/internal/httperr"
	ucSchedule "github.com/VetAgendaServices01/vet-scheduler/internal/usecase/schedule"
)

// SweepHandler expõe o gatilho externo (cron) da varredura de slots
// vencidos. Idempotente: pode ser chamado em qualquer cadência.
type SweepHandler struct {
	sweepUC *ucSchedule.SweepExpiredSlots
}

func NewSweepHandler(sweepUC *ucSchedule.SweepExpiredSlots) *SweepHandler {
	return &SweepHandler{sweepUC: sweepUC}
}

type SweepRequest struct {
	Now string `json:"now"` // RFC3339, opcional
}

func (h *SweepHandler) Sweep(c *gin.Context) {
	var req SweepRequest
	_ = c.ShouldBindJSON(&req)

	var now *time.Time
	if req.Now != "" {
		parsed, err := time.Parse(time.RFC3339, req.Now)
		if err != nil {
			httperr.BadRequest(c, "invalid_now", "Instante inválido.")
			return
		}
		now = &parsed
	}

	deleted, err := h.sweepUC.Execute(c.Request.Context(), now)
	if err != nil {
		mapEngineError(c, err)
		return
	}

	c.JSON(200, gin.H{"deleted": deleted})
}
