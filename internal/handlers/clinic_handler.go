package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/VetAgendaServices01/vet-scheduler/internal/httperr"
	"github.com/VetAgendaServices01/vet-scheduler/internal/middleware"
	"github.com/VetAgendaServices01/vet-scheduler/internal/models"
	"github.com/VetAgendaServices01/vet-scheduler/internal/timezone"
)

type ClinicHandler struct {
	db *gorm.DB
}

func NewClinicHandler(db *gorm.DB) *ClinicHandler {
	return &ClinicHandler{db: db}
}

type UpdateClinicRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	Timezone *string `json:"timezone"`
}

func (h *ClinicHandler) GetMeClinic(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	var clinic models.Clinic
	if err := h.db.First(&clinic, clinicID).Error; err != nil {
		httperr.Internal(c, "clinic_not_found", "Clínica não encontrada.")
		return
	}

	c.JSON(http.StatusOK, clinic)
}

func (h *ClinicHandler) UpdateMeClinic(c *gin.Context) {
	clinicID := c.MustGet(middleware.ContextClinicID).(uint)

	var clinic models.Clinic
	if err := h.db.First(&clinic, clinicID).Error; err != nil {
		httperr.Internal(c, "clinic_not_found", "Clínica não encontrada.")
		return
	}

	var req UpdateClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if req.Name != nil {
		clinic.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		clinic.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		clinic.Address = strings.TrimSpace(*req.Address)
	}
	if req.Timezone != nil {
		tz := strings.TrimSpace(*req.Timezone)

		// zona inválida é erro de configuração do profissional —
		// rejeitada aqui, nunca mostrada ao cliente final
		if !timezone.IsValid(tz) {
			httperr.BadRequest(c, "invalid_timezone", "Timezone inválido.")
			return
		}
		clinic.Timezone = tz
	}

	if err := h.db.Save(&clinic).Error; err != nil {
		httperr.Internal(c, "failed_to_update_clinic", "Erro ao atualizar clínica.")
		return
	}

	c.JSON(http.StatusOK, clinic)
}
