package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/VetAgendaServices01/vet-scheduler/internal/httperr"
	"github.com/VetAgendaServices01/vet-scheduler/internal/models"
	ucSchedule "github.com/VetAgendaServices01/vet-scheduler/internal/usecase/schedule"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	db         *gorm.DB
	listFreeUC *ucSchedule.ListFreeSlots
	bookUC     *ucSchedule.BookSlot
}

func NewPublicHandler(
	db *gorm.DB,
	listFreeUC *ucSchedule.ListFreeSlots,
	bookUC *ucSchedule.BookSlot,
) *PublicHandler {
	return &PublicHandler{
		db:         db,
		listFreeUC: listFreeUC,
		bookUC:     bookUC,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicBookRequest struct {
	SlotID      string `json:"slot_id" binding:"required"`
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ClientEmail string `json:"client_email"`
	PetName     string `json:"pet_name" binding:"required"`
	PetSpecies  string `json:"pet_species"`
	Reason      string `json:"reason"`
}

////////////////////////////////////////////////////////
// HELPERS
////////////////////////////////////////////////////////

func (h *PublicHandler) resolveClinic(c *gin.Context) (*models.Clinic, bool) {
	slug := c.Param("slug")

	var clinic models.Clinic
	if err := h.db.Where("slug = ?", slug).First(&clinic).Error; err != nil {
		httperr.NotFound(c, "clinic_not_found", "Clínica não encontrada.")
		return nil, false
	}

	return &clinic, true
}

func (h *PublicHandler) resolveProfessional(
	c *gin.Context,
	clinic *models.Clinic,
) (*models.User, bool) {

	if idStr := c.Query("professional_id"); idStr != "" {
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_professional_id", "Profissional inválido.")
			return nil, false
		}

		var vet models.User
		if err := h.db.
			Where("id = ? AND clinic_id = ?", id, clinic.ID).
			First(&vet).Error; err != nil {

			httperr.NotFound(c, "professional_not_found", "Profissional não encontrado.")
			return nil, false
		}
		return &vet, true
	}

	var vet models.User
	if err := h.db.
		Where("clinic_id = ?", clinic.ID).
		Order("id ASC").
		First(&vet).Error; err != nil {

		httperr.NotFound(c, "professional_not_found", "Profissional não encontrado.")
		return nil, false
	}

	return &vet, true
}

////////////////////////////////////////////////////////
// FREE SLOTS (UI PÚBLICA DE RESERVA)
////////////////////////////////////////////////////////

func (h *PublicHandler) ListFreeSlots(c *gin.Context) {
	clinic, ok := h.resolveClinic(c)
	if !ok {
		return
	}

	vet, ok := h.resolveProfessional(c, clinic)
	if !ok {
		return
	}

	var from *time.Time
	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := parseDateInClinic(clinic, fromStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inválida.")
			return
		}
		from = &parsed
	} else {
		now := nowInClinic(clinic)
		from = &now
	}

	slots, err := h.listFreeUC.Execute(c.Request.Context(), vet.ID, from)
	if err != nil {
		mapEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"clinic":       clinic,
		"professional": gin.H{"id": vet.ID, "name": vet.Name, "crmv": vet.CRMV},
		"slots":        slots,
		"total":        len(slots),
	})
}

////////////////////////////////////////////////////////
// BOOK (PÚBLICO → REUSA O MESMO USE CASE DO STAFF)
////////////////////////////////////////////////////////

func (h *PublicHandler) Book(c *gin.Context) {
	clinic, ok := h.resolveClinic(c)
	if !ok {
		return
	}

	var req PublicBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	slotID, err := uuid.Parse(req.SlotID)
	if err != nil {
		httperr.BadRequest(c, "invalid_slot_id", "Horário inválido.")
		return
	}

	ap, err := h.bookUC.Execute(
		c.Request.Context(),
		ucSchedule.BookSlotInput{
			ClinicID:    clinic.ID,
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

	c.JSON(http.StatusCreated, ap)
}
