package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/VetAgendaServices01/vet-scheduler/internal/audit"
	domain "github.com/VetAgendaServices01/vet-scheduler/internal/domain/scheduling"
	"github.com/VetAgendaServices01/vet-scheduler/internal/httperr"
	"github.com/VetAgendaServices01/vet-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type MaterializeSlotsInput struct {
	ClinicID       uint
	ProfessionalID uint

	Start time.Time
	End   time.Time
}

// ======================================================
// USE CASE
// ======================================================

type MaterializeSlots struct {
	repo         domain.Repository
	audit        *audit.Dispatcher
	slotDuration time.Duration
}

func NewMaterializeSlots(
	repo domain.Repository,
	audit *audit.Dispatcher,
	slotDuration time.Duration,
) *MaterializeSlots {
	return &MaterializeSlots{
		repo:         repo,
		audit:        audit,
		slotDuration: slotDuration,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute divide [start, end) em slots atômicos de duração fixa e
// persiste os que ainda não existem. Sobra menor que um slot inteiro é
// descartada, nunca preenchida. Reenvio de faixa sobreposta é
// idempotente: o contrato observável é "a faixa pedida está coberta por
// slots livres, sem duplicatas".
func (uc *MaterializeSlots) Execute(
	ctx context.Context,
	in MaterializeSlotsInput,
) ([]models.Slot, error) {

	prof, err := uc.repo.GetProfessionalByID(ctx, in.ProfessionalID)
	if err != nil {
		return nil, err
	}
	if prof == nil || prof.ClinicID != in.ClinicID {
		return nil, httperr.ErrBusiness(domain.CodeNotFound)
	}

	if !in.Start.Before(in.End) {
		return nil, httperr.ErrBusiness(domain.CodeInvalidRange)
	}

	err = uc.repo.InTx(ctx, func(tx domain.Repository) error {
		for cur := in.Start; !cur.Add(uc.slotDuration).After(in.End); cur = cur.Add(uc.slotDuration) {
			slot := &models.Slot{
				ID:             uuid.New(),
				ProfessionalID: in.ProfessionalID,
				StartTime:      cur,
				EndTime:        cur.Add(uc.slotDuration),
			}

			if err := tx.EnsureSlot(ctx, slot); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slots, err := uc.repo.ListSlotsInRange(ctx, in.ProfessionalID, in.Start, in.End)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ClinicID: in.ClinicID,
		UserID:   &in.ProfessionalID,
		Action:   "slots_materialized",
		Entity:   "slot",
		Metadata: map[string]any{
			"start": in.Start,
			"end":   in.End,
			"count": len(slots),
		},
	})

	return slots, nil
}
