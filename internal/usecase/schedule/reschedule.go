package schedule

import (
	"context"

	"github.com/google/uuid"

	"github.com/VetAgendaServices01/vet-scheduler/internal/audit"
	domain "github.com/VetAgendaServices01/vet-scheduler/internal/domain/scheduling"
	"github.com/VetAgendaServices01/vet-scheduler/internal/httperr"
	"github.com/VetAgendaServices01/vet-scheduler/internal/models"
	"github.com/VetAgendaServices01/vet-scheduler/internal/notify"
)

type RescheduleAppointment struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	notify *notify.Dispatcher
}

func NewRescheduleAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	notify *notify.Dispatcher,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		repo:   repo,
		audit:  audit,
		notify: notify,
	}
}

// Execute move o agendamento para outro slot em UMA transação:
// consome o slot novo, devolve o antigo e atualiza a MESMA linha do
// agendamento. Se o slot novo já foi levado, tudo reverte — o horário
// original fica intacto, sem reserva perdida e sem duplicata.
//
// A duração do slot é fixa no sistema inteiro; remarcar muda só o
// horário, nunca a duração.
func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	clinicID uint,
	professionalID uint,
	appointmentID uint,
	newSlotID uuid.UUID,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentForProfessional(ctx, appointmentID, professionalID)
	if err != nil {
		return nil, err
	}
	if ap == nil {
		return nil, httperr.ErrBusiness(domain.CodeNotFound)
	}

	if err := domain.CanReschedule(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	oldAp := *ap

	var newStart, newEnd = ap.StartTime, ap.EndTime

	err = retryOnceOnTransient(func() error {
		return uc.repo.InTx(ctx, func(tx domain.Repository) error {

			newSlot, err := tx.GetSlotByIDForUpdate(ctx, newSlotID)
			if err != nil {
				return err
			}
			if newSlot == nil {
				return httperr.ErrBusiness(domain.CodeSlotUnavailable)
			}
			if newSlot.ProfessionalID != ap.ProfessionalID {
				// slot de outro profissional nunca é visível aqui
				return httperr.ErrBusiness(domain.CodeNotFound)
			}

			deleted, err := tx.DeleteSlotByID(ctx, newSlot.ID)
			if err != nil {
				return err
			}
			if !deleted {
				return httperr.ErrBusiness(domain.CodeSlotUnavailable)
			}

			ok, err := tx.UpdateAppointmentTimes(ctx, ap.ID, newSlot.StartTime, newSlot.EndTime)
			if err != nil {
				return err
			}
			if !ok {
				return httperr.ErrBusiness(domain.CodeInvalidState)
			}

			newStart, newEnd = newSlot.StartTime, newSlot.EndTime

			// devolve o horário antigo; chave duplicada é no-op
			return tx.EnsureSlot(ctx, &models.Slot{
				ID:             uuid.New(),
				ProfessionalID: ap.ProfessionalID,
				StartTime:      oldAp.StartTime,
				EndTime:        oldAp.EndTime,
			})
		})
	})
	if err != nil {
		return nil, err
	}

	_ = domain.Reschedule(ap, newStart, newEnd)

	uc.audit.Dispatch(audit.Event{
		ClinicID: clinicID,
		UserID:   &professionalID,
		Action:   "booking_rescheduled",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"old_start": oldAp.StartTime,
			"new_start": newStart,
		},
	})

	uc.notify.Dispatch(notify.Event{
		Type:           notify.EventBookingRescheduled,
		Appointment:    ap,
		OldAppointment: &oldAp,
	})

	return ap, nil
}
