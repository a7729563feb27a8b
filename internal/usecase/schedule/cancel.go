package schedule

import (
	"context"

	"github.com/google/uuid"

	"github.com/VetAgendaServices01/vet-scheduler/internal/audit"
	domain "github.com/VetAgendaServices01/vet-scheduler/internal/domain/scheduling"
	"github.com/VetAgendaServices01/vet-scheduler/internal/httperr"
	"github.com/VetAgendaServices01/vet-scheduler/internal/models"
	"github.com/VetAgendaServices01/vet-scheduler/internal/notify"
	"github.com/VetAgendaServices01/vet-scheduler/internal/timezone"
)

type CancelAppointment struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	notify *notify.Dispatcher
}

func NewCancelAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	notify *notify.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{
		repo:   repo,
		audit:  audit,
		notify: notify,
	}
}

// Execute cancela o agendamento e devolve o horário à agenda na mesma
// transação. A restauração é idempotente: se a chave
// (professional, start, end) já foi rematerializada por outro caminho,
// não duplicamos nada.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	clinicID uint,
	professionalID uint,
	appointmentID uint,
) (*models.Appointment, *models.Slot, error) {

	clinic, err := uc.repo.GetClinicByID(ctx, clinicID)
	if err != nil {
		return nil, nil, err
	}
	if clinic == nil {
		return nil, nil, httperr.ErrBusiness(domain.CodeNotFound)
	}

	ap, err := uc.repo.GetAppointmentForProfessional(ctx, appointmentID, professionalID)
	if err != nil {
		return nil, nil, err
	}
	if ap == nil {
		return nil, nil, httperr.ErrBusiness(domain.CodeNotFound)
	}

	if err := domain.CanCancel(domain.Status(ap.Status)); err != nil {
		return nil, nil, err
	}

	now := timezone.NowIn(clinic.Timezone)

	err = uc.repo.InTx(ctx, func(tx domain.Repository) error {
		ok, err := tx.MarkCancelled(ctx, ap.ID, now)
		if err != nil {
			return err
		}
		if !ok {
			// outro chamador mudou o status entre a leitura e agora
			return httperr.ErrBusiness(domain.CodeInvalidState)
		}

		return tx.EnsureSlot(ctx, &models.Slot{
			ID:             uuid.New(),
			ProfessionalID: ap.ProfessionalID,
			StartTime:      ap.StartTime,
			EndTime:        ap.EndTime,
		})
	})
	if err != nil {
		return nil, nil, err
	}

	restored, err := uc.repo.GetSlotByKey(ctx, ap.ProfessionalID, ap.StartTime, ap.EndTime)
	if err != nil {
		return nil, nil, err
	}

	_ = domain.Cancel(ap, now)

	uc.audit.Dispatch(audit.Event{
		ClinicID: clinicID,
		UserID:   &professionalID,
		Action:   "booking_cancelled",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	uc.notify.Dispatch(notify.Event{
		Type:        notify.EventBookingCancelled,
		Appointment: ap,
	})

	return ap, restored, nil
}
