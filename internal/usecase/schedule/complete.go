package schedule

import (
	"context"

	"github.com/VetAgendaServices01/vet-scheduler/internal/audit"
	domain "github.com/VetAgendaServices01/vet-scheduler/internal/domain/scheduling"
	"github.com/VetAgendaServices01/vet-scheduler/internal/httperr"
	"github.com/VetAgendaServices01/vet-scheduler/internal/models"
	"github.com/VetAgendaServices01/vet-scheduler/internal/timezone"
)

type CompleteAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCompleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	clinicID uint,
	professionalID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	clinic, err := uc.repo.GetClinicByID(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	if clinic == nil {
		return nil, httperr.ErrBusiness(domain.CodeNotFound)
	}

	ap, err := uc.repo.GetAppointmentForProfessional(ctx, appointmentID, professionalID)
	if err != nil {
		return nil, err
	}
	if ap == nil {
		return nil, httperr.ErrBusiness(domain.CodeNotFound)
	}

	if err := domain.CanComplete(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	now := timezone.NowIn(clinic.Timezone)

	ok, err := uc.repo.MarkCompleted(ctx, ap.ID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, httperr.ErrBusiness(domain.CodeInvalidState)
	}

	_ = domain.Complete(ap, now)

	uc.audit.Dispatch(audit.Event{
		ClinicID: clinicID,
		UserID:   &professionalID,
		Action:   "booking_completed",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
