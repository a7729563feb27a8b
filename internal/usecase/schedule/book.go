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

// ======================================================
// INPUT
// ======================================================

type BookSlotInput struct {
	ClinicID uint
	SlotID   uuid.UUID

	ClientName  string
	ClientPhone string
	ClientEmail string

	PetName    string
	PetSpecies string

	Reason string
}

// ======================================================
// USE CASE
// ======================================================

type BookSlot struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	notify *notify.Dispatcher
}

func NewBookSlot(
	repo domain.Repository,
	audit *audit.Dispatcher,
	notify *notify.Dispatcher,
) *BookSlot {
	return &BookSlot{
		repo:   repo,
		audit:  audit,
		notify: notify,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute consome o slot e cria o agendamento em UMA transação.
// A existência da linha do slot é o mutex: reler com lock, apagar
// condicionalmente e inserir o agendamento garante no máximo uma
// reserva por slot sob qualquer número de chamadores concorrentes.
// Slot ausente → slot_unavailable (alguém levou antes — resultado
// esperado da corrida, não é bug).
func (uc *BookSlot) Execute(
	ctx context.Context,
	in BookSlotInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Clínica
	// --------------------------------------------------
	clinic, err := uc.repo.GetClinicByID(ctx, in.ClinicID)
	if err != nil {
		return nil, err
	}
	if clinic == nil {
		return nil, httperr.ErrBusiness(domain.CodeNotFound)
	}

	// --------------------------------------------------
	// 2️⃣ Tutor + pet (get or create)
	// --------------------------------------------------
	client, err := uc.repo.GetOrCreateClient(
		ctx,
		in.ClinicID,
		in.ClientName,
		in.ClientPhone,
		in.ClientEmail,
	)
	if err != nil {
		return nil, err
	}

	pet, err := uc.repo.GetOrCreatePet(ctx, client.ID, in.PetName, in.PetSpecies)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3️⃣ Transação: reler slot → apagar → criar agendamento
	// --------------------------------------------------
	var created models.Appointment

	err = retryOnceOnTransient(func() error {
		return uc.repo.InTx(ctx, func(tx domain.Repository) error {

			slot, err := tx.GetSlotByIDForUpdate(ctx, in.SlotID)
			if err != nil {
				return err
			}
			if slot == nil {
				return httperr.ErrBusiness(domain.CodeSlotUnavailable)
			}

			// slot de profissional de outra clínica nunca é visível aqui
			prof, err := tx.GetProfessionalByID(ctx, slot.ProfessionalID)
			if err != nil {
				return err
			}
			if prof == nil || prof.ClinicID != in.ClinicID {
				return httperr.ErrBusiness(domain.CodeNotFound)
			}

			deleted, err := tx.DeleteSlotByID(ctx, slot.ID)
			if err != nil {
				return err
			}
			if !deleted {
				return httperr.ErrBusiness(domain.CodeSlotUnavailable)
			}

			ap := models.Appointment{
				ClinicID:       in.ClinicID,
				ProfessionalID: slot.ProfessionalID,
				ClientID:       client.ID,
				PetID:          pet.ID,
				StartTime:      slot.StartTime,
				EndTime:        slot.EndTime,
				Status:         string(domain.InitialStatus()),
				Reason:         in.Reason,
			}

			if err := tx.CreateAppointment(ctx, &ap); err != nil {
				return err
			}

			created = ap
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4️⃣ Auditoria + callback (só depois do commit)
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		ClinicID: in.ClinicID,
		UserID:   &created.ProfessionalID,
		Action:   "booking_created",
		Entity:   "appointment",
		EntityID: &created.ID,
	})

	uc.notify.Dispatch(notify.Event{
		Type:        notify.EventBookingCreated,
		Appointment: &created,
	})

	return &created, nil
}
