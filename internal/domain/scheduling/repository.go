package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/VetAgendaServices01/vet-scheduler/internal/models"
)

type Repository interface {
	// InTx executa fn dentro de uma única transação; o Repository
	// recebido por fn opera no handle transacional. Slot e Appointment
	// precisam ser mutáveis na MESMA transação — é o requisito que
	// sustenta a garantia de "no máximo uma reserva por slot".
	InTx(ctx context.Context, fn func(Repository) error) error

	// -------- Clinic / Professional --------
	GetClinicByID(
		ctx context.Context,
		id uint,
	) (*models.Clinic, error)

	GetClinicBySlug(
		ctx context.Context,
		slug string,
	) (*models.Clinic, error)

	GetProfessionalByID(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	// -------- Client / Pet --------
	GetOrCreateClient(
		ctx context.Context,
		clinicID uint,
		name string,
		phone string,
		email string,
	) (*models.Client, error)

	GetOrCreatePet(
		ctx context.Context,
		clientID uint,
		name string,
		species string,
	) (*models.Pet, error)

	// -------- Slot store --------
	CreateSlot(
		ctx context.Context,
		slot *models.Slot,
	) error // slot_conflict se a chave (professional, start, end) já existe

	EnsureSlot(
		ctx context.Context,
		slot *models.Slot,
	) error // idempotente: chave duplicada é no-op

	GetSlotByID(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Slot, error)

	GetSlotByIDForUpdate(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Slot, error)

	GetSlotByKey(
		ctx context.Context,
		professionalID uint,
		start time.Time,
		end time.Time,
	) (*models.Slot, error)

	DeleteSlotByID(
		ctx context.Context,
		id uuid.UUID,
	) (bool, error) // false se já não existia; nunca erro por ausência

	ListFreeSlots(
		ctx context.Context,
		professionalID uint,
		from *time.Time,
	) ([]models.Slot, error)

	ListSlotsInRange(
		ctx context.Context,
		professionalID uint,
		start time.Time,
		end time.Time,
	) ([]models.Slot, error)

	DeleteExpiredSlots(
		ctx context.Context,
		now time.Time,
	) (int64, error)

	// -------- Appointment --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	GetAppointmentForProfessional(
		ctx context.Context,
		appointmentID uint,
		professionalID uint,
	) (*models.Appointment, error)

	MarkCancelled(
		ctx context.Context,
		appointmentID uint,
		now time.Time,
	) (bool, error) // condicional em status='scheduled'

	MarkCompleted(
		ctx context.Context,
		appointmentID uint,
		now time.Time,
	) (bool, error)

	UpdateAppointmentTimes(
		ctx context.Context,
		appointmentID uint,
		start time.Time,
		end time.Time,
	) (bool, error)

	ListAppointmentsForPeriod(
		ctx context.Context,
		professionalID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)
}
