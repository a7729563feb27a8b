package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/VetAgendaServices01/vet-scheduler/internal/domain/scheduling"
	"github.com/VetAgendaServices01/vet-scheduler/internal/httperr"
	"github.com/VetAgendaServices01/vet-scheduler/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *ScheduleGormRepository) InTx(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ScheduleGormRepository{db: tx})
	})

	return translatePgError(err)
}

// translatePgError converte SQLSTATEs em códigos de negócio:
// 23505 → slot_conflict, serialização/deadlock/timeout → transient_failure.
func translatePgError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return httperr.ErrBusiness(domain.CodeSlotConflict)
		case "40001", "40P01", "55P03", "57014":
			return httperr.ErrBusiness(domain.CodeTransientFailure)
		}
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return httperr.ErrBusiness(domain.CodeSlotConflict)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return httperr.ErrBusiness(domain.CodeTransientFailure)
	}

	return err
}

// --------------------------------------------------
// Clinic / Professional
// --------------------------------------------------

func (r *ScheduleGormRepository) GetClinicByID(
	ctx context.Context,
	id uint,
) (*models.Clinic, error) {

	var clinic models.Clinic
	if err := r.db.WithContext(ctx).First(&clinic, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &clinic, nil
}

func (r *ScheduleGormRepository) GetClinicBySlug(
	ctx context.Context,
	slug string,
) (*models.Clinic, error) {

	var clinic models.Clinic
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&clinic).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &clinic, nil
}

func (r *ScheduleGormRepository) GetProfessionalByID(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// --------------------------------------------------
// Client / Pet
// --------------------------------------------------

func (r *ScheduleGormRepository) GetOrCreateClient(
	ctx context.Context,
	clinicID uint,
	name string,
	phone string,
	email string,
) (*models.Client, error) {

	var client models.Client
	err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND phone = ?", clinicID, phone).
		First(&client).Error

	if err == nil {
		return &client, nil
	}

	client = models.Client{
		ClinicID: clinicID,
		Name:     name,
		Phone:    phone,
		Email:    email,
	}

	if err := r.db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, err
	}

	return &client, nil
}

func (r *ScheduleGormRepository) GetOrCreatePet(
	ctx context.Context,
	clientID uint,
	name string,
	species string,
) (*models.Pet, error) {

	var pet models.Pet
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND LOWER(name) = LOWER(?)", clientID, name).
		First(&pet).Error

	if err == nil {
		return &pet, nil
	}

	pet = models.Pet{
		ClientID: clientID,
		Name:     name,
		Species:  species,
	}

	if err := r.db.WithContext(ctx).Create(&pet).Error; err != nil {
		return nil, err
	}

	return &pet, nil
}

// --------------------------------------------------
// Slot store
// --------------------------------------------------

func (r *ScheduleGormRepository) CreateSlot(
	ctx context.Context,
	slot *models.Slot,
) error {

	if err := r.db.WithContext(ctx).Create(slot).Error; err != nil {
		return translatePgError(err)
	}
	return nil
}

func (r *ScheduleGormRepository) EnsureSlot(
	ctx context.Context,
	slot *models.Slot,
) error {

	// Chave (professional, start, end) duplicada é no-op: a
	// materialização e a restauração pós-cancelamento são idempotentes.
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(slot).Error
}

func (r *ScheduleGormRepository) GetSlotByID(
	ctx context.Context,
	id uuid.UUID,
) (*models.Slot, error) {

	var slot models.Slot
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&slot).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

func (r *ScheduleGormRepository) GetSlotByIDForUpdate(
	ctx context.Context,
	id uuid.UUID,
) (*models.Slot, error) {

	var slot models.Slot
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&slot).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

func (r *ScheduleGormRepository) GetSlotByKey(
	ctx context.Context,
	professionalID uint,
	start time.Time,
	end time.Time,
) (*models.Slot, error) {

	var slot models.Slot
	if err := r.db.WithContext(ctx).
		Where(
			"professional_id = ? AND start_time = ? AND end_time = ?",
			professionalID, start, end,
		).
		First(&slot).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

func (r *ScheduleGormRepository) DeleteSlotByID(
	ctx context.Context,
	id uuid.UUID,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Slot{})

	if res.Error != nil {
		return false, translatePgError(res.Error)
	}

	return res.RowsAffected > 0, nil
}

func (r *ScheduleGormRepository) ListFreeSlots(
	ctx context.Context,
	professionalID uint,
	from *time.Time,
) ([]models.Slot, error) {

	q := r.db.WithContext(ctx).
		Where("professional_id = ?", professionalID)

	if from != nil {
		q = q.Where("start_time >= ?", *from)
	}

	var slots []models.Slot
	if err := q.
		Order("start_time ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}

	return slots, nil
}

func (r *ScheduleGormRepository) ListSlotsInRange(
	ctx context.Context,
	professionalID uint,
	start time.Time,
	end time.Time,
) ([]models.Slot, error) {

	var slots []models.Slot
	if err := r.db.WithContext(ctx).
		Where(
			"professional_id = ? AND start_time >= ? AND start_time < ?",
			professionalID, start, end,
		).
		Order("start_time ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}

	return slots, nil
}

func (r *ScheduleGormRepository) DeleteExpiredSlots(
	ctx context.Context,
	now time.Time,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Where("end_time <= ?", now).
		Delete(&models.Slot{})

	if res.Error != nil {
		return 0, translatePgError(res.Error)
	}

	return res.RowsAffected, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *ScheduleGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

func (r *ScheduleGormRepository) GetAppointmentForProfessional(
	ctx context.Context,
	appointmentID uint,
	professionalID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND professional_id = ?", appointmentID, professionalID).
		First(&ap).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &ap, nil
}

func (r *ScheduleGormRepository) MarkCancelled(
	ctx context.Context,
	appointmentID uint,
	now time.Time,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status = ?", appointmentID, string(domain.StatusScheduled)).
		Updates(map[string]any{
			"status":       string(domain.StatusCancelled),
			"cancelled_at": now,
		})

	if res.Error != nil {
		return false, translatePgError(res.Error)
	}

	return res.RowsAffected > 0, nil
}

func (r *ScheduleGormRepository) MarkCompleted(
	ctx context.Context,
	appointmentID uint,
	now time.Time,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status = ?", appointmentID, string(domain.StatusScheduled)).
		Updates(map[string]any{
			"status":       string(domain.StatusCompleted),
			"completed_at": now,
		})

	if res.Error != nil {
		return false, translatePgError(res.Error)
	}

	return res.RowsAffected > 0, nil
}

func (r *ScheduleGormRepository) UpdateAppointmentTimes(
	ctx context.Context,
	appointmentID uint,
	start time.Time,
	end time.Time,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status = ?", appointmentID, string(domain.StatusScheduled)).
		Updates(map[string]any{
			"start_time": start,
			"end_time":   end,
		})

	if res.Error != nil {
		return false, translatePgError(res.Error)
	}

	return res.RowsAffected > 0, nil
}

func (r *ScheduleGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	professionalID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment

	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Pet").
		Where(
			"professional_id = ? AND start_time >= ? AND start_time < ?",
			professionalID,
			start,
			end,
		).
		Order("start_time ASC").
		Find(&apps).Error

	if err != nil {
		return nil, err
	}

	return apps, nil
}

// Compile-time check
var _ domain.Repository = (*ScheduleGormRepository)(nil)
