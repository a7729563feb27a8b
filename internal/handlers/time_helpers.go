package handlers

import (
	"time"

	"github.com/VetAgendaServices01/vet-scheduler/internal/models"
	"github.com/VetAgendaServices01/vet-scheduler/internal/timezone"
)

// --------------------------------------------------
// Timezone centralizado por clínica
// --------------------------------------------------

func locationFromClinic(clinic *models.Clinic) *time.Location {
	return timezone.Location(clinic.Timezone)
}

func nowInClinic(clinic *models.Clinic) time.Time {
	return timezone.NowIn(clinic.Timezone)
}

// resolveLocalDateTime converte a leitura de relógio de parede enviada
// pela UI em instante absoluto pelas regras da zona da clínica.
// Propaga timezone.ErrAmbiguousOrInvalidLocalTime para horários que não
// existem na data (buraco do horário de verão).
func resolveLocalDateTime(
	clinic *models.Clinic,
	dateStr string,
	timeStr string,
) (time.Time, error) {

	lt, err := timezone.ParseLocal(dateStr, timeStr)
	if err != nil {
		return time.Time{}, err
	}

	return timezone.ToAbsolute(lt, locationFromClinic(clinic))
}

func parseDateInClinic(clinic *models.Clinic, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		locationFromClinic(clinic),
	)
}
