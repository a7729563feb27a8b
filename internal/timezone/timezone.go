package timezone

import (
	"errors"
	"time"
)

const DefaultTimezone = "America/Sao_Paulo"

// ErrAmbiguousOrInvalidLocalTime indica um horário de parede que não
// existe na zona (buraco do horário de verão). Nunca escolhemos um
// instante "parecido" em silêncio.
var ErrAmbiguousOrInvalidLocalTime = errors.New("local time does not exist in this timezone")

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, _ := time.LoadLocation(DefaultTimezone)
	return loc
}

func Now() time.Time {
	return time.Now().In(Location(DefaultTimezone))
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// LocalTime é uma leitura "ingênua" de relógio de parede, sem zona.
type LocalTime struct {
	Year   int
	Month  time.Month
	Day    int
	Hour   int
	Minute int
	Second int
}

// ParseLocal interpreta "2006-01-02" + "15:04" como campos de calendário,
// ainda sem amarrar a nenhuma zona.
func ParseLocal(dateStr, timeStr string) (LocalTime, error) {
	t, err := time.Parse("2006-01-02 15:04", dateStr+" "+timeStr)
	if err != nil {
		return LocalTime{}, err
	}

	return LocalTime{
		Year:   t.Year(),
		Month:  t.Month(),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
	}, nil
}

// ToAbsolute recodifica os campos de calendário como instante absoluto
// usando as regras da zona para aquela data exata. Nunca soma offset
// fixo: o offset histórico da zona não é constante.
//
// Buraco de "spring forward" → ErrAmbiguousOrInvalidLocalTime.
// Repetição de "fall back" → deterministicamente o instante mais cedo.
func ToAbsolute(lt LocalTime, loc *time.Location) (time.Time, error) {
	t := time.Date(lt.Year, lt.Month, lt.Day, lt.Hour, lt.Minute, lt.Second, 0, loc)

	// time.Date normaliza horários inexistentes para fora do buraco;
	// se os campos mudaram, o horário de parede nunca aconteceu.
	if !sameWallClock(t, lt) {
		return time.Time{}, ErrAmbiguousOrInvalidLocalTime
	}

	// Na repetição o mesmo relógio de parede mapeia para dois instantes.
	// Todas as transições históricas da zona de referência são de 1h;
	// se existir um instante 1h mais cedo com o mesmo relógio, ele vence.
	if earlier := t.Add(-time.Hour); sameWallClock(earlier, lt) {
		return earlier, nil
	}

	return t, nil
}

// ToLocal decompõe um instante absoluto de volta em campos de calendário
// na zona dada. Lei de ida e volta: ToLocal(ToAbsolute(lt)) == lt para
// todo lt válido.
func ToLocal(t time.Time, loc *time.Location) LocalTime {
	t = t.In(loc)

	return LocalTime{
		Year:   t.Year(),
		Month:  t.Month(),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
	}
}

func sameWallClock(t time.Time, lt LocalTime) bool {
	return t.Year() == lt.Year &&
		t.Month() == lt.Month &&
		t.Day() == lt.Day &&
		t.Hour() == lt.Hour &&
		t.Minute() == lt.Minute &&
		t.Second() == lt.Second
}
