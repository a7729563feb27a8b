package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saoPaulo(t *testing.T) *time.Location {
	t.Helper()

	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	return loc
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("America/Sao_Paulo"))
	assert.True(t, IsValid("America/Manaus"))
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("America/Nowhere"))
}

func TestLocationFallsBackToDefault(t *testing.T) {
	loc := Location("not-a-zone")
	assert.Equal(t, DefaultTimezone, loc.String())
}

func TestParseLocal(t *testing.T) {
	lt, err := ParseLocal("2025-06-10", "14:30")
	require.NoError(t, err)

	assert.Equal(t, 2025, lt.Year)
	assert.Equal(t, time.June, lt.Month)
	assert.Equal(t, 10, lt.Day)
	assert.Equal(t, 14, lt.Hour)
	assert.Equal(t, 30, lt.Minute)

	_, err = ParseLocal("10/06/2025", "14:30")
	assert.Error(t, err)
}

func TestToAbsoluteRoundTrip(t *testing.T) {
	loc := saoPaulo(t)

	lt := LocalTime{Year: 2025, Month: time.June, Day: 10, Hour: 14, Minute: 30}

	abs, err := ToAbsolute(lt, loc)
	require.NoError(t, err)

	assert.Equal(t, lt, ToLocal(abs, loc))
}

// O offset da zona não é constante: em dezembro de 2018 São Paulo
// estava em horário de verão (-02), em junho de 2019 não (-03).
// Recodificar por campos tem que respeitar a regra vigente na data.
func TestToAbsoluteUsesHistoricalOffset(t *testing.T) {
	loc := saoPaulo(t)

	summer, err := ToAbsolute(LocalTime{Year: 2018, Month: time.December, Day: 15, Hour: 10}, loc)
	require.NoError(t, err)

	winter, err := ToAbsolute(LocalTime{Year: 2019, Month: time.June, Day: 15, Hour: 10}, loc)
	require.NoError(t, err)

	_, summerOffset := summer.Zone()
	_, winterOffset := winter.Zone()

	assert.Equal(t, -2*3600, summerOffset)
	assert.Equal(t, -3*3600, winterOffset)
}

// Em 2018-11-04 os relógios de São Paulo pularam de 00:00 direto para
// 01:00. 00:30 daquele dia nunca aconteceu: tem que ser rejeitado, não
// empurrado silenciosamente para outro horário.
func TestToAbsoluteRejectsSpringForwardGap(t *testing.T) {
	loc := saoPaulo(t)

	_, err := ToAbsolute(LocalTime{Year: 2018, Month: time.November, Day: 4, Hour: 0, Minute: 30}, loc)
	assert.ErrorIs(t, err, ErrAmbiguousOrInvalidLocalTime)

	// bordas fora do buraco continuam válidas
	before, err := ToAbsolute(LocalTime{Year: 2018, Month: time.November, Day: 3, Hour: 23, Minute: 30}, loc)
	require.NoError(t, err)

	after, err := ToAbsolute(LocalTime{Year: 2018, Month: time.November, Day: 4, Hour: 1, Minute: 0}, loc)
	require.NoError(t, err)

	// 23:30 → 01:00 é meia hora real: o buraco engoliu a hora entre elas
	assert.Equal(t, 30*time.Minute, after.Sub(before))
}

// Em 2019-02-17 00:00 os relógios voltaram para 23:00 de 16/02: o
// relógio de parede 23:30 aconteceu duas vezes. A escolha é
// determinística — sempre o instante mais cedo (ainda em -02).
func TestToAbsoluteFallBackPicksEarlierInstant(t *testing.T) {
	loc := saoPaulo(t)

	abs, err := ToAbsolute(LocalTime{Year: 2019, Month: time.February, Day: 16, Hour: 23, Minute: 30}, loc)
	require.NoError(t, err)

	_, offset := abs.Zone()
	assert.Equal(t, -2*3600, offset)
	assert.Equal(t, time.Date(2019, time.February, 17, 1, 30, 0, 0, time.UTC), abs.UTC())

	// ida e volta preserva o relógio de parede mesmo na repetição
	lt := ToLocal(abs, loc)
	assert.Equal(t, 23, lt.Hour)
	assert.Equal(t, 30, lt.Minute)
}
