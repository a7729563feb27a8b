package schedule

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/VetAgendaServices01/vet-scheduler/internal/domain/scheduling"
	"github.com/VetAgendaServices01/vet-scheduler/internal/httperr"
	"github.com/VetAgendaServices01/vet-scheduler/internal/models"
	"github.com/VetAgendaServices01/vet-scheduler/internal/notify"
)

func bookInput(slotID uuid.UUID) BookSlotInput {
	return BookSlotInput{
		ClinicID:    1,
		SlotID:      slotID,
		ClientName:  "Marina Souza",
		ClientPhone: "+55 11 99999-0001",
		ClientEmail: "marina@example.com",
		PetName:     "Thor",
		PetSpecies:  "dog",
		Reason:      "consulta de rotina",
	}
}

func TestBookConsumesSlotAndCreatesAppointment(t *testing.T) {
	env := newTestEnv()
	slot := mustSlot(t, env.repo, 1, day(9, 0), slotDuration)

	uc := NewBookSlot(env.repo, env.audit, env.notify)

	ap, err := uc.Execute(context.Background(), bookInput(slot.ID))
	require.NoError(t, err)

	// horário copiado do slot consumido
	assert.Equal(t, slot.StartTime, ap.StartTime)
	assert.Equal(t, slot.EndTime, ap.EndTime)
	assert.Equal(t, string(domain.StatusScheduled), ap.Status)
	assert.Equal(t, uint(1), ap.ProfessionalID)

	// o slot saiu da agenda
	gone, err := env.repo.GetSlotByID(context.Background(), slot.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	assert.Equal(t, 1, env.repo.appointmentCount())

	require.Eventually(t, func() bool {
		return env.sink.has("booking_created") && env.pub.has(notify.EventBookingCreated)
	}, time.Second, 10*time.Millisecond)
}

func TestBookMissingSlotIsUnavailable(t *testing.T) {
	env := newTestEnv()
	uc := NewBookSlot(env.repo, env.audit, env.notify)

	_, err := uc.Execute(context.Background(), bookInput(uuid.New()))
	assert.True(t, httperr.IsBusiness(err, domain.CodeSlotUnavailable))
	assert.Equal(t, 0, env.repo.appointmentCount())
}

func TestBookUnknownClinic(t *testing.T) {
	env := newTestEnv()
	slot := mustSlot(t, env.repo, 1, day(9, 0), slotDuration)

	uc := NewBookSlot(env.repo, env.audit, env.notify)

	in := bookInput(slot.ID)
	in.ClinicID = 99

	_, err := uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, domain.CodeNotFound))
}

func TestBookReusesClientByPhone(t *testing.T) {
	env := newTestEnv()
	slotA := mustSlot(t, env.repo, 1, day(9, 0), slotDuration)
	slotB := mustSlot(t, env.repo, 1, day(9, 30), slotDuration)

	uc := NewBookSlot(env.repo, env.audit, env.notify)

	first, err := uc.Execute(context.Background(), bookInput(slotA.ID))
	require.NoError(t, err)

	in := bookInput(slotB.ID)
	in.PetName = "thor" // mesmo pet, caixa diferente

	second, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, first.ClientID, second.ClientID)
	assert.Equal(t, first.PetID, second.PetID)
}

// Slot de um profissional de outra clínica não é reservável por esta:
// not_found, o slot fica intacto e nenhum agendamento cruzado nasce.
func TestBookSlotFromAnotherClinic(t *testing.T) {
	env := newTestEnv()

	env.repo.clinics[2] = models.Clinic{
		ID:       2,
		Name:     "Clínica Vet Norte",
		Slug:     "vet-norte",
		Timezone: "America/Sao_Paulo",
	}
	env.repo.users[3] = models.User{
		ID:       3,
		ClinicID: 2,
		Name:     "Dra. Beatriz",
		Role:     "vet",
	}

	foreign := mustSlot(t, env.repo, 3, day(9, 0), slotDuration)

	uc := NewBookSlot(env.repo, env.audit, env.notify)

	in := bookInput(foreign.ID)
	in.ClinicID = 1

	_, err := uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, domain.CodeNotFound))

	// o slot continua na agenda da outra clínica
	still, err := env.repo.GetSlotByID(context.Background(), foreign.ID)
	require.NoError(t, err)
	assert.NotNil(t, still)

	assert.Equal(t, 0, env.repo.appointmentCount())
}

// N chamadores disputando o mesmo slot: exatamente um ganha, o resto
// recebe slot_unavailable e nada fica duplicado.
func TestBookConcurrentCallersSingleWinner(t *testing.T) {
	env := newTestEnv()
	slot := mustSlot(t, env.repo, 1, day(9, 0), slotDuration)

	uc := NewBookSlot(env.repo, env.audit, env.notify)

	const callers = 16

	var wg sync.WaitGroup
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			in := bookInput(slot.ID)
			in.ClientPhone = in.ClientPhone + string(rune('A'+i))

			_, errs[i] = uc.Execute(context.Background(), in)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.True(t, httperr.IsBusiness(err, domain.CodeSlotUnavailable))
	}

	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, env.repo.appointmentCount())
	assert.Equal(t, 0, env.repo.slotCount())
}
