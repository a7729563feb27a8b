package schedule

import (
	"context"
	"time"

	domain "github.com/VetAgendaServices01/vet-scheduler/internal/domain/scheduling"
	"github.com/VetAgendaServices01/vet-scheduler/internal/timezone"
)

type SweepExpiredSlots struct {
	repo domain.Repository
}

func NewSweepExpiredSlots(repo domain.Repository) *SweepExpiredSlots {
	return &SweepExpiredSlots{repo: repo}
}

// Execute apaga todo slot livre com end <= now. Idempotente e seguro
// de rodar junto com reservas: apagar linha já apagada é no-op, então
// um slot sendo reservado no exato momento da varredura ou vira
// agendamento ou some — nunca os dois. Agendamento nenhum é tocado.
func (uc *SweepExpiredSlots) Execute(
	ctx context.Context,
	now *time.Time,
) (int64, error) {

	cutoff := timezone.Now()
	if now != nil {
		cutoff = *now
	}

	return uc.repo.DeleteExpiredSlots(ctx, cutoff)
}
