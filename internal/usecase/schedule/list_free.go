package schedule

import (
	"context"
	"time"

	domain "github.com/VetAgendaServices01/vet-scheduler/internal/domain/scheduling"
	"github.com/VetAgendaServices01/vet-scheduler/internal/httperr"
	"github.com/VetAgendaServices01/vet-scheduler/internal/models"
)

type ListFreeSlots struct {
	repo domain.Repository
}

func NewListFreeSlots(repo domain.Repository) *ListFreeSlots {
	return &ListFreeSlots{repo: repo}
}

// Execute devolve os slots livres do profissional, ordenados por início.
// A lista é um retrato: entre listar e reservar, outro chamador pode
// consumir qualquer slot — quem valida de verdade é o book.
func (uc *ListFreeSlots) Execute(
	ctx context.Context,
	professionalID uint,
	from *time.Time,
) ([]models.Slot, error) {

	prof, err := uc.repo.GetProfessionalByID(ctx, professionalID)
	if err != nil {
		return nil, err
	}
	if prof == nil {
		return nil, httperr.ErrBusiness(domain.CodeNotFound)
	}

	return uc.repo.ListFreeSlots(ctx, professionalID, from)
}
