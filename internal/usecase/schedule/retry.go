package schedule

import (
	"time"

	domain "github.com/VetAgendaServices01/vet-scheduler/internal/domain/scheduling"
	"github.com/VetAgendaServices01/vet-scheduler/internal/httperr"
)

const transientRetryBackoff = 150 * time.Millisecond

// retryOnceOnTransient repete a operação uma única vez, com backoff,
// quando o banco devolve falha transiente (deadlock, serialização,
// timeout). Só os caminhos de maior contenção (book/reschedule) usam.
func retryOnceOnTransient(op func() error) error {
	err := op()
	if httperr.IsBusiness(err, domain.CodeTransientFailure) {
		time.Sleep(transientRetryBackoff)
		err = op()
	}
	return err
}
