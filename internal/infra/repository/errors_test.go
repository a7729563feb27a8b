package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	domain "github.com/VetAgendaServices01/vet-scheduler/internal/domain/scheduling"
	"github.com/VetAgendaServices01/vet-scheduler/internal/httperr"
)

func TestTranslatePgError(t *testing.T) {
	assert.NoError(t, translatePgError(nil))

	// chave duplicada → slot_conflict
	dup := &pgconn.PgError{Code: "23505"}
	assert.True(t, httperr.IsBusiness(translatePgError(dup), domain.CodeSlotConflict))
	assert.True(t, httperr.IsBusiness(translatePgError(gorm.ErrDuplicatedKey), domain.CodeSlotConflict))

	// erro embrulhado ainda é reconhecido
	wrapped := fmt.Errorf("create slot: %w", dup)
	assert.True(t, httperr.IsBusiness(translatePgError(wrapped), domain.CodeSlotConflict))

	// serialização, deadlock, lock timeout e cancelamento de statement
	for _, code := range []string{"40001", "40P01", "55P03", "57014"} {
		err := translatePgError(&pgconn.PgError{Code: code})
		assert.True(t, httperr.IsBusiness(err, domain.CodeTransientFailure), code)
	}

	assert.True(t, httperr.IsBusiness(
		translatePgError(context.DeadlineExceeded),
		domain.CodeTransientFailure,
	))

	// o resto passa intacto
	boom := errors.New("boom")
	assert.ErrorIs(t, translatePgError(boom), boom)
}
