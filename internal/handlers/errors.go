package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/VetAgendaServices01/vet-scheduler/internal/domain/scheduling"
	"github.com/VetAgendaServices01/vet-scheduler/internal/httperr"
)

// mapEngineError traduz códigos de negócio do motor em respostas HTTP.
// slot_unavailable vira 409 com mensagem de "escolha outro horário" —
// é o desfecho normal da corrida, o front só recarrega a lista.
func mapEngineError(c *gin.Context, err error) {
	code, ok := httperr.BusinessCode(err)
	if !ok {
		httperr.Internal(c, "internal_error", "Erro interno.")
		return
	}

	switch code {
	case domain.CodeInvalidRange:
		httperr.BadRequest(c, code, "Intervalo de horários inválido.")

	case domain.CodeNotFound:
		httperr.NotFound(c, code, "Registro não encontrado.")

	case domain.CodeSlotUnavailable:
		httperr.Conflict(c, code, "Esse horário acabou de ser reservado. Escolha outro.")

	case domain.CodeSlotConflict:
		httperr.Conflict(c, code, "Já existe um horário livre idêntico.")

	case domain.CodeInvalidState:
		httperr.BadRequest(c, code, "Agendamento não está mais agendado.")

	case domain.CodeInvalidLocalTime:
		// erro de configuração: mostrado ao profissional, nunca ao público
		httperr.BadRequest(c, code, "Horário local inexistente nessa data (horário de verão).")

	case domain.CodeTransientFailure:
		httperr.Unavailable(c, code, "Instabilidade temporária. Tente novamente.")

	default:
		httperr.BadRequest(c, code, "Operação inválida.")
	}
}
