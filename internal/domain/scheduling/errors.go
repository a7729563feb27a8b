package scheduling

// Códigos de negócio do motor de agenda. Só slot_unavailable é esperado
// sob carga concorrente normal: é "alguém levou esse horário antes",
// o chamador escolhe outro slot e tenta de novo.
const (
	CodeInvalidRange     = "invalid_range"
	CodeNotFound         = "not_found"
	CodeSlotUnavailable  = "slot_unavailable"
	CodeSlotConflict     = "slot_conflict"
	CodeInvalidState     = "invalid_state"
	CodeInvalidLocalTime = "ambiguous_or_invalid_local_time"
	CodeTransientFailure = "transient_failure"
)
