package models

import (
	"time"

	"github.com/google/uuid"
)

// Slot é um horário livre e atômico de um profissional.
// Existe na tabela se e somente se ainda não foi consumido:
// reservar um horário apaga a linha e cria o Appointment na
// mesma transação.
type Slot struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	ProfessionalID uint `gorm:"not null;index;uniqueIndex:idx_slot_key,priority:1" json:"professional_id"`

	StartTime time.Time `gorm:"type:timestamptz;not null;uniqueIndex:idx_slot_key,priority:2" json:"start_time"`
	EndTime   time.Time `gorm:"type:timestamptz;not null;uniqueIndex:idx_slot_key,priority:3" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
}
