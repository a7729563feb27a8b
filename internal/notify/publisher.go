package notify

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"

	"github.com/VetAgendaServices01/vet-scheduler/internal/models"
)

// Eventos de reserva entregues ao subsistema de e-mail/lembretes.
// Fire-and-forget: falha aqui nunca desfaz a transação que já commitou.
const (
	EventBookingCreated     = "booking_created"
	EventBookingCancelled   = "booking_cancelled"
	EventBookingRescheduled = "booking_rescheduled"
)

const DefaultChannel = "vet-scheduler:bookings"

type Event struct {
	Type           string              `json:"type"`
	Appointment    *models.Appointment `json:"appointment,omitempty"`
	OldAppointment *models.Appointment `json:"old_appointment,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// RedisPublisher publica no canal consumido pelo serviço de notificações.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
}

func NewRedisPublisher(rdb *redis.Client, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}

	return &RedisPublisher{
		rdb:     rdb,
		channel: channel,
	}
}

func (p *RedisPublisher) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	return p.rdb.Publish(ctx, p.channel, payload).Err()
}
