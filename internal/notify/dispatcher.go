package notify

import (
	"context"
	"log"
	"time"
)

type Dispatcher struct {
	pub   Publisher
	queue chan Event
}

func NewDispatcher(pub Publisher) *Dispatcher {
	d := &Dispatcher{
		pub:   pub,
		queue: make(chan Event, 100), // buffer seguro
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

		if err := d.pub.Publish(ctx, ev); err != nil {
			log.Println("notify error:", err)
		}

		cancel()
	}
}

// Dispatch enfileira sem bloquear; só é chamado depois do commit.
func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
		// enviado
	default:
		// fila cheia → descartamos a notificação (nunca quebrar API)
		log.Println("notify queue full, dropping event")
	}
}
