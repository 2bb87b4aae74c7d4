package mykafka

import "time"

type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	UserID     uint      `json:"user_id,omitempty"`
	CustomerID uint      `json:"customer_id,omitempty"`
	ProductID  uint      `json:"product_id,omitempty"`
	Email      string    `json:"email,omitempty"`
}

func NewEvent(typ string) Event {
	return Event{Type: typ, OccurredAt: time.Now().UTC()}
}
