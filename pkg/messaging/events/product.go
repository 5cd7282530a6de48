package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/storecore/catalog/pkg/messaging"
)

// ProductCreatedEvent is published after a new product document is persisted.
type ProductCreatedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	ProductID  string    `json:"product_id"`
	Name       string    `json:"name"`
	Price      float64   `json:"price"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e ProductCreatedEvent) Subject() string {
	return messaging.ProductCreatedSubject
}

func (e ProductCreatedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

// ProductUpdatedEvent is published after an existing product document is patched.
type ProductUpdatedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	ProductID  string    `json:"product_id"`
	Name       string    `json:"name"`
	Price      float64   `json:"price"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e ProductUpdatedEvent) Subject() string {
	return messaging.ProductUpdatedSubject
}

func (e ProductUpdatedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

// ProductDeletedEvent is published after a product document is removed.
// It carries only the ID because the document is already gone.
type ProductDeletedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	ProductID  string    `json:"product_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e ProductDeletedEvent) Subject() string {
	return messaging.ProductDeletedSubject
}

func (e ProductDeletedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
