package messaging

import (
	"context"
)

// Subjects for product lifecycle events.
const (
	ProductCreatedSubject   = "catalog.products.created"
	ProductUpdatedSubject   = "catalog.products.updated"
	ProductDeletedSubject   = "catalog.products.deleted"
	ProductSubjectsWildcard = "catalog.products.>"
)

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoOpPublisher discards events. Used when messaging is disabled.
type NoOpPublisher struct{}

func (NoOpPublisher) Publish(_ context.Context, _ Event) error {
	return nil
}
