package contracts

import (
	"cloud.google.com/go/spanner"

	"github.com/light-bringer/changetrack/internal/app/product/domain"
)

// OutboxEvent represents an enriched domain event ready for persistence.
type OutboxEvent struct {
	EventID     string
	EventType   string
	AggregateID string
	Payload     string // JSON
	Status      string
}

// OutboxRepository defines the interface for outbox event persistence.
type OutboxRepository interface {
	// InsertMut creates a mutation for inserting an outbox event
	InsertMut(event *OutboxEvent) *spanner.Mutation

	// EnrichEvent serializes a domain event and assigns it an event ID
	EnrichEvent(event domain.DomainEvent) (*OutboxEvent, error)
}
