package domain

import "time"

// DomainEvent is the base interface for all domain events.
type DomainEvent interface {
	EventType() string
	AggregateID() string
}

// ProductUpdatedEvent is emitted when tracked changes of a product are saved.
type ProductUpdatedEvent struct {
	ProductID     string    `json:"product_id"`
	ChangedFields []string  `json:"changed_fields"`
	Status        string    `json:"status"`
	Version       int64     `json:"version"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (e *ProductUpdatedEvent) EventType() string {
	return "product.updated"
}

func (e *ProductUpdatedEvent) AggregateID() string {
	return e.ProductID
}

// ProductArchivedEvent is emitted when a saved change archives a product.
type ProductArchivedEvent struct {
	ProductID  string    `json:"product_id"`
	ArchivedAt time.Time `json:"archived_at"`
}

func (e *ProductArchivedEvent) EventType() string {
	return "product.archived"
}

func (e *ProductArchivedEvent) AggregateID() string {
	return e.ProductID
}

// ProductCreatedEvent is emitted when a new product is first saved.
type ProductCreatedEvent struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

func (e *ProductCreatedEvent) EventType() string {
	return "product.created"
}

func (e *ProductCreatedEvent) AggregateID() string {
	return e.ProductID
}
