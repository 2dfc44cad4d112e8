package domain

import "context"

// RecordRepository defines the persistence contract for records. Every
// lookup is scoped by the owning store; the engine performs no independent
// tenant verification beyond requiring the store id in the predicate.
type RecordRepository interface {
	Create(ctx context.Context, record Record) error
	GetByID(ctx context.Context, storeID, id string) (Record, error)
	List(ctx context.Context, storeID string, filter ListFilter) ([]Record, error)
	Update(ctx context.Context, record Record) error
}

// ListFilter holds optional criteria for listing a store's records.
type ListFilter struct {
	Type   ResourceType
	Status *Status
	Limit  int
	Offset int
}

// TransitionGuard decides whether a status change is legal. Legality
// depends only on the (from, to) pair and the descriptor's table; no other
// record field may influence the decision.
type TransitionGuard interface {
	Check(ctx context.Context, desc ResourceDescriptor, from, to Status) error
}

// TransitionEvent is the snapshot emitted after an accepted status change.
type TransitionEvent struct {
	From   Status
	To     Status
	Record Record
}

// EventPublisher defines the contract for emitting transition events.
type EventPublisher interface {
	Publish(ctx context.Context, event TransitionEvent) error
}
