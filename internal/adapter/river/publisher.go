package river

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/riverqueue/river"

	"github.com/ferrowork/recordstate/internal/domain"
)

// Compile-time check: Publisher implements domain.EventPublisher.
var _ domain.EventPublisher = (*Publisher)(nil)

// TransitionJobArgs carries the data needed to process a status transition
// asynchronously. River serializes this as JSON into its job queue table.
// It includes a snapshot of the record at the time of the transition, so
// the worker never needs to query the database.
type TransitionJobArgs struct {
	StoreID      string `json:"store_id"`
	RecordID     string `json:"record_id"`
	ResourceType string `json:"resource_type"`
	From         string `json:"from"`
	To           string `json:"to"`

	FinalPrice       *float64 `json:"final_price,omitempty"`
	CommissionAmount *float64 `json:"commission_amount,omitempty"`
}

// Kind returns the unique job type identifier used by River's job routing.
func (TransitionJobArgs) Kind() string { return "record.transitioned" }

// Client is the River client type parameterized for SQLite (*sql.Tx).
type Client = river.Client[*sql.Tx]

// Publisher implements domain.EventPublisher by enqueuing River jobs.
type Publisher struct {
	client *Client
}

// NewPublisher creates a publisher backed by the given River client.
func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// Publish enqueues a transition event as an async job in River.
func (p *Publisher) Publish(ctx context.Context, event domain.TransitionEvent) error {
	_, err := p.client.Insert(ctx, TransitionJobArgs{
		StoreID:          event.Record.StoreID,
		RecordID:         event.Record.ID,
		ResourceType:     string(event.Record.Type),
		From:             string(event.From),
		To:               string(event.To),
		FinalPrice:       event.Record.FinalPrice,
		CommissionAmount: event.Record.CommissionAmount,
	}, nil)
	if err != nil {
		return fmt.Errorf("enqueuing transition job: %w", err)
	}
	return nil
}
