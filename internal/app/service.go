package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ferrowork/recordstate/internal/domain"
)

// RecordService orchestrates record lifecycle operations for every
// registered resource type.
type RecordService struct {
	repo      domain.RecordRepository
	publisher domain.EventPublisher
	guard     domain.TransitionGuard
}

// NewRecordService creates a service with the given adapters.
func NewRecordService(repo domain.RecordRepository, publisher domain.EventPublisher, guard domain.TransitionGuard) *RecordService {
	return &RecordService{
		repo:      repo,
		publisher: publisher,
		guard:     guard,
	}
}

// CreateRequest holds the caller-supplied fields for a new record.
type CreateRequest struct {
	AskingPrice    *float64
	OfferPrice     *float64
	CommissionRate *float64
	AgentShareRate *float64
	Attributes     map[string]any
}

// Create persists a new record in the resource type's initial state.
func (s *RecordService) Create(ctx context.Context, storeID string, resourceType domain.ResourceType, req CreateRequest) (domain.Record, error) {
	desc, err := domain.ResourceFor(resourceType)
	if err != nil {
		return domain.Record{}, err
	}

	id, err := generateID()
	if err != nil {
		return domain.Record{}, fmt.Errorf("generating record id: %w", err)
	}

	record := domain.NewRecord(id, storeID, desc)
	record.AskingPrice = req.AskingPrice
	record.OfferPrice = req.OfferPrice
	record.CommissionRate = req.CommissionRate
	record.AgentShareRate = req.AgentShareRate
	for k, v := range req.Attributes {
		record.Attributes[k] = v
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return domain.Record{}, fmt.Errorf("creating record: %w", err)
	}

	return record, nil
}

// GetByID returns a store's record by its identifier.
func (s *RecordService) GetByID(ctx context.Context, storeID string, resourceType domain.ResourceType, id string) (domain.Record, error) {
	if _, err := domain.ResourceFor(resourceType); err != nil {
		return domain.Record{}, err
	}

	record, err := s.repo.GetByID(ctx, storeID, id)
	if err != nil {
		return domain.Record{}, err
	}
	if record.Type != resourceType {
		return domain.Record{}, domain.ErrRecordNotFound
	}
	return record, nil
}

// List returns a store's records of one resource type matching the filter.
func (s *RecordService) List(ctx context.Context, storeID string, resourceType domain.ResourceType, filter domain.ListFilter) ([]domain.Record, error) {
	if _, err := domain.ResourceFor(resourceType); err != nil {
		return nil, err
	}
	filter.Type = resourceType
	return s.repo.List(ctx, storeID, filter)
}

// ApplyUpdate is the transition orchestrator. It loads the current record
// scoped by store, validates a requested status change against the resource
// type's transition table, merges the caller's field edits with lifecycle
// stamps and the commission computation, and issues a single write.
//
// A request whose status equals the current status is not a transition: the
// guard is not consulted and the edit proceeds as a plain field update.
func (s *RecordService) ApplyUpdate(ctx context.Context, storeID string, resourceType domain.ResourceType, id string, req domain.UpdateRequest) (domain.Record, error) {
	desc, err := domain.ResourceFor(resourceType)
	if err != nil {
		return domain.Record{}, err
	}

	record, err := s.repo.GetByID(ctx, storeID, id)
	if err != nil {
		return domain.Record{}, err
	}
	if record.Type != resourceType {
		return domain.Record{}, domain.ErrRecordNotFound
	}

	changingStatus := req.Status != nil && *req.Status != record.Status
	if changingStatus {
		if err := s.guard.Check(ctx, desc, record.Status, *req.Status); err != nil {
			return domain.Record{}, err
		}
	}

	if req.Empty() {
		return domain.Record{}, domain.ErrNoChanges
	}

	now := time.Now().UTC()
	updated := record.Clone()
	applyFields(&updated, req)

	if changingStatus {
		updated.Status = *req.Status

		for field, ts := range domain.StampsFor(desc, *req.Status, record, now) {
			updated.Stamps[field] = ts
		}

		if desc.Closing[*req.Status] {
			if c, ok := domain.CommissionFor(desc, req, record); ok {
				updated.FinalPrice = &c.FinalPrice
				updated.CommissionAmount = &c.Amount
				updated.AgentShareAmount = &c.AgentShare
				updated.CompanyShareAmount = &c.CompanyShare
			}
		}
	}

	updated.UpdatedAt = now

	if err := s.repo.Update(ctx, updated); err != nil {
		return domain.Record{}, err
	}

	if changingStatus {
		event := domain.TransitionEvent{From: record.Status, To: *req.Status, Record: updated}
		if err := s.publisher.Publish(ctx, event); err != nil {
			return domain.Record{}, fmt.Errorf("publishing transition %s->%s: %w", record.Status, *req.Status, err)
		}
	}

	return updated, nil
}

// applyFields copies the caller's direct field edits onto the record.
func applyFields(record *domain.Record, req domain.UpdateRequest) {
	if req.AskingPrice != nil {
		record.AskingPrice = req.AskingPrice
	}
	if req.OfferPrice != nil {
		record.OfferPrice = req.OfferPrice
	}
	if req.FinalPrice != nil {
		record.FinalPrice = req.FinalPrice
	}
	if req.CommissionRate != nil {
		record.CommissionRate = req.CommissionRate
	}
	if req.AgentShareRate != nil {
		record.AgentShareRate = req.AgentShareRate
	}
	for k, v := range req.Attributes {
		record.Attributes[k] = v
	}
}
