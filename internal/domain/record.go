package domain

import "time"

// Status is the lifecycle state of a record, held in its status field.
type Status string

// ResourceType names a category of business record with its own state graph.
type ResourceType string

// Record is the core domain entity: a long-lived business record owned by
// exactly one store. Financial fields are pointers because most verticals
// never set them; nil means "not recorded".
type Record struct {
	ID      string
	StoreID string
	Type    ResourceType
	Status  Status

	AskingPrice        *float64
	OfferPrice         *float64
	FinalPrice         *float64
	CommissionRate     *float64
	AgentShareRate     *float64
	CommissionAmount   *float64
	AgentShareAmount   *float64
	CompanyShareAmount *float64

	// Stamps holds lifecycle timestamps keyed by field name
	// (e.g. "viewing_date"), captured when the record enters a state.
	Stamps map[string]time.Time

	// Attributes holds resource-specific plain fields the engine does not
	// interpret (e.g. a subscription's recurrence descriptor).
	Attributes map[string]any

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewRecord creates a record in the descriptor's initial state.
func NewRecord(id, storeID string, desc ResourceDescriptor) Record {
	now := time.Now().UTC()
	return Record{
		ID:         id,
		StoreID:    storeID,
		Type:       desc.Type,
		Status:     desc.Initial,
		Stamps:     make(map[string]time.Time),
		Attributes: make(map[string]any),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Clone returns a deep copy of the record. The map fields are copied so the
// caller can mutate the clone without aliasing the original.
func (r Record) Clone() Record {
	out := r
	out.Stamps = make(map[string]time.Time, len(r.Stamps))
	for k, v := range r.Stamps {
		out.Stamps[k] = v
	}
	out.Attributes = make(map[string]any, len(r.Attributes))
	for k, v := range r.Attributes {
		out.Attributes[k] = v
	}
	return out
}

// UpdateRequest is caller intent for a single record update: an optional
// status change plus zero or more plain field edits applied regardless of
// any state change.
type UpdateRequest struct {
	Status *Status

	AskingPrice    *float64
	OfferPrice     *float64
	FinalPrice     *float64
	CommissionRate *float64
	AgentShareRate *float64

	Attributes map[string]any
}

// Empty reports whether the request carries neither a status change nor any
// field edits. Empty requests are rejected rather than written.
func (r UpdateRequest) Empty() bool {
	return r.Status == nil &&
		r.AskingPrice == nil &&
		r.OfferPrice == nil &&
		r.FinalPrice == nil &&
		r.CommissionRate == nil &&
		r.AgentShareRate == nil &&
		len(r.Attributes) == 0
}
