package domain

// Deal states (real-estate brokerage vertical).
const (
	DealLead      Status = "lead"
	DealViewing   Status = "viewing"
	DealOffer     Status = "offer"
	DealContract  Status = "contract"
	DealClosed    Status = "closed"
	DealWithdrawn Status = "withdrawn"
	DealLost      Status = "lost"
)

// Admission states (clinic vertical).
const (
	AdmissionInquiry    Status = "inquiry"
	AdmissionScheduled  Status = "scheduled"
	AdmissionAdmitted   Status = "admitted"
	AdmissionDischarged Status = "discharged"
	AdmissionCancelled  Status = "cancelled"
)

// Lab order states (clinic vertical).
const (
	LabOrderOrdered    Status = "ordered"
	LabOrderCollected  Status = "collected"
	LabOrderProcessing Status = "processing"
	LabOrderReported   Status = "reported"
	LabOrderCancelled  Status = "cancelled"
)

// Complaint states (legal practice vertical).
const (
	ComplaintOpen          Status = "open"
	ComplaintInvestigating Status = "investigating"
	ComplaintResolved      Status = "resolved"
	ComplaintDismissed     Status = "dismissed"
)

// Subscription states (salon / retail verticals).
const (
	SubscriptionTrial     Status = "trial"
	SubscriptionActive    Status = "active"
	SubscriptionExpired   Status = "expired"
	SubscriptionCancelled Status = "cancelled"
)

// Reservation states (hospitality vertical).
const (
	ReservationRequested  Status = "requested"
	ReservationConfirmed  Status = "confirmed"
	ReservationCheckedIn  Status = "checked_in"
	ReservationCheckedOut Status = "checked_out"
	ReservationDeclined   Status = "declined"
	ReservationCancelled  Status = "cancelled"
)

// Resource type tags. Each selects one descriptor in Resources.
const (
	TypeDeal         ResourceType = "deal"
	TypeAdmission    ResourceType = "admission"
	TypeLabOrder     ResourceType = "lab_order"
	TypeComplaint    ResourceType = "complaint"
	TypeSubscription ResourceType = "subscription"
	TypeReservation  ResourceType = "reservation"
)

// StampRule names the lifecycle timestamp captured when a record enters a
// state. First write wins unless Always is set; terminal stamps are Always
// since a record reaches them exactly once.
type StampRule struct {
	Field  string
	Always bool
}

// ResourceDescriptor is the per-resource-type configuration consumed by the
// transition engine: the state graph, the stamp rules, which states trigger
// the commission computation, and the default rates used when neither the
// request nor the record carries one.
type ResourceDescriptor struct {
	Type        ResourceType
	Initial     Status
	Transitions map[Status][]Status
	Stamps      map[Status]StampRule
	Closing     map[Status]bool

	// Percentages, e.g. 5 means 5%.
	DefaultCommissionRate float64
	DefaultAgentShareRate float64
}

// Allows reports whether the state graph permits moving from one state to
// another. A state with no entry in the table is terminal: nothing is
// reachable from it.
func (d ResourceDescriptor) Allows(from, to Status) bool {
	for _, next := range d.Transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a state has no outgoing edges.
func (d ResourceDescriptor) IsTerminal(s Status) bool {
	return len(d.Transitions[s]) == 0
}

// States returns every state named by the transition table, sources and
// destinations alike, in no particular order.
func (d ResourceDescriptor) States() []Status {
	seen := make(map[Status]bool)
	var out []Status
	add := func(s Status) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for from, tos := range d.Transitions {
		add(from)
		for _, to := range tos {
			add(to)
		}
	}
	return out
}

// Resources registers the transition engine configuration for every
// resource type served by the platform. Tables are short forward chains
// with early-exit edges into a terminal state; none contain cycles.
var Resources = map[ResourceType]ResourceDescriptor{
	TypeDeal: {
		Type:    TypeDeal,
		Initial: DealLead,
		Transitions: map[Status][]Status{
			DealLead:     {DealViewing, DealLost},
			DealViewing:  {DealOffer, DealLost},
			DealOffer:    {DealContract, DealLost},
			DealContract: {DealClosed, DealWithdrawn},
		},
		Stamps: map[Status]StampRule{
			DealViewing:   {Field: "viewing_date"},
			DealOffer:     {Field: "offer_date"},
			DealContract:  {Field: "contract_date"},
			DealClosed:    {Field: "closed_date", Always: true},
			DealWithdrawn: {Field: "withdrawn_date", Always: true},
		},
		Closing:               map[Status]bool{DealClosed: true},
		DefaultCommissionRate: 5,
		DefaultAgentShareRate: 50,
	},
	TypeAdmission: {
		Type:    TypeAdmission,
		Initial: AdmissionInquiry,
		Transitions: map[Status][]Status{
			AdmissionInquiry:   {AdmissionScheduled, AdmissionCancelled},
			AdmissionScheduled: {AdmissionAdmitted, AdmissionCancelled},
			AdmissionAdmitted:  {AdmissionDischarged},
		},
		Stamps: map[Status]StampRule{
			AdmissionScheduled:  {Field: "scheduled_date"},
			AdmissionAdmitted:   {Field: "admitted_date"},
			AdmissionDischarged: {Field: "discharged_date", Always: true},
			AdmissionCancelled:  {Field: "cancelled_date", Always: true},
		},
	},
	TypeLabOrder: {
		Type:    TypeLabOrder,
		Initial: LabOrderOrdered,
		Transitions: map[Status][]Status{
			LabOrderOrdered:    {LabOrderCollected, LabOrderCancelled},
			LabOrderCollected:  {LabOrderProcessing, LabOrderCancelled},
			LabOrderProcessing: {LabOrderReported},
		},
		Stamps: map[Status]StampRule{
			LabOrderCollected: {Field: "collected_date"},
			LabOrderReported:  {Field: "reported_date", Always: true},
			LabOrderCancelled: {Field: "cancelled_date", Always: true},
		},
	},
	TypeComplaint: {
		Type:    TypeComplaint,
		Initial: ComplaintOpen,
		Transitions: map[Status][]Status{
			ComplaintOpen:          {ComplaintInvestigating, ComplaintDismissed},
			ComplaintInvestigating: {ComplaintResolved, ComplaintDismissed},
		},
		Stamps: map[Status]StampRule{
			ComplaintInvestigating: {Field: "investigating_date"},
			ComplaintResolved:      {Field: "resolved_date", Always: true},
			ComplaintDismissed:     {Field: "dismissed_date", Always: true},
		},
	},
	TypeSubscription: {
		Type:    TypeSubscription,
		Initial: SubscriptionTrial,
		Transitions: map[Status][]Status{
			SubscriptionTrial:  {SubscriptionActive, SubscriptionCancelled},
			SubscriptionActive: {SubscriptionExpired, SubscriptionCancelled},
		},
		Stamps: map[Status]StampRule{
			SubscriptionActive:    {Field: "activated_date"},
			SubscriptionExpired:   {Field: "expired_date", Always: true},
			SubscriptionCancelled: {Field: "cancelled_date", Always: true},
		},
	},
	TypeReservation: {
		Type:    TypeReservation,
		Initial: ReservationRequested,
		Transitions: map[Status][]Status{
			ReservationRequested: {ReservationConfirmed, ReservationDeclined},
			ReservationConfirmed: {ReservationCheckedIn, ReservationCancelled},
			ReservationCheckedIn: {ReservationCheckedOut},
		},
		Stamps: map[Status]StampRule{
			ReservationConfirmed:  {Field: "confirmed_date"},
			ReservationCheckedIn:  {Field: "checked_in_date"},
			ReservationCheckedOut: {Field: "checked_out_date", Always: true},
			ReservationCancelled:  {Field: "cancelled_date", Always: true},
		},
	},
}

// ResourceFor looks up the descriptor for a resource type tag.
func ResourceFor(t ResourceType) (ResourceDescriptor, error) {
	desc, ok := Resources[t]
	if !ok {
		return ResourceDescriptor{}, &UnknownResourceTypeError{Type: t}
	}
	return desc, nil
}
