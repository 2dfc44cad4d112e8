package domain_test

import (
	"errors"
	"testing"

	"github.com/ferrowork/recordstate/internal/domain"
)

func TestResources_TagsMatchKeys(t *testing.T) {
	for rt, desc := range domain.Resources {
		if desc.Type != rt {
			t.Errorf("descriptor for %q carries tag %q", rt, desc.Type)
		}
	}
}

func TestResources_InitialStateHasOutgoingEdges(t *testing.T) {
	for rt, desc := range domain.Resources {
		if len(desc.Transitions[desc.Initial]) == 0 {
			t.Errorf("%s: initial state %q is terminal", rt, desc.Initial)
		}
	}
}

// Every state reachable from the table is either a key (has outgoing edges)
// or a terminal state. With IsTerminal defined as "no entry", this reduces
// to: no destination may dangle as an unknown label, which the graph walk
// below also verifies.
func TestResources_GraphsAreAcyclic(t *testing.T) {
	for rt, desc := range domain.Resources {
		visiting := make(map[domain.Status]bool)
		done := make(map[domain.Status]bool)

		var walk func(s domain.Status) bool
		walk = func(s domain.Status) bool {
			if done[s] {
				return true
			}
			if visiting[s] {
				return false
			}
			visiting[s] = true
			for _, next := range desc.Transitions[s] {
				if !walk(next) {
					return false
				}
			}
			visiting[s] = false
			done[s] = true
			return true
		}

		for from := range desc.Transitions {
			if !walk(from) {
				t.Errorf("%s: transition table contains a cycle through %q", rt, from)
			}
		}
	}
}

func TestResources_ClosingStatesAreTerminal(t *testing.T) {
	for rt, desc := range domain.Resources {
		for s := range desc.Closing {
			if !desc.IsTerminal(s) {
				t.Errorf("%s: closing state %q has outgoing edges", rt, s)
			}
		}
	}
}

func TestResources_StampFieldsAreUnique(t *testing.T) {
	for rt, desc := range domain.Resources {
		seen := make(map[string]domain.Status)
		for s, rule := range desc.Stamps {
			if rule.Field == "" {
				t.Errorf("%s: stamp for %q has empty field", rt, s)
			}
			if prev, ok := seen[rule.Field]; ok {
				t.Errorf("%s: stamp field %q shared by %q and %q", rt, rule.Field, prev, s)
			}
			seen[rule.Field] = s
		}
	}
}

func TestDescriptor_Allows(t *testing.T) {
	deal := domain.Resources[domain.TypeDeal]

	if !deal.Allows(domain.DealLead, domain.DealViewing) {
		t.Error("lead -> viewing should be allowed")
	}
	if !deal.Allows(domain.DealLead, domain.DealLost) {
		t.Error("lead -> lost should be allowed")
	}
	if deal.Allows(domain.DealLead, domain.DealContract) {
		t.Error("lead -> contract should not be allowed")
	}
	if deal.Allows(domain.DealClosed, domain.DealLead) {
		t.Error("closed is terminal; nothing is reachable from it")
	}
}

func TestDescriptor_IsTerminal(t *testing.T) {
	deal := domain.Resources[domain.TypeDeal]

	for _, s := range []domain.Status{domain.DealClosed, domain.DealLost, domain.DealWithdrawn} {
		if !deal.IsTerminal(s) {
			t.Errorf("%q should be terminal", s)
		}
	}
	for _, s := range []domain.Status{domain.DealLead, domain.DealViewing, domain.DealOffer, domain.DealContract} {
		if deal.IsTerminal(s) {
			t.Errorf("%q should not be terminal", s)
		}
	}
}

func TestResourceFor_Known(t *testing.T) {
	desc, err := domain.ResourceFor(domain.TypeDeal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if desc.Initial != domain.DealLead {
		t.Errorf("Initial = %q, want %q", desc.Initial, domain.DealLead)
	}
}

func TestResourceFor_Unknown(t *testing.T) {
	_, err := domain.ResourceFor("invoice")
	var unknownErr *domain.UnknownResourceTypeError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected UnknownResourceTypeError, got %v", err)
	}
	if unknownErr.Type != "invoice" {
		t.Errorf("Type = %q, want %q", unknownErr.Type, "invoice")
	}
}
